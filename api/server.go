// Package api serves the latest recorded market snapshots over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/arbikit/gmx-ccxt/common/config"
	"github.com/arbikit/gmx-ccxt/common/logging"
	database "github.com/arbikit/gmx-ccxt/database/db"
	"github.com/arbikit/gmx-ccxt/database/models/gmxdata"
)

type WatcherServer struct {
	ctx    context.Context
	logger logging.Logger
	db     *gorm.DB
	server *http.Server
}

type FundingResp struct {
	Symbol           string `json:"symbol"`
	LongRatePerHour  string `json:"longRatePerHour"`
	ShortRatePerHour string `json:"shortRatePerHour"`
	LongsPayShorts   bool   `json:"longsPayShorts"`
	Timestamp        int64  `json:"timestamp"`
}

type OpenInterestResp struct {
	Symbol    string `json:"symbol"`
	LongUsd   string `json:"longUsd"`
	ShortUsd  string `json:"shortUsd"`
	TotalUsd  string `json:"totalUsd"`
	Timestamp int64  `json:"timestamp"`
}

type MarketResp struct {
	Symbol     string `json:"symbol"`
	MarketAddr string `json:"marketAddr"`
	Timestamp  int64  `json:"timestamp"`
}

func NewWatcherServer(ctx context.Context, logger logging.Logger) *WatcherServer {
	watcherServer := &WatcherServer{
		ctx:    ctx,
		logger: logger,
		db:     database.GetDB(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/markets", watcherServer.OnQueryMarkets)
	mux.HandleFunc("/funding", watcherServer.OnQueryFunding)
	mux.HandleFunc("/openinterest", watcherServer.OnQueryOpenInterest)
	watcherServer.server = &http.Server{
		Addr:         config.GetString("API_LISTEN_ADDR", ":9487"),
		WriteTimeout: config.GetDuration("API_WRITE_TIMEOUT", time.Second*25),
		Handler:      mux,
	}
	return watcherServer
}

func (s *WatcherServer) Shutdown() error {
	return s.server.Shutdown(s.ctx)
}

func (s *WatcherServer) Run() error {
	s.logger.Info("Starting watcher api httpserver on %s", s.server.Addr)
	go func() {
		err := s.server.ListenAndServe()
		if err != nil {
			if err == http.ErrServerClosed {
				s.logger.Info("Server closed under request")
			} else {
				s.logger.Critical("Server closed unexpected: %s", err)
			}
		}
	}()

	<-s.ctx.Done()
	s.logger.Info("api server receives shutdown signal.")
	return nil
}

// OnQueryMarkets lists the markets seen in the latest recording round.
func (s *WatcherServer) OnQueryMarkets(w http.ResponseWriter, r *http.Request) {
	var rows []gmxdata.MarketInfoSnapshot
	err := s.db.Raw(`
		SELECT DISTINCT ON (symbol) * FROM market_info_snapshot
		ORDER BY symbol, timestamp DESC`).Scan(&rows).Error
	if err != nil {
		s.logger.Error("query markets failed: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]MarketResp, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, MarketResp{
			Symbol:     row.Symbol,
			MarketAddr: row.MarketAddr,
			Timestamp:  row.Timestamp,
		})
	}
	s.writeJSON(w, resp)
}

// OnQueryFunding returns the latest funding snapshot per market, or of one
// market when ?symbol= is given.
func (s *WatcherServer) OnQueryFunding(w http.ResponseWriter, r *http.Request) {
	query := s.db.Raw(`
		SELECT DISTINCT ON (symbol) * FROM funding_rate_snapshot
		ORDER BY symbol, timestamp DESC`)
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		query = s.db.Raw(`
			SELECT * FROM funding_rate_snapshot WHERE symbol = ?
			ORDER BY timestamp DESC LIMIT 1`, symbol)
	}
	var rows []gmxdata.FundingRateSnapshot
	if err := query.Scan(&rows).Error; err != nil {
		s.logger.Error("query funding failed: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]FundingResp, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, FundingResp{
			Symbol:           row.Symbol,
			LongRatePerHour:  row.LongRatePerHour.String(),
			ShortRatePerHour: row.ShortRatePerHour.String(),
			LongsPayShorts:   row.LongsPayShorts,
			Timestamp:        row.Timestamp,
		})
	}
	s.writeJSON(w, resp)
}

// OnQueryOpenInterest returns the latest open interest snapshot per market,
// or of one market when ?symbol= is given.
func (s *WatcherServer) OnQueryOpenInterest(w http.ResponseWriter, r *http.Request) {
	query := s.db.Raw(`
		SELECT DISTINCT ON (symbol) * FROM open_interest_snapshot
		ORDER BY symbol, timestamp DESC`)
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		query = s.db.Raw(`
			SELECT * FROM open_interest_snapshot WHERE symbol = ?
			ORDER BY timestamp DESC LIMIT 1`, symbol)
	}
	var rows []gmxdata.OpenInterestSnapshot
	if err := query.Scan(&rows).Error; err != nil {
		s.logger.Error("query open interest failed: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]OpenInterestResp, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, OpenInterestResp{
			Symbol:    row.Symbol,
			LongUsd:   row.LongUsd.String(),
			ShortUsd:  row.ShortUsd.String(),
			TotalUsd:  row.TotalUsd.String(),
			Timestamp: row.Timestamp,
		})
	}
	s.writeJSON(w, resp)
}

func (s *WatcherServer) writeJSON(w http.ResponseWriter, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode response failed: %s", err)
	}
}
