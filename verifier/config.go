package verifier

import "time"

type Config struct {
	RoundInterval time.Duration `arg:"env:ROUND_INTERVAL"`
	GraphURL      string        `arg:"env:GMX_SQUID_GRAPH_URL"`
	RestURL       string        `arg:"env:GMX_REST_URL"`
	Account       string        `arg:"env:VERIFY_ACCOUNT"`
	PositionLimit int           `arg:"env:VERIFY_POSITION_LIMIT"`
}
