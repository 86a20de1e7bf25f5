package db

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbikit/gmx-ccxt/database/db/watcherdb"
	"github.com/arbikit/gmx-ccxt/database/models/gmxdata"
	"github.com/arbikit/gmx-ccxt/types"
)

// Reset runs AutoMigrate over dbApp.Models(), so every table the recorder
// writes must be listed by the watcher app.
func TestDbAppFromTypeWatcherModels(t *testing.T) {
	app := dbAppFromType(types.Watcher)
	require.IsType(t, &watcherdb.WatcherDBApp{}, app)

	models := app.Models()
	require.Contains(t, models, &gmxdata.MarketInfoSnapshot{})
	require.Contains(t, models, &gmxdata.FundingRateSnapshot{})
	require.Contains(t, models, &gmxdata.OpenInterestSnapshot{})
}

func TestDbAppFromTypeUnknownPanics(t *testing.T) {
	require.Panics(t, func() { dbAppFromType(types.AppType("unknown")) })
}
