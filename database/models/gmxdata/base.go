package gmxdata

import "github.com/arbikit/gmx-ccxt/database/models"

// AllModels collects available models.
var AllModels = []interface{}{
	&models.System{},

	&MarketInfoSnapshot{},
	&FundingRateSnapshot{},
	&OpenInterestSnapshot{},
}
