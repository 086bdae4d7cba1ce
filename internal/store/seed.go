package store

import "stockdeck/internal/sim"

// defaultSymbolNames is the symbol directory seeded into a fresh catalog.
var defaultSymbolNames = sim.DefaultNames()

// defaultIndexes are the index cards a fresh dashboard starts with.
var defaultIndexes = []IndexDef{
	{ID: "SPX", Label: "S&P 500", BaseValue: 5234.18},
	{ID: "IXIC", Label: "NASDAQ Composite", BaseValue: 16384.45},
	{ID: "DJI", Label: "Dow Jones Industrial Average", BaseValue: 38790.43},
}

// defaultWatchlist is the starter watchlist for a fresh catalog.
var defaultWatchlist = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"}

// defaultHoldings is the starter portfolio for a fresh catalog.
var defaultHoldings = []Holding{
	{Symbol: "AAPL", Qty: 25, CostBasis: 150.00},
	{Symbol: "MSFT", Qty: 10, CostBasis: 310.50},
	{Symbol: "NVDA", Qty: 8, CostBasis: 420.75},
	{Symbol: "V", Qty: 12, CostBasis: 230.20},
}
