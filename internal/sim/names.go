package sim

// DefaultNames returns the built-in symbol directory used when no catalog is
// wired in. The server normally loads display names from the SQLite catalog
// and only falls back to this table for symbols it has never seen.
func DefaultNames() map[string]string {
	return map[string]string{
		"AAPL":  "Apple Inc.",
		"MSFT":  "Microsoft Corporation",
		"GOOGL": "Alphabet Inc.",
		"AMZN":  "Amazon.com Inc.",
		"TSLA":  "Tesla Inc.",
		"NVDA":  "NVIDIA Corporation",
		"META":  "Meta Platforms Inc.",
		"NFLX":  "Netflix Inc.",
		"JPM":   "JPMorgan Chase & Co.",
		"V":     "Visa Inc.",
		"MA":    "Mastercard Incorporated",
		"JNJ":   "Johnson & Johnson",
		"PG":    "The Procter & Gamble Company",
		"UNH":   "UnitedHealth Group Incorporated",
		"HD":    "The Home Depot Inc.",
		"DIS":   "The Walt Disney Company",
		"WMT":   "Walmart Inc.",
		"KO":    "The Coca-Cola Company",
		"PEP":   "PepsiCo Inc.",
		"ADBE":  "Adobe Inc.",
		"CRM":   "Salesforce Inc.",
		"NKE":   "NIKE Inc.",
		"AVGO":  "Broadcom Inc.",
		"COST":  "Costco Wholesale Corporation",
		"LLY":   "Eli Lilly and Company",
		"MRK":   "Merck & Co. Inc.",
		"PFE":   "Pfizer Inc.",
		"TXN":   "Texas Instruments Incorporated",
	}
}
