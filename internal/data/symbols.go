package data

// SymbolInfo describes one entry in the popular-symbols catalog.
type SymbolInfo struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// PopularSymbols returns the static catalog of commonly backtested NSE
// symbols.
func PopularSymbols() []SymbolInfo {
	return []SymbolInfo{
		{Symbol: "RELIANCE.NS", Name: "Reliance Industries"},
		{Symbol: "TCS.NS", Name: "Tata Consultancy Services"},
		{Symbol: "HDFCBANK.NS", Name: "HDFC Bank"},
		{Symbol: "INFY.NS", Name: "Infosys"},
		{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever"},
		{Symbol: "ICICIBANK.NS", Name: "ICICI Bank"},
		{Symbol: "SBIN.NS", Name: "State Bank of India"},
		{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel"},
		{Symbol: "ITC.NS", Name: "ITC Limited"},
		{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank"},
		{Symbol: "LT.NS", Name: "Larsen & Toubro"},
		{Symbol: "AXISBANK.NS", Name: "Axis Bank"},
		{Symbol: "ASIANPAINT.NS", Name: "Asian Paints"},
		{Symbol: "MARUTI.NS", Name: "Maruti Suzuki"},
		{Symbol: "TITAN.NS", Name: "Titan Company"},
		{Symbol: "WIPRO.NS", Name: "Wipro"},
		{Symbol: "ULTRACEMCO.NS", Name: "UltraTech Cement"},
		{Symbol: "SUNPHARMA.NS", Name: "Sun Pharmaceutical"},
		{Symbol: "NESTLEIND.NS", Name: "Nestle India"},
		{Symbol: "TECHM.NS", Name: "Tech Mahindra"},
	}
}
