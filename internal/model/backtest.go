package model

import "time"

// PriceBar is one trading day's closing price observation.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// BacktestRequest carries the run parameters for a single backtest.
// Zero-valued dates and capital are filled with service defaults.
type BacktestRequest struct {
	Symbol         string          `json:"symbol" validate:"required"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	InitialCapital float64         `json:"initial_capital" validate:"omitempty,min=1"`
	Blocks         []StrategyBlock `json:"strategy" validate:"required"`
}

// Trade sides.
const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Trade exit/entry reasons.
const (
	ReasonSignal        = "Strategy Signal"
	ReasonStopLoss      = "Stop Loss"
	ReasonTakeProfit    = "Take Profit"
	ReasonEndOfBacktest = "End of Backtest"
)

// Trade is an immutable record of one executed buy or sell. Sells always
// carry realized P&L against the position's entry price; buys never do.
type Trade struct {
	Date              string   `json:"date"`
	Side              string   `json:"type"`
	Reason            string   `json:"reason"`
	Shares            int      `json:"shares"`
	Price             float64  `json:"price"`
	Cost              float64  `json:"cost,omitempty"`
	ProfitLoss        *float64 `json:"pl,omitempty"`
	ProfitLossPercent *float64 `json:"pl_pct,omitempty"`
}

// EquityPoint is one day's account snapshot: equity = capital + position value.
type EquityPoint struct {
	Date          string  `json:"date"`
	Equity        float64 `json:"equity"`
	Capital       float64 `json:"capital"`
	PositionValue float64 `json:"position_value"`
}

// BacktestMetrics summarizes risk and return over a finished run.
type BacktestMetrics struct {
	TotalReturn       float64 `json:"total_return"`
	TotalReturnAmount float64 `json:"total_return_amount"`
	FinalCapital      float64 `json:"final_capital"`
	WinRate           float64 `json:"win_rate"`
	TotalTrades       int     `json:"total_trades"`
	WinningTrades     int     `json:"winning_trades"`
	LosingTrades      int     `json:"losing_trades"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	ProfitFactor      float64 `json:"profit_factor"`
	AvgTrade          float64 `json:"avg_trade"`
}

// BacktestResult is the terminal aggregate of one run. The equity curve and
// trade list are bounded reporting windows; TotalTradesCount and the metrics
// cover the full run.
type BacktestResult struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error,omitempty"`
	RunID            string           `json:"run_id,omitempty"`
	Symbol           string           `json:"symbol,omitempty"`
	Period           string           `json:"period,omitempty"`
	InitialCapital   float64          `json:"initial_capital,omitempty"`
	FinalEquity      float64          `json:"final_equity,omitempty"`
	Metrics          *BacktestMetrics `json:"metrics,omitempty"`
	EquityCurve      []EquityPoint    `json:"equity_curve,omitempty"`
	Trades           []Trade          `json:"trades,omitempty"`
	TotalTradesCount int              `json:"total_trades_count,omitempty"`
}
