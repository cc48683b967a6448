package engine

import (
	"fmt"
	"math"

	"services/backtest-service/internal/indicator"
	"services/backtest-service/internal/model"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Runner simulates a strategy against a daily price series. A Runner holds no
// per-run state; every run is independent and reentrant.
type Runner struct {
	logger       *zap.Logger
	equityWindow int
	tradeWindow  int
}

// NewRunner creates a runner whose results retain at most equityWindow equity
// points and tradeWindow trades. Metrics always cover the full run.
func NewRunner(logger *zap.Logger, equityWindow, tradeWindow int) *Runner {
	return &Runner{
		logger:       logger,
		equityWindow: equityWindow,
		tradeWindow:  tradeWindow,
	}
}

// position is the account state owned by the run loop. shares == 0 implies
// entryPrice == 0; shares never goes negative (no shorting).
type position struct {
	capital    float64
	shares     int
	entryPrice float64
}

// Run walks the price series day by day: passive exits first, then the
// condition gate, then actions in declaration order, recording equity and
// drawdown each day. Any open position is force-closed on the final bar.
func (r *Runner) Run(symbol string, bars []model.PriceBar, strategy *model.Strategy, initialCapital float64) *model.BacktestResult {
	if len(bars) == 0 {
		return &model.BacktestResult{
			Success: false,
			Error:   fmt.Sprintf("no data available for %s, check symbol or date range", symbol),
		}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	series := indicator.Compute(closes, strategy.Indicators)

	pos := position{capital: initialCapital}
	var trades []model.Trade
	var curve []model.EquityPoint
	peakEquity := initialCapital
	maxDrawdown := 0.0

	for i := 1; i < len(bars); i++ {
		date := bars[i].Date.Format(dateLayout)
		price := closes[i]
		prevPrice := closes[i-1]
		values := indicator.ValuesAt(series, i)

		// Passive exits run before any rule-based action and regardless of
		// the condition gate; stop-loss is checked ahead of take-profit.
		if pos.shares > 0 {
			plPct := (price - pos.entryPrice) / pos.entryPrice
			if strategy.StopLossPct != 0 && plPct <= -strategy.StopLossPct {
				trades = append(trades, closePosition(&pos, date, price, model.ReasonStopLoss))
			} else if strategy.TakeProfitPct != 0 && plPct >= strategy.TakeProfitPct {
				trades = append(trades, closePosition(&pos, date, price, model.ReasonTakeProfit))
			}
		}

		if GateOpen(strategy.Conditions, price, prevPrice, values) {
			for _, action := range strategy.Actions {
				switch action.Kind {
				case model.ActionBuy:
					if pos.shares == 0 {
						if t, ok := executeBuy(&pos, action, date, price); ok {
							trades = append(trades, t)
						}
					}
				case model.ActionSell:
					if pos.shares > 0 {
						trades = append(trades, executeSell(&pos, action, date, price))
					}
				}
			}
		}

		equity := pos.capital + float64(pos.shares)*price
		curve = append(curve, model.EquityPoint{
			Date:          date,
			Equity:        round2(equity),
			Capital:       round2(pos.capital),
			PositionValue: round2(float64(pos.shares) * price),
		})

		if equity > peakEquity {
			peakEquity = equity
		}
		if dd := (peakEquity - equity) / peakEquity; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	if pos.shares > 0 {
		last := len(bars) - 1
		trades = append(trades, closePosition(&pos, bars[last].Date.Format(dateLayout), closes[last], model.ReasonEndOfBacktest))
	}

	finalEquity := pos.capital + float64(pos.shares)*closes[len(closes)-1]
	metrics := computeMetrics(initialCapital, finalEquity, trades, curve, maxDrawdown)

	if r.logger != nil {
		r.logger.Debug("Backtest run finished",
			zap.String("symbol", symbol),
			zap.Int("bars", len(bars)),
			zap.Int("trades", len(trades)),
			zap.Float64("finalEquity", finalEquity))
	}

	return &model.BacktestResult{
		Success:          true,
		Symbol:           symbol,
		InitialCapital:   initialCapital,
		FinalEquity:      round2(finalEquity),
		Metrics:          metrics,
		EquityCurve:      tail(curve, r.equityWindow),
		Trades:           tail(trades, r.tradeWindow),
		TotalTradesCount: len(trades),
	}
}

// executeBuy invests a percentage of current capital or a fixed share count
// capped at available capital. A zero-share result records no trade.
func executeBuy(pos *position, action model.ActionSpec, date string, price float64) (model.Trade, bool) {
	var amount float64
	if action.Quantity == "percentage" {
		amount = pos.capital * action.Value / 100
	} else {
		amount = math.Min(action.Value*price, pos.capital)
	}

	shares := int(amount / price)
	if shares <= 0 {
		return model.Trade{}, false
	}

	cost := float64(shares) * price
	pos.capital -= cost
	pos.shares = shares
	pos.entryPrice = price

	return model.Trade{
		Date:   date,
		Side:   model.TradeBuy,
		Reason: model.ReasonSignal,
		Shares: shares,
		Price:  round2(price),
		Cost:   round2(cost),
	}, true
}

// executeSell liquidates all held shares, or half of them for any quantity
// mode other than "all". A partial sell keeps the position's entry price.
func executeSell(pos *position, action model.ActionSpec, date string, price float64) model.Trade {
	shares := pos.shares
	if action.Quantity != "all" {
		shares = pos.shares / 2
	}

	pos.capital += float64(shares) * price
	pl := (price - pos.entryPrice) * float64(shares)
	plPct := (price - pos.entryPrice) / pos.entryPrice * 100

	pos.shares -= shares
	if pos.shares == 0 {
		pos.entryPrice = 0
	}

	return sellTrade(date, model.ReasonSignal, shares, price, pl, plPct)
}

// closePosition liquidates the entire position for a passive or terminal exit.
func closePosition(pos *position, date string, price float64, reason string) model.Trade {
	shares := pos.shares
	pos.capital += float64(shares) * price
	pl := (price - pos.entryPrice) * float64(shares)
	plPct := (price - pos.entryPrice) / pos.entryPrice * 100
	pos.shares = 0
	pos.entryPrice = 0

	return sellTrade(date, reason, shares, price, pl, plPct)
}

func sellTrade(date, reason string, shares int, price, pl, plPct float64) model.Trade {
	pl = round2(pl)
	plPct = round2(plPct)
	return model.Trade{
		Date:              date,
		Side:              model.TradeSell,
		Reason:            reason,
		Shares:            shares,
		Price:             round2(price),
		ProfitLoss:        &pl,
		ProfitLossPercent: &plPct,
	}
}

func tail[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
