package model

// StrategyBlock is one entry in the declarative block list a strategy is
// composed of. Type selects the block family (indicator, condition, action),
// ID the concrete rule, and Params the rule-specific settings.
type StrategyBlock struct {
	Type   string         `json:"type" yaml:"type"`
	ID     string         `json:"id" yaml:"id"`
	Params map[string]any `json:"params" yaml:"params"`
}

// Block families.
const (
	BlockIndicator = "indicator"
	BlockCondition = "condition"
	BlockAction    = "action"
)

// IndicatorKind identifies a derived price series.
type IndicatorKind string

const (
	IndicatorSMA       IndicatorKind = "sma"
	IndicatorEMA       IndicatorKind = "ema"
	IndicatorRSI       IndicatorKind = "rsi"
	IndicatorMACD      IndicatorKind = "macd"
	IndicatorBollinger IndicatorKind = "bollinger"
)

// IndicatorSpec is a resolved indicator declaration.
type IndicatorSpec struct {
	Kind   IndicatorKind
	Period int     // sma, ema, rsi, bollinger
	Fast   int     // macd
	Slow   int     // macd
	Signal int     // macd
	StdDev float64 // bollinger
}

// ConditionKind identifies an entry/exit predicate.
type ConditionKind string

const (
	ConditionCrossover   ConditionKind = "crossover"
	ConditionThreshold   ConditionKind = "threshold"
	ConditionPriceChange ConditionKind = "priceChange"
)

// ConditionSpec is a resolved condition declaration.
type ConditionSpec struct {
	Kind       ConditionKind
	Indicator  string  // crossover, threshold: target series key
	Direction  string  // crossover: above/below; priceChange: up/down
	Operator   string  // threshold: <, >, =
	Value      float64 // threshold
	Percentage float64 // priceChange
}

// ActionKind identifies a trade action.
type ActionKind string

const (
	ActionBuy  ActionKind = "buy"
	ActionSell ActionKind = "sell"
)

// ActionSpec is a resolved buy/sell declaration. Stop-loss and take-profit
// blocks are not actions in the executed sense; they are lifted onto the
// Strategy as passive exit thresholds.
type ActionSpec struct {
	Kind     ActionKind
	Quantity string  // buy: percentage or fixed count; sell: all or half
	Value    float64 // buy: percent of cash, or share count
}

// Strategy is the load-time resolution of a block list. Blocks are
// interpreted once here rather than re-read every simulated day.
type Strategy struct {
	Indicators []IndicatorSpec
	Conditions []ConditionSpec
	Actions    []ActionSpec

	// Passive exit thresholds as fractions of entry price. Zero means the
	// exit is not configured.
	StopLossPct   float64
	TakeProfitPct float64
}

// ParseStrategy resolves a block list into typed specs. Blocks with an
// unrecognized type or id are ignored so that they stay inert at run time.
func ParseStrategy(blocks []StrategyBlock) *Strategy {
	s := &Strategy{}

	for _, b := range blocks {
		switch b.Type {
		case BlockIndicator:
			if spec, ok := parseIndicator(b); ok {
				s.Indicators = append(s.Indicators, spec)
			}
		case BlockCondition:
			if spec, ok := parseCondition(b); ok {
				s.Conditions = append(s.Conditions, spec)
			}
		case BlockAction:
			switch b.ID {
			case "buy":
				s.Actions = append(s.Actions, ActionSpec{
					Kind:     ActionBuy,
					Quantity: stringParam(b.Params, "quantity", "percentage"),
					Value:    floatParam(b.Params, "value", 10),
				})
			case "sell":
				s.Actions = append(s.Actions, ActionSpec{
					Kind:     ActionSell,
					Quantity: stringParam(b.Params, "quantity", "all"),
				})
			case "stopLoss":
				s.StopLossPct = floatParam(b.Params, "percentage", 5) / 100
			case "takeProfit":
				s.TakeProfitPct = floatParam(b.Params, "percentage", 10) / 100
			}
		}
	}

	return s
}

func parseIndicator(b StrategyBlock) (IndicatorSpec, bool) {
	switch b.ID {
	case "sma":
		return IndicatorSpec{Kind: IndicatorSMA, Period: intParam(b.Params, "period", 20)}, true
	case "ema":
		return IndicatorSpec{Kind: IndicatorEMA, Period: intParam(b.Params, "period", 20)}, true
	case "rsi":
		return IndicatorSpec{Kind: IndicatorRSI, Period: intParam(b.Params, "period", 14)}, true
	case "macd":
		return IndicatorSpec{
			Kind:   IndicatorMACD,
			Fast:   intParam(b.Params, "fast", 12),
			Slow:   intParam(b.Params, "slow", 26),
			Signal: intParam(b.Params, "signal", 9),
		}, true
	case "bollinger":
		return IndicatorSpec{
			Kind:   IndicatorBollinger,
			Period: intParam(b.Params, "period", 20),
			StdDev: floatParam(b.Params, "stdDev", 2),
		}, true
	}
	return IndicatorSpec{}, false
}

func parseCondition(b StrategyBlock) (ConditionSpec, bool) {
	switch b.ID {
	case "crossover":
		// The wire format names the reference series "indicator2"; accept
		// plain "indicator" as well.
		key := stringParam(b.Params, "indicator2", "")
		if key == "" {
			key = stringParam(b.Params, "indicator", "sma")
		}
		return ConditionSpec{
			Kind:      ConditionCrossover,
			Indicator: key,
			Direction: stringParam(b.Params, "direction", "above"),
		}, true
	case "threshold":
		return ConditionSpec{
			Kind:      ConditionThreshold,
			Indicator: stringParam(b.Params, "indicator", "rsi"),
			Operator:  stringParam(b.Params, "operator", "<"),
			Value:     floatParam(b.Params, "value", 30),
		}, true
	case "priceChange":
		return ConditionSpec{
			Kind:       ConditionPriceChange,
			Direction:  stringParam(b.Params, "direction", "up"),
			Percentage: floatParam(b.Params, "percentage", 5),
		}, true
	}
	return ConditionSpec{}, false
}

// Param values arrive as float64 from JSON and as int or float64 from YAML.

func floatParam(params map[string]any, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

func intParam(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return def
}

func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}
