package engine

import (
	"math"

	"services/backtest-service/internal/model"
)

// thresholdTolerance is the absolute tolerance for '=' comparisons against
// continuous indicator values.
const thresholdTolerance = 1.0

// GateOpen reports whether every declared condition holds for the day. An
// empty condition set is vacuously satisfied.
func GateOpen(conditions []model.ConditionSpec, price, prevPrice float64, indicators map[string]float64) bool {
	for _, c := range conditions {
		if !EvaluateCondition(c, price, prevPrice, indicators) {
			return false
		}
	}
	return true
}

// EvaluateCondition answers whether a single rule is satisfied on this day.
// A condition referencing an indicator that is absent (not declared, or still
// in its warm-up window) is not satisfied; absence is never an error.
func EvaluateCondition(c model.ConditionSpec, price, prevPrice float64, indicators map[string]float64) bool {
	switch c.Kind {
	case model.ConditionCrossover:
		value, ok := indicators[c.Indicator]
		if !ok {
			return false
		}
		if c.Direction == "above" {
			return price > value && prevPrice <= value
		}
		return price < value && prevPrice >= value

	case model.ConditionThreshold:
		value, ok := indicators[c.Indicator]
		if !ok {
			return false
		}
		switch c.Operator {
		case "<":
			return value < c.Value
		case ">":
			return value > c.Value
		case "=":
			return math.Abs(value-c.Value) < thresholdTolerance
		}
		return false

	case model.ConditionPriceChange:
		changePct := (price - prevPrice) / prevPrice * 100
		if c.Direction == "up" {
			return changePct >= c.Percentage
		}
		return changePct <= -c.Percentage
	}

	return false
}
