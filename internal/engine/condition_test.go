package engine

import (
	"testing"

	"services/backtest-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCrossover_StrictTransitionOnly(t *testing.T) {
	cond := model.ConditionSpec{Kind: model.ConditionCrossover, Indicator: "sma", Direction: "above"}
	ind := map[string]float64{"sma": 100}

	assert.True(t, EvaluateCondition(cond, 101, 99, ind), "crossing from below fires")
	assert.True(t, EvaluateCondition(cond, 101, 100, ind), "crossing from exactly on the line fires")
	assert.False(t, EvaluateCondition(cond, 102, 101, ind), "no re-trigger while already above")
	assert.False(t, EvaluateCondition(cond, 99, 98, ind), "still below does not fire")
}

func TestCrossover_Below(t *testing.T) {
	cond := model.ConditionSpec{Kind: model.ConditionCrossover, Indicator: "ema", Direction: "below"}
	ind := map[string]float64{"ema": 100}

	assert.True(t, EvaluateCondition(cond, 99, 101, ind))
	assert.True(t, EvaluateCondition(cond, 99, 100, ind))
	assert.False(t, EvaluateCondition(cond, 98, 99, ind), "no re-trigger while already below")
}

func TestCrossover_MissingIndicatorIsFalse(t *testing.T) {
	cond := model.ConditionSpec{Kind: model.ConditionCrossover, Indicator: "sma", Direction: "above"}
	assert.False(t, EvaluateCondition(cond, 101, 99, map[string]float64{}))
}

func TestThreshold_Operators(t *testing.T) {
	ind := map[string]float64{"rsi": 28}

	lt := model.ConditionSpec{Kind: model.ConditionThreshold, Indicator: "rsi", Operator: "<", Value: 30}
	assert.True(t, EvaluateCondition(lt, 0, 0, ind))

	gt := model.ConditionSpec{Kind: model.ConditionThreshold, Indicator: "rsi", Operator: ">", Value: 30}
	assert.False(t, EvaluateCondition(gt, 0, 0, ind))

	// '=' uses an absolute tolerance of 1, not exact equality.
	eq := model.ConditionSpec{Kind: model.ConditionThreshold, Indicator: "rsi", Operator: "=", Value: 28.5}
	assert.True(t, EvaluateCondition(eq, 0, 0, ind))
	eq.Value = 29.5
	assert.False(t, EvaluateCondition(eq, 0, 0, ind))
}

func TestThreshold_MissingIndicatorIsFalse(t *testing.T) {
	cond := model.ConditionSpec{Kind: model.ConditionThreshold, Indicator: "rsi", Operator: "<", Value: 30}
	assert.False(t, EvaluateCondition(cond, 0, 0, map[string]float64{}))
}

func TestPriceChange_Thresholds(t *testing.T) {
	up := model.ConditionSpec{Kind: model.ConditionPriceChange, Direction: "up", Percentage: 5}
	assert.True(t, EvaluateCondition(up, 105, 100, nil), "exactly +5% fires")
	assert.False(t, EvaluateCondition(up, 104.9, 100, nil))

	down := model.ConditionSpec{Kind: model.ConditionPriceChange, Direction: "down", Percentage: 5}
	assert.True(t, EvaluateCondition(down, 95, 100, nil))
	assert.False(t, EvaluateCondition(down, 96, 100, nil))
}

func TestGateOpen_EmptyConditionsVacuouslyTrue(t *testing.T) {
	assert.True(t, GateOpen(nil, 100, 99, nil))
}

func TestGateOpen_AllMustHold(t *testing.T) {
	ind := map[string]float64{"rsi": 28}
	conds := []model.ConditionSpec{
		{Kind: model.ConditionThreshold, Indicator: "rsi", Operator: "<", Value: 30},
		{Kind: model.ConditionPriceChange, Direction: "up", Percentage: 5},
	}

	assert.True(t, GateOpen(conds, 105, 100, ind))
	assert.False(t, GateOpen(conds, 104, 100, ind), "one failing condition closes the gate")
}
