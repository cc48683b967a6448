// services/backtest-service/internal/validator/strategy_validator.go
package validator

import (
	"errors"
	"fmt"

	"services/backtest-service/internal/model"
)

// ValidateBlocks validates a strategy block list before a run. Unknown block
// ids are permitted (they are inert at run time); known blocks must carry
// parameters inside their documented bounds.
func ValidateBlocks(blocks []model.StrategyBlock) error {
	if len(blocks) == 0 {
		return errors.New("strategy cannot be empty")
	}

	for i, b := range blocks {
		if err := validateBlock(b); err != nil {
			return fmt.Errorf("block %d (%s/%s): %w", i+1, b.Type, b.ID, err)
		}
	}
	return nil
}

func validateBlock(b model.StrategyBlock) error {
	switch b.Type {
	case model.BlockIndicator:
		return validateIndicatorBlock(b)
	case model.BlockCondition:
		return validateConditionBlock(b)
	case model.BlockAction:
		return validateActionBlock(b)
	}
	return fmt.Errorf("invalid block type: %s", b.Type)
}

func validateIndicatorBlock(b model.StrategyBlock) error {
	switch b.ID {
	case "sma", "ema":
		return checkNumberRange(b.Params, "period", 2, 200)
	case "rsi":
		return checkNumberRange(b.Params, "period", 2, 100)
	case "macd":
		if err := checkNumberRange(b.Params, "fast", 2, 100); err != nil {
			return err
		}
		if err := checkNumberRange(b.Params, "slow", 2, 100); err != nil {
			return err
		}
		if err := checkNumberRange(b.Params, "signal", 2, 100); err != nil {
			return err
		}
		fast, fastOk := numberParam(b.Params, "fast")
		slow, slowOk := numberParam(b.Params, "slow")
		if fastOk && slowOk && slow <= fast {
			return errors.New("slow period must be greater than fast period")
		}
		return nil
	case "bollinger":
		if err := checkNumberRange(b.Params, "period", 2, 100); err != nil {
			return err
		}
		return checkNumberRange(b.Params, "stdDev", 0.1, 5)
	}
	// Unknown indicators are permitted; they simply never compute.
	return nil
}

func validateConditionBlock(b model.StrategyBlock) error {
	switch b.ID {
	case "crossover":
		return checkEnum(b.Params, "direction", "above", "below")
	case "threshold":
		return checkEnum(b.Params, "operator", "<", ">", "=")
	case "priceChange":
		if err := checkEnum(b.Params, "direction", "up", "down"); err != nil {
			return err
		}
		if v, ok := numberParam(b.Params, "percentage"); ok && v <= 0 {
			return errors.New("percentage must be positive")
		}
		return nil
	}
	return nil
}

func validateActionBlock(b model.StrategyBlock) error {
	switch b.ID {
	case "buy":
		if err := checkEnum(b.Params, "quantity", "percentage", "fixed"); err != nil {
			return err
		}
		if v, ok := numberParam(b.Params, "value"); ok && v <= 0 {
			return errors.New("value must be positive")
		}
		return nil
	case "sell":
		return checkEnum(b.Params, "quantity", "all", "half")
	case "stopLoss", "takeProfit":
		if v, ok := numberParam(b.Params, "percentage"); ok && v < 0 {
			return errors.New("percentage cannot be negative")
		}
		return nil
	}
	return nil
}

// checkNumberRange validates an optional numeric parameter against inclusive
// bounds. A missing parameter is fine; the engine supplies the default.
func checkNumberRange(params map[string]any, key string, min, max float64) error {
	v, ok := numberParam(params, key)
	if !ok {
		if _, present := params[key]; present {
			return fmt.Errorf("%s must be a number", key)
		}
		return nil
	}
	if v < min || v > max {
		return fmt.Errorf("%s must be between %v and %v", key, min, max)
	}
	return nil
}

// checkEnum validates an optional string parameter against allowed values.
func checkEnum(params map[string]any, key string, allowed ...string) error {
	raw, present := params[key]
	if !present {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%s must be a string", key)
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s", key, s)
}

func numberParam(params map[string]any, key string) (float64, bool) {
	switch n := params[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
