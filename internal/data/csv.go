package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"services/backtest-service/internal/model"
)

const csvDateLayout = "2006-01-02"

// LoadCSV reads daily bars from a date,close CSV file. A header row is
// skipped when the first field does not parse as a date. Rows must be sorted
// ascending by date.
func LoadCSV(path string) ([]model.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read bars file: %w", err)
	}

	var bars []model.PriceBar
	var prev time.Time
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected date,close", i+1)
		}

		date, err := time.Parse(csvDateLayout, strings.TrimSpace(rec[0]))
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: invalid date %q", i+1, rec[0])
		}

		closePrice, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid close %q", i+1, rec[1])
		}

		if !prev.IsZero() && !date.After(prev) {
			return nil, fmt.Errorf("row %d: dates must be strictly increasing", i+1)
		}
		prev = date

		bars = append(bars, model.PriceBar{Date: date, Close: closePrice})
	}

	return bars, nil
}
