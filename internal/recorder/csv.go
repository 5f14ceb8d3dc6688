package recorder

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"TrendScope/internal/model"
)

// DefaultSnapshotPath is where the adjusted close table is written by default.
const DefaultSnapshotPath = "data/adj_close.csv"

// CSVRecorder writes the price table as Date,<TICKER...> rows.
// Each snapshot replaces the previous file.
type CSVRecorder struct {
	path string
}

// NewCSVRecorder creates a recorder writing to path.
func NewCSVRecorder(path string) *CSVRecorder {
	return &CSVRecorder{path: path}
}

func (r *CSVRecorder) WriteSnapshot(table *model.PriceTable) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"Date"}, table.Tickers...)); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot header: %w", err)
	}
	for i, d := range table.Dates {
		rec := make([]string, 0, len(table.Tickers)+1)
		rec = append(rec, d.Format(time.DateOnly))
		for _, v := range table.Values[i] {
			rec = append(rec, formatPrice(v))
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write snapshot row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return f.Close()
}

func (r *CSVRecorder) Close() error { return nil }

// formatPrice keeps full precision; missing observations become empty cells.
func formatPrice(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
