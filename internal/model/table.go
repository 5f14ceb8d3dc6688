package model

import (
	"math"
	"sort"
	"time"
)

// PriceTable is the date-aligned union of several price series.
// Values[row][col] is NaN where Tickers[col] has no observation on Dates[row].
type PriceTable struct {
	Dates   []time.Time
	Tickers []string
	Values  [][]float64
}

// NewPriceTable aligns the given series on the union of their dates.
// Column order follows the order of the series.
func NewPriceTable(series []*PriceSeries) *PriceTable {
	index := make(map[time.Time]int)
	var dates []time.Time
	for _, s := range series {
		for _, p := range s.Points {
			if _, ok := index[p.Date]; !ok {
				index[p.Date] = 0
				dates = append(dates, p.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i, d := range dates {
		index[d] = i
	}

	t := &PriceTable{
		Dates:   dates,
		Tickers: make([]string, len(series)),
		Values:  make([][]float64, len(dates)),
	}
	for i := range t.Values {
		row := make([]float64, len(series))
		for j := range row {
			row[j] = math.NaN()
		}
		t.Values[i] = row
	}
	for j, s := range series {
		t.Tickers[j] = s.Ticker
		for _, p := range s.Points {
			t.Values[index[p.Date]][j] = p.Price
		}
	}
	return t
}

// Empty reports whether the table holds no rows.
func (t *PriceTable) Empty() bool { return len(t.Dates) == 0 }

// Complete returns the rows where every ticker has an observation.
func (t *PriceTable) Complete() *PriceTable {
	out := &PriceTable{Tickers: t.Tickers}
	for i, row := range t.Values {
		full := true
		for _, v := range row {
			if math.IsNaN(v) {
				full = false
				break
			}
		}
		if full {
			out.Dates = append(out.Dates, t.Dates[i])
			out.Values = append(out.Values, row)
		}
	}
	return out
}
