package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // png encoder

	"TrendScope/internal/model"
)

// DefaultWindow is how many trailing observations are drawn.
const DefaultWindow = 60

const secondsPerDay = 24 * 60 * 60

// Plotter draws one forecast chart per ticker into Dir.
type Plotter struct {
	Dir    string
	Window int
	Width  vg.Length
	Height vg.Length
	log    zerolog.Logger
}

// NewPlotter creates a Plotter writing PNG files into dir.
func NewPlotter(dir string, log zerolog.Logger) *Plotter {
	return &Plotter{
		Dir:    dir,
		Window: DefaultWindow,
		Width:  10 * vg.Inch,
		Height: 5 * vg.Inch,
		log:    log.With().Str("component", "chart").Logger(),
	}
}

// Enabled reports whether charts are written at all.
func (p *Plotter) Enabled() bool { return p != nil && p.Dir != "" }

// Path returns the chart file of ticker.
func (p *Plotter) Path(ticker string) string {
	return filepath.Join(p.Dir, ticker+"_forecast.png")
}

// Title is the chart heading for a forecast horizon of days.
func Title(ticker string, window, days int) string {
	return fmt.Sprintf("%s: Last %d Days + %d-Day Forecast", ticker, window, days)
}

// Draw renders the last Window prices of series plus the forecast point placed
// days calendar days after the last observation.
func (p *Plotter) Draw(series *model.PriceSeries, fp model.ForecastPoint, days int) (string, error) {
	if series.Len() == 0 {
		return "", fmt.Errorf("chart %s: empty series", series.Ticker)
	}
	tail := series.Tail(p.Window)

	history := make(plotter.XYs, tail.Len())
	for i, pt := range tail.Points {
		history[i].X = float64(pt.Date.Unix())
		history[i].Y = pt.Price
	}
	at := fp.LastDate.AddDate(0, 0, days)
	forecast := plotter.XYs{{X: float64(at.Unix()), Y: fp.Price}}

	pl := plot.New()
	pl.Title.Text = Title(series.Ticker, p.Window, days)
	pl.X.Label.Text = "Date"
	pl.Y.Label.Text = "Adjusted Close"
	pl.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(history)
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", series.Ticker, err)
	}
	line.Color = color.RGBA{B: 200, A: 255}
	line.Width = vg.Points(1.5)

	point, err := plotter.NewScatter(forecast)
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", series.Ticker, err)
	}
	point.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	point.GlyphStyle.Radius = vg.Points(4)

	pl.Add(line, point)
	pl.Legend.Add("Historical", line)
	pl.Legend.Add("Forecast", point)
	pl.Legend.Top = true
	// keep the forecast point off the right edge
	pl.X.Max += secondsPerDay

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := p.Path(series.Ticker)
	if err := pl.Save(p.Width, p.Height, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", series.Ticker, err)
	}
	p.log.Debug().Str("ticker", series.Ticker).Str("path", path).Msg("chart written")
	return path, nil
}

// DrawAll renders one chart per forecast whose series is present.
func (p *Plotter) DrawAll(series []*model.PriceSeries, forecasts []model.ForecastPoint, days int) ([]string, error) {
	if !p.Enabled() {
		return nil, nil
	}
	byTicker := make(map[string]*model.PriceSeries, len(series))
	for _, s := range series {
		byTicker[s.Ticker] = s
	}
	var paths []string
	for _, fp := range forecasts {
		s, ok := byTicker[fp.Ticker]
		if !ok {
			continue
		}
		path, err := p.Draw(s, fp, days)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
