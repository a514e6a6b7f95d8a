// Package chart renders dashboard charts as SVG.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no data to render")

// ContentType is the MIME type of rendered charts.
const ContentType = gochart.ContentTypeSVG

const (
	defaultWidth  = 1200
	defaultHeight = 600
	labelLimit    = 24
)

// valencePalette runs from low valence (sad) to high valence (happy).
var valencePalette = []drawing.Color{
	drawing.ColorFromHex("3D348B"),
	drawing.ColorFromHex("7678ED"),
	drawing.ColorFromHex("00BECC"),
	drawing.ColorFromHex("439A86"),
	drawing.ColorFromHex("71DA1B"),
	drawing.ColorFromHex("B9F18C"),
	drawing.ColorFromHex("F7B801"),
	drawing.ColorFromHex("FC8B4A"),
	drawing.ColorFromHex("EE8189"),
	drawing.ColorFromHex("D64550"),
}

var (
	albumColor  = drawing.ColorFromHex("1FC3AA")
	decadeColor = drawing.ColorFromHex("8624F5")
)

// Bar is one labelled value on a bar chart.
type Bar struct {
	Label string
	Value float64
}

// AlbumBars converts album averages to bars in release order.
func AlbumBars(averages []domain.AlbumAverage) []Bar {
	bars := make([]Bar, 0, len(averages))
	for _, a := range averages {
		bars = append(bars, Bar{Label: a.Album, Value: a.Average})
	}
	return bars
}

// SearchBars converts chart rows to bars for one feature.
func SearchBars(rows []domain.ChartRow, feature domain.Feature) []Bar {
	bars := make([]Bar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, Bar{Label: r.Song, Value: r.Values[feature]})
	}
	return bars
}

// RenderScatter draws one dot per song: x is the release year, y the feature
// value on a zero-based axis. Dots are coloured by valence decile and sized
// by tempo.
func RenderScatter(w io.Writer, feature domain.Feature, points []domain.ScatterPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	buckets := make([][]domain.ScatterPoint, len(valencePalette))
	minYear, maxYear := math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		b := clampBucket(p.ValenceBucket)
		buckets[b] = append(buckets[b], p)
		minYear = math.Min(minYear, p.Year)
		maxYear = math.Max(maxYear, p.Year)
	}

	var series []gochart.Series
	for b, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		xs := make([]float64, len(bucket))
		ys := make([]float64, len(bucket))
		tempos := make([]float64, len(bucket))
		for i, p := range bucket {
			xs[i], ys[i], tempos[i] = p.Year, p.Value, p.Tempo
		}
		series = append(series, gochart.ContinuousSeries{
			Name: fmt.Sprintf("valence %.1f", float64(b)/10),
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotColor:    valencePalette[b],
				DotWidthProvider: func(_, _ gochart.Range, index int, _, _ float64) float64 {
					return tempoDotWidth(tempos[index])
				},
			},
			XValues: xs,
			YValues: ys,
		})
	}

	lo, hi := feature.Bounds()
	ch := gochart.Chart{
		Title:  fmt.Sprintf("%s by release year", feature),
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:           "release year",
			Range:          &gochart.ContinuousRange{Min: math.Floor(minYear) - 1, Max: math.Ceil(maxYear) + 1},
			ValueFormatter: yearFormatter,
		},
		YAxis: gochart.YAxis{
			Name:  feature.String(),
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.LegendLeft(&ch)}

	return render(w, ch.Render)
}

// RenderBars draws a bar per value in input order.
func RenderBars(w io.Writer, title string, bars []Bar) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	values := make([]gochart.Value, 0, len(bars))
	maxValue := 0.0
	for _, b := range bars {
		values = append(values, gochart.Value{
			Label: shorten(b.Label),
			Value: b.Value,
			Style: gochart.Style{FillColor: albumColor, StrokeColor: albumColor},
		})
		maxValue = math.Max(maxValue, b.Value)
	}

	bc := gochart.BarChart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Bottom: 16},
		},
		XAxis: gochart.Style{TextRotationDegrees: 45},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
		},
		BarWidth:   40,
		BarSpacing: 8,
		Bars:       values,
	}

	return render(w, bc.Render)
}

// RenderComparison draws each album's average against its decade's average.
func RenderComparison(w io.Writer, title string, rows []domain.DecadeComparison) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(rows))
	albums := make([]float64, len(rows))
	decades := make([]float64, len(rows))
	// Blank ticks half a slot past each end keep a single album renderable.
	ticks := []gochart.Tick{{Value: -0.5}}
	maxValue := 0.0
	for i, r := range rows {
		xs[i] = float64(i)
		albums[i] = r.AlbumAverage
		decades[i] = r.DecadeAverage
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: shorten(r.Album)})
		maxValue = math.Max(maxValue, math.Max(r.AlbumAverage, r.DecadeAverage))
	}
	ticks = append(ticks, gochart.Tick{Value: float64(len(rows)) - 0.5})

	ch := gochart.Chart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			TickStyle: gochart.Style{
				TextRotationDegrees: 45,
			},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "album average",
				Style:   gochart.Style{StrokeColor: albumColor, StrokeWidth: 2, DotColor: albumColor, DotWidth: 5},
				XValues: xs,
				YValues: albums,
			},
			gochart.ContinuousSeries{
				Name:    "decade average",
				Style:   gochart.Style{StrokeColor: decadeColor, StrokeWidth: 2, DotColor: decadeColor, DotWidth: 5},
				XValues: xs,
				YValues: decades,
			},
		},
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	return render(w, ch.Render)
}

func render(w io.Writer, fn func(gochart.RendererProvider, io.Writer) error) error {
	if err := fn(gochart.SVG, w); err != nil {
		return fmt.Errorf("chart: render: %w", err)
	}
	return nil
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", math.Floor(f))
	}
	return ""
}

func clampBucket(b int) int {
	if b < 0 {
		return 0
	}
	if b >= len(valencePalette) {
		return len(valencePalette) - 1
	}
	return b
}

// tempoDotWidth maps a tempo of 0-250 BPM to a dot of 2-10 px.
func tempoDotWidth(tempo float64) float64 {
	return 2 + 8*math.Min(math.Max(tempo, 0), 250)/250
}

// axisMax rounds the top of a zero-based axis up to 1 for unit features and
// to the next multiple of ten otherwise.
func axisMax(v float64) float64 {
	if v <= 1 {
		return 1
	}
	return math.Ceil(v/10) * 10
}

func shorten(label string) string {
	label = strings.TrimSpace(label)
	r := []rune(label)
	if len(r) <= labelLimit {
		return label
	}
	return string(r[:labelLimit-1]) + "…"
}
