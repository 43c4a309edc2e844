// Package chart renders assessments as Plotly figure JSON: a bar chart with
// one bar per factor and a gauge for the overall score.
package chart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
)

// Band colors shared by the bar chart and the gauge.
const (
	Green  = "#4ade80"
	Yellow = "#facc15"
	Red    = "#f87171"
)

// Figure names in domain.Visualizations.
const (
	RiskFactorsFigure = "risk_factors"
	RiskGaugeFigure   = "risk_gauge"
)

// GaugeThreshold is where the gauge draws its alert marker.
const GaugeThreshold = 70

// RiskColor returns the band color for a crisp factor risk in [0, 1].
func RiskColor(risk float64) string {
	switch {
	case risk <= 0.3:
		return Green
	case risk <= 0.7:
		return Yellow
	default:
		return Red
	}
}

// LevelColor returns the band color for an overall level.
func LevelColor(level domain.Level) string {
	switch level {
	case domain.LevelMedium:
		return Yellow
	case domain.LevelHigh:
		return Red
	default:
		return Green
	}
}

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []any  `json:"data"`
	Layout Layout `json:"layout"`
}

type Layout struct {
	Title      *Title  `json:"title,omitempty"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	ShowLegend *bool   `json:"showlegend,omitempty"`
	Template   string  `json:"template,omitempty"`
	Height     int     `json:"height,omitempty"`
	Margin     *Margin `json:"margin,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title      *Title    `json:"title,omitempty"`
	TickFormat string    `json:"tickformat,omitempty"`
	Range      []float64 `json:"range,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// BarTrace is a Plotly bar trace.
type BarTrace struct {
	Type          string    `json:"type"`
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	Marker        BarMarker `json:"marker"`
	Text          []string  `json:"text"`
	TextPosition  string    `json:"textposition"`
	HoverTemplate string    `json:"hovertemplate"`
	CustomData    [][]any   `json:"customdata"`
}

type BarMarker struct {
	Color []string `json:"color"`
}

// IndicatorTrace is a Plotly gauge indicator.
type IndicatorTrace struct {
	Type  string `json:"type"`
	Mode  string `json:"mode"`
	Value int    `json:"value"`
	Title Title  `json:"title"`
	Gauge Gauge  `json:"gauge"`
}

type Gauge struct {
	Axis      GaugeAxis `json:"axis"`
	Bar       GaugeBar  `json:"bar"`
	Steps     []Step    `json:"steps"`
	Threshold Threshold `json:"threshold"`
}

type GaugeAxis struct {
	Range []float64 `json:"range"`
}

type GaugeBar struct {
	Color string `json:"color"`
}

type Step struct {
	Range []float64 `json:"range"`
	Color string    `json:"color"`
}

type Threshold struct {
	Line      ThresholdLine `json:"line"`
	Thickness float64       `json:"thickness"`
	Value     float64       `json:"value"`
}

type ThresholdLine struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

const barHoverTemplate = "<b>%{x}</b><br>" +
	"Risk: %{y:.1%}<br>" +
	"Value: %{customdata[0]}<br>" +
	"%{customdata[1]}<br>" +
	"<extra></extra>"

// RiskFactors builds the per-factor bar chart.
func RiskFactors(a domain.Assessment) Figure {
	factors := a.Factors()
	bar := BarTrace{
		Type:          "bar",
		X:             make([]string, 0, len(factors)),
		Y:             make([]float64, 0, len(factors)),
		Marker:        BarMarker{Color: make([]string, 0, len(factors))},
		Text:          make([]string, 0, len(factors)),
		TextPosition:  "auto",
		HoverTemplate: barHoverTemplate,
		CustomData:    make([][]any, 0, len(factors)),
	}
	for _, f := range factors {
		bar.X = append(bar.X, Capitalize(string(f.Name)))
		bar.Y = append(bar.Y, f.Risk)
		bar.Marker.Color = append(bar.Marker.Color, RiskColor(f.Risk))
		bar.Text = append(bar.Text, Percent(f.Risk))
		bar.CustomData = append(bar.CustomData, []any{f.Value, f.Description})
	}

	showLegend := false
	return Figure{
		Data: []any{bar},
		Layout: Layout{
			Title:      &Title{Text: "Flight Risk Factors"},
			XAxis:      &Axis{Title: &Title{Text: "Factors"}},
			YAxis:      &Axis{Title: &Title{Text: "Risk Level"}, TickFormat: ".0%", Range: []float64{0, 1}},
			ShowLegend: &showLegend,
			Template:   "plotly_white",
		},
	}
}

// RiskGauge builds the overall score gauge.
func RiskGauge(a domain.Assessment) Figure {
	return Figure{
		Data: []any{IndicatorTrace{
			Type:  "indicator",
			Mode:  "gauge+number",
			Value: a.Score,
			Title: Title{Text: "Overall Risk Score"},
			Gauge: Gauge{
				Axis: GaugeAxis{Range: []float64{0, 100}},
				Bar:  GaugeBar{Color: LevelColor(a.Level)},
				Steps: []Step{
					{Range: []float64{0, domain.LowMaxScore}, Color: Green},
					{Range: []float64{domain.LowMaxScore, domain.MediumMaxScore}, Color: Yellow},
					{Range: []float64{domain.MediumMaxScore, 100}, Color: Red},
				},
				Threshold: Threshold{
					Line:      ThresholdLine{Color: "red", Width: 4},
					Thickness: 0.75,
					Value:     GaugeThreshold,
				},
			},
		}},
		Layout: Layout{
			Height: 300,
			Margin: &Margin{L: 20, R: 20, T: 50, B: 20},
		},
	}
}

// Renderer renders both figures for the pipeline.
type Renderer struct{}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

func (*Renderer) Render(a domain.Assessment) (domain.Visualizations, error) {
	factors, err := json.Marshal(RiskFactors(a))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", RiskFactorsFigure, err)
	}
	gauge, err := json.Marshal(RiskGauge(a))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", RiskGaugeFigure, err)
	}
	return domain.Visualizations{
		RiskFactorsFigure: factors,
		RiskGaugeFigure:   gauge,
	}, nil
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Percent formats a fraction with one decimal, e.g. 0.25 -> "25.0%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
