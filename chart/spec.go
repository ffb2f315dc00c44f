/*
Package chart builds chart specifications for report graphics.

PURPOSE:
  Reports embed three charts: a pie of the status distribution, a bar chart
  of monthly incapacity counts, and a line chart of monthly approved
  amounts. Rendering is delegated to an external charting service that
  accepts a Chart.js configuration; this package's responsibility is
  constructing the correct specification (type, labels, dataset values,
  colors) and the request payload, not producing pixels.

BACKENDS:
  The Renderer interface turns a Spec into an image URL. URLRenderer encodes
  the spec into a quickchart.io GET URL and performs no I/O. Client POSTs
  the spec to quickchart's short-URL endpoint and falls back to the GET URL
  when the service is unreachable.

SEE ALSO:
  - builders.go: the three report chart builders
  - client.go: the resty-backed short-URL backend
*/
package chart

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// DefaultBaseURL is the chart-image service endpoint.
const DefaultBaseURL = "https://quickchart.io"

// =============================================================================
// SPEC - Chart.js configuration subset
// =============================================================================

// Spec is the Chart.js configuration sent to the charting service.
type Spec struct {
	Type    string   `json:"type"`
	Data    Data     `json:"data"`
	Options *Options `json:"options,omitempty"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`

	// BackgroundColor is a single color string for bar/line datasets or a
	// []string with one color per slice for pie datasets.
	BackgroundColor any     `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	Fill            bool    `json:"fill,omitempty"`
	Tension         float64 `json:"tension,omitempty"`
}

type Options struct {
	Plugins *Plugins `json:"plugins,omitempty"`
	Scales  *Scales  `json:"scales,omitempty"`
}

type Plugins struct {
	Legend *Legend `json:"legend,omitempty"`
	Title  *Title  `json:"title,omitempty"`
}

type Legend struct {
	Display  *bool         `json:"display,omitempty"`
	Position string        `json:"position,omitempty"`
	Labels   *LegendLabels `json:"labels,omitempty"`
}

type LegendLabels struct {
	Font *Font `json:"font,omitempty"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Font    *Font  `json:"font,omitempty"`
}

type Font struct {
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
}

type Scales struct {
	Y *Axis `json:"y,omitempty"`
}

type Axis struct {
	BeginAtZero bool   `json:"beginAtZero"`
	Ticks       *Ticks `json:"ticks,omitempty"`
}

type Ticks struct {
	StepSize int `json:"stepSize,omitempty"`
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer turns a chart spec into a publicly fetchable image URL.
type Renderer interface {
	Render(spec Spec, width, height int) (string, error)
}

// URLRenderer encodes the spec into a quickchart GET URL. Pure, no I/O.
type URLRenderer struct {
	BaseURL string // defaults to DefaultBaseURL when empty
}

// Render returns a GET URL with the URL-encoded JSON spec as the "c"
// parameter.
func (r URLRenderer) Render(spec Spec, width, height int) (string, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("encode chart spec: %w", err)
	}
	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/chart?width=%d&height=%d&c=%s",
		base, width, height, url.QueryEscape(string(payload))), nil
}
