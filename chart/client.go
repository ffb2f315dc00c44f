package chart

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sigi/incapacity-engine/stats"
)

// Client renders charts through quickchart's short-URL endpoint. The
// service stores the configuration and returns a compact URL, which keeps
// report emails small. On any failure the client degrades to the plain
// URL-encoded form instead of failing the report.
type Client struct {
	http     *resty.Client
	fallback URLRenderer
}

// NewClient creates a short-URL chart client against baseURL (empty means
// DefaultBaseURL).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2),
		fallback: URLRenderer{BaseURL: baseURL},
	}
}

type createRequest struct {
	Chart  Spec `json:"chart"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

type createResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// Render requests a short URL for the spec, falling back to the long GET
// URL when the service is unavailable.
func (c *Client) Render(spec Spec, width, height int) (string, error) {
	var out createResponse
	resp, err := c.http.R().
		SetBody(createRequest{Chart: spec, Width: width, Height: height}).
		SetResult(&out).
		Post("/chart/create")

	if err != nil || !resp.IsSuccess() || !out.Success || out.URL == "" {
		return c.fallback.Render(spec, width, height)
	}
	return out.URL, nil
}

var _ Renderer = (*Client)(nil)
var _ Renderer = URLRenderer{}

// Sizes used by the report renderers.
const (
	PieWidth     = 500
	PieHeight    = 300
	SeriesWidth  = 600
	SeriesHeight = 300
)

// ReportCharts holds the three image URLs embedded in a company report.
type ReportCharts struct {
	StatusPieURL      string
	MonthlyCountsURL  string
	MonthlyAmountsURL string
}

// BuildReportCharts renders the three report charts for a statistics
// summary using the given backend.
func BuildReportCharts(r Renderer, s stats.Statistics) (ReportCharts, error) {
	pie, err := r.Render(StatusPie(s), PieWidth, PieHeight)
	if err != nil {
		return ReportCharts{}, fmt.Errorf("render status pie: %w", err)
	}
	bar, err := r.Render(MonthlyCounts(s.PerMonth), SeriesWidth, SeriesHeight)
	if err != nil {
		return ReportCharts{}, fmt.Errorf("render monthly counts: %w", err)
	}
	line, err := r.Render(MonthlyApprovedAmounts(s.PerMonthApprovedAmount), SeriesWidth, SeriesHeight)
	if err != nil {
		return ReportCharts{}, fmt.Errorf("render monthly amounts: %w", err)
	}
	return ReportCharts{StatusPieURL: pie, MonthlyCountsURL: bar, MonthlyAmountsURL: line}, nil
}
