package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/pulseboard/pulseboard/internal/config"
)

// defaultVideoMetrics are summed when the config lists no metric families.
var defaultVideoMetrics = []string{
	"process_cpu_seconds_total",
	"process_resident_memory_bytes",
	"http_requests_total",
}

// VideoHealth is the normalized /health probe result.
// Status is "healthy", "unhealthy" (reachable, non-200, Code set) or
// "offline" (transport failure, surfaced as an error by FetchHealth).
type VideoHealth struct {
	Status string         `json:"status"`
	Code   int            `json:"code,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// VideoMetrics is the summed Prometheus counters from the service's
// /metrics exposition.
type VideoMetrics struct {
	Status  string             `json:"status"`
	Metrics map[string]float64 `json:"metrics"`
}

// Video probes the in-house video-generation service.
type Video struct {
	cfg    config.VideoConfig
	client *http.Client
}

func NewVideo(cfg config.VideoConfig) *Video {
	return &Video{cfg: cfg, client: newClient("", "", nil)}
}

func (v *Video) configured() error {
	if v.cfg.BaseURL == "" {
		return fmt.Errorf("VIDEO_API_URL %w", ErrNotConfigured)
	}
	return nil
}

// FetchHealth probes GET {base}/health. A reachable-but-failing service is a
// value ("unhealthy" with the status code), not an error; only transport
// failures return an error, which the API layer reports as "offline".
func (v *Video) FetchHealth(ctx context.Context) (VideoHealth, error) {
	if err := v.configured(); err != nil {
		return VideoHealth{}, err
	}

	var data map[string]any
	err := getJSON(ctx, v.client, v.cfg.BaseURL+"/health", nil, &data)
	var se *StatusError
	if errors.As(err, &se) {
		return VideoHealth{Status: "unhealthy", Code: se.Code}, nil
	}
	if err != nil {
		return VideoHealth{}, fmt.Errorf("video health: %w", err)
	}
	return VideoHealth{Status: "healthy", Data: data}, nil
}

// FetchMetrics scrapes GET {base}/metrics and sums the configured metric
// families from the Prometheus text exposition.
func (v *Video) FetchMetrics(ctx context.Context) (VideoMetrics, error) {
	if err := v.configured(); err != nil {
		return VideoMetrics{}, err
	}

	mfs, err := fetchMetrics(ctx, v.client, v.cfg.BaseURL+"/metrics")
	if err != nil {
		return VideoMetrics{}, fmt.Errorf("video metrics: %w", err)
	}

	names := v.cfg.Metrics
	if len(names) == 0 {
		names = defaultVideoMetrics
	}
	out := VideoMetrics{Status: "healthy", Metrics: make(map[string]float64, len(names))}
	for _, name := range names {
		out.Metrics[name] = sumFamily(mfs[name])
	}
	return out, nil
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric
// families. A partial result with a non-fatal parse warning still succeeds.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil (metric not present in the scrape).
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}
