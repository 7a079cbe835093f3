package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
)

// DefaultTimeout is the default timeout for remote write requests.
const DefaultTimeout = 30 * time.Second

// PushConfig configures a PushRegistry.
type PushConfig struct {
	// URL is the base URL of the remote write endpoint (e.g., "http://localhost:8428").
	URL string
	// Prefix is prepended to every metric name, followed by an underscore.
	Prefix string
	// Job is the job label for all metrics.
	Job string
	// Instance is the instance label for all metrics.
	Instance string
	// Timeout is the HTTP client timeout. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// PushRegistry implements Registry for short-lived processes. Values are kept
// in memory and sent together by Push.
type PushRegistry struct {
	url        string
	httpClient *http.Client
	prefix     string
	job        string
	instance   string

	mu     sync.Mutex
	series map[string]*series
}

type series struct {
	name   string
	labels map[string]string
	value  float64
}

// NewPushRegistry creates a PushRegistry writing to cfg.URL.
func NewPushRegistry(cfg PushConfig) *PushRegistry {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &PushRegistry{
		url:        strings.TrimRight(cfg.URL, "/") + "/api/v1/write",
		httpClient: &http.Client{Timeout: timeout},
		prefix:     cfg.Prefix,
		job:        cfg.Job,
		instance:   cfg.Instance,
		series:     make(map[string]*series),
	}
}

func (r *PushRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	return &pushMetric{registry: r, name: opts.Name}, nil
}

func (r *PushRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error) {
	return &pushCounterVec{registry: r, name: opts.Name}, nil
}

// update applies fn to the stored value of the series, creating it at zero.
func (r *PushRegistry) update(name string, labels map[string]string, fn func(float64) float64) {
	key := seriesKey(name, labels)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[key]
	if !ok {
		s = &series{name: name, labels: labels}
		r.series[key] = s
	}
	s.value = fn(s.value)
}

// Push sends every recorded series in a single remote write request. Nothing
// is sent when no metric has been touched.
func (r *PushRegistry) Push(ctx context.Context) error {
	timeseries := r.snapshot(time.Now())
	if len(timeseries) == 0 {
		return nil
	}

	data, err := proto.Marshal(&prompb.WriteRequest{Timeseries: timeseries})
	if err != nil {
		return fmt.Errorf("marshaling write request: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// snapshot converts the recorded series to remote write format, sorted by key.
func (r *PushRegistry) snapshot(now time.Time) []prompb.TimeSeries {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.series))
	for k := range r.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]prompb.TimeSeries, 0, len(keys))
	for _, k := range keys {
		s := r.series[k]
		out = append(out, prompb.TimeSeries{
			Labels:  r.promLabels(s.name, s.labels),
			Samples: []prompb.Sample{{Value: s.value, Timestamp: now.UnixMilli()}},
		})
	}
	return out
}

func (r *PushRegistry) promLabels(name string, labels map[string]string) []prompb.Label {
	out := make([]prompb.Label, 0, len(labels)+3)

	metricName := name
	if r.prefix != "" {
		metricName = r.prefix + "_" + name
	}
	out = append(out, prompb.Label{Name: "__name__", Value: metricName})
	if r.job != "" {
		out = append(out, prompb.Label{Name: "job", Value: r.job})
	}
	if r.instance != "" {
		out = append(out, prompb.Label{Name: "instance", Value: r.instance})
	}

	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		out = append(out, prompb.Label{Name: k, Value: labels[k]})
	}
	return out
}

// seriesKey identifies a series independently of map iteration order.
func seriesKey(name string, labels map[string]string) string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range names {
		sb.WriteString(",")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(labels[k])
	}
	return sb.String()
}

// pushMetric is both a Gauge and a Counter.
type pushMetric struct {
	registry *PushRegistry
	name     string
	labels   map[string]string
}

func (m *pushMetric) Set(v float64) {
	m.registry.update(m.name, m.labels, func(float64) float64 { return v })
}

func (m *pushMetric) Inc() {
	m.Add(1)
}

func (m *pushMetric) Add(v float64) {
	if v < 0 {
		panic("counter cannot decrease in value")
	}
	m.registry.update(m.name, m.labels, func(cur float64) float64 { return cur + v })
}

type pushCounterVec struct {
	registry *PushRegistry
	name     string
}

func (v *pushCounterVec) With(labels prometheus.Labels) Counter {
	return &pushMetric{registry: v.registry, name: v.name, labels: labels}
}
