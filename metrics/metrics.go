// Package metrics exposes Prometheus metrics for the layout loop and the
// gesture surface.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the viewer metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Steps        prometheus.Counter
	StepDuration prometheus.Histogram
	Alpha        prometheus.Gauge
	Nodes        prometheus.Gauge
	Edges        prometheus.Gauge
	GraphLoads   prometheus.Counter
	Gestures     *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "graphwork_simulation_steps_total",
		Help: "Total number of force simulation steps.",
	}), "graphwork_simulation_steps_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "graphwork_simulation_step_duration_seconds",
		Help:    "Force simulation step latency in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "graphwork_simulation_step_duration_seconds")
	if err != nil {
		return nil, err
	}
	alpha, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graphwork_simulation_alpha",
		Help: "Current simulation temperature.",
	}), "graphwork_simulation_alpha")
	if err != nil {
		return nil, err
	}
	nodes, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graphwork_graph_nodes",
		Help: "Number of nodes in the displayed graph.",
	}), "graphwork_graph_nodes")
	if err != nil {
		return nil, err
	}
	edges, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graphwork_graph_edges",
		Help: "Number of edges in the displayed graph.",
	}), "graphwork_graph_edges")
	if err != nil {
		return nil, err
	}
	loads, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "graphwork_graph_loads_total",
		Help: "Total number of graph replacements applied.",
	}), "graphwork_graph_loads_total")
	if err != nil {
		return nil, err
	}
	gestures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "graphwork_gestures_total",
		Help: "Total number of gestures, labeled by kind and whether they changed state.",
	}, []string{"kind", "applied"}), "graphwork_gestures_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Steps:        steps,
		StepDuration: duration,
		Alpha:        alpha,
		Nodes:        nodes,
		Edges:        edges,
		GraphLoads:   loads,
		Gestures:     gestures,
	}, nil
}

// ObserveStep records one simulation step.
func (c *Collector) ObserveStep(d time.Duration, alpha float64) {
	if c == nil {
		return
	}
	c.Steps.Inc()
	c.StepDuration.Observe(d.Seconds())
	c.Alpha.Set(alpha)
}

// GraphLoaded records a graph replacement.
func (c *Collector) GraphLoaded(nodes, edges int) {
	if c == nil {
		return
	}
	c.GraphLoads.Inc()
	c.Nodes.Set(float64(nodes))
	c.Edges.Set(float64(edges))
}

// Gesture records a gesture of the given kind.
func (c *Collector) Gesture(kind string, applied bool) {
	if c == nil {
		return
	}
	c.Gestures.WithLabelValues(kind, fmt.Sprint(applied)).Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
