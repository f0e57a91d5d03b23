// Package metrics exports engine counters to Prometheus.
//
// Each Prometheus value owns its registry so tests and multiple servers in
// one process never collide on the default registerer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/umpire-engine/league"
)

const namespace = "umpire_engine"

// Prometheus implements league.Recorder.
type Prometheus struct {
	Registry *prometheus.Registry

	rejections *prometheus.CounterVec
	writes     *prometheus.CounterVec
	recomputed prometheus.Counter
	unresolved prometheus.Counter
}

var _ league.Recorder = (*Prometheus)(nil)

func New() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		Registry: reg,
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_rejections_total",
			Help:      "Assignment writes refused by the validator, by reason.",
		}, []string{"reason"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_writes_total",
			Help:      "Committed assignment writes, by operation.",
		}, []string{"op"}),
		recomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "amounts_recomputed_total",
			Help:      "Assignments whose amount or pay rate changed during a recompute.",
		}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_unresolved_total",
			Help:      "Assignments priced with no applicable pay rate.",
		}),
	}
	reg.MustRegister(
		p.rejections, p.writes, p.recomputed, p.unresolved,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// Pre-create every reason so dashboards see zeros, not gaps.
	for _, r := range []league.Reason{
		league.ReasonGameFull, league.ReasonIllegalPosition,
		league.ReasonPositionFilled, league.ReasonDoubleBooked,
	} {
		p.rejections.WithLabelValues(string(r))
	}
	return p
}

func (p *Prometheus) AssignmentRejected(reason league.Reason) {
	p.rejections.WithLabelValues(string(reason)).Inc()
}

func (p *Prometheus) AssignmentWritten(op string) {
	p.writes.WithLabelValues(op).Inc()
}

func (p *Prometheus) AmountsRecomputed(n int) {
	if n > 0 {
		p.recomputed.Add(float64(n))
	}
}

func (p *Prometheus) RateUnresolved() {
	p.unresolved.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry})
}
