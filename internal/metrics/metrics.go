package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps/assistant"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/community"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
)

const namespace = "empowher"

// Recorder exposes store activity as Prometheus metrics. It learns about
// activity only through store subscriptions.
type Recorder struct {
	Registry *prometheus.Registry

	operations      *prometheus.CounterVec
	assistantIntent *prometheus.CounterVec
	activeSOS       prometheus.Gauge
	activeSessions  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "State transitions applied, by store and operation.",
		}, []string{"store", "op"}),
		assistantIntent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_replies_total",
			Help:      "Scripted assistant replies, by matched intent.",
		}, []string{"intent"}),
		activeSOS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sos_active",
			Help:      "Sessions with an active SOS.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Live client sessions.",
		}),
	}
	r.Registry.MustRegister(
		r.operations,
		r.assistantIntent,
		r.activeSOS,
		r.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveSOS subscribes to an SOS store. The returned func unsubscribes and
// releases the store's contribution to the active gauge.
func (r *Recorder) ObserveSOS(s *sos.Store) func() {
	var (
		mu      sync.Mutex
		lastSeq uint64
	)
	active := s.State().Status.IsActive
	if active {
		r.activeSOS.Inc()
	}
	unsub := s.Subscribe(func(c sos.Change) {
		r.operations.WithLabelValues("sos", string(c.Op)).Inc()
		mu.Lock()
		defer mu.Unlock()
		// A snapshot older than one already applied is dropped.
		if c.Seq <= lastSeq {
			return
		}
		lastSeq = c.Seq
		switch {
		case c.State.Status.IsActive && !active:
			r.activeSOS.Inc()
		case !c.State.Status.IsActive && active:
			r.activeSOS.Dec()
		}
		active = c.State.Status.IsActive
	})
	return func() {
		unsub()
		mu.Lock()
		defer mu.Unlock()
		if active {
			r.activeSOS.Dec()
			active = false
		}
	}
}

func (r *Recorder) ObserveCommunity(s *community.Store) func() {
	return s.Subscribe(func(c community.Change) {
		r.operations.WithLabelValues("community", string(c.Op)).Inc()
	})
}

func (r *Recorder) ObserveAssistant(s *assistant.Store) func() {
	return s.Subscribe(func(c assistant.Change) {
		r.operations.WithLabelValues("assistant", string(c.Op)).Inc()
		if c.Intent != "" {
			r.assistantIntent.WithLabelValues(c.Intent).Inc()
		}
	})
}

func (r *Recorder) SessionOpened() { r.activeSessions.Inc() }
func (r *Recorder) SessionClosed() { r.activeSessions.Dec() }
