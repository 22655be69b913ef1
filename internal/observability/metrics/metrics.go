package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the response pipeline.
type ConversationMetrics struct {
	stageTotal   *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec
	handoffTotal *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dealerai",
			Subsystem: "conversation",
			Name:      "stage_total",
			Help:      "Response strategy attempts by outcome",
		}, []string{"stage", "outcome"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dealerai",
			Subsystem: "conversation",
			Name:      "stage_latency_seconds",
			Help:      "Latency of each response strategy",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		handoffTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dealerai",
			Subsystem: "conversation",
			Name:      "handoff_total",
			Help:      "Human handoff decisions by trigger intent",
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.stageTotal, m.stageLatency, m.handoffTotal)
	return m
}

func (m *ConversationMetrics) ObserveStage(stage, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
	m.stageLatency.WithLabelValues(stage).Observe(seconds)
}

func (m *ConversationMetrics) ObserveHandoff(intent string) {
	if m == nil {
		return
	}
	m.handoffTotal.WithLabelValues(intent).Inc()
}

// SpeechMetrics tracks TTS provider outcomes.
type SpeechMetrics struct {
	synthTotal *prometheus.CounterVec
}

func NewSpeechMetrics(reg prometheus.Registerer) *SpeechMetrics {
	m := &SpeechMetrics{
		synthTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dealerai",
			Subsystem: "speech",
			Name:      "synthesis_total",
			Help:      "TTS attempts by provider and status",
		}, []string{"provider", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.synthTotal)
	return m
}

func (m *SpeechMetrics) ObserveSynthesis(provider, status string) {
	if m == nil {
		return
	}
	m.synthTotal.WithLabelValues(provider, status).Inc()
}
