package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the vouch workflow.
type Metrics struct {
	VouchesAccepted prometheus.Counter
	VouchesRejected *prometheus.CounterVec
	VouchesRemoved  prometheus.Counter
	Promotions      prometheus.Counter
	PromotionFails  prometheus.Counter
}

// New creates and registers all vouch metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		VouchesAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchbot_vouches_accepted_total",
			Help: "Total number of vouches accepted and stored",
		}),
		VouchesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouchbot_vouches_rejected_total",
			Help: "Total number of vouch commands rejected, by reason",
		}, []string{"reason"}),
		VouchesRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchbot_vouches_removed_total",
			Help: "Total number of vouches retracted",
		}),
		Promotions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchbot_promotions_total",
			Help: "Total number of successful role grants",
		}),
		PromotionFails: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchbot_promotion_failures_total",
			Help: "Total number of role grant attempts that failed",
		}),
	}
}

func (m *Metrics) IncrementAccepted() {
	if m != nil {
		m.VouchesAccepted.Inc()
	}
}

func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.VouchesRejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncrementRemoved() {
	if m != nil {
		m.VouchesRemoved.Inc()
	}
}

func (m *Metrics) IncrementPromotions() {
	if m != nil {
		m.Promotions.Inc()
	}
}

func (m *Metrics) IncrementPromotionFails() {
	if m != nil {
		m.PromotionFails.Inc()
	}
}
