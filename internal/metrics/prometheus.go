package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	LoginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_logins_success_total",
		Help: "Total number of successful Taiga logins.",
	})
	LoginFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_logins_failure_total",
		Help: "Total number of failed Taiga logins.",
	})
	LockoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_login_lockouts_total",
		Help: "Total number of login lockouts applied.",
	})
	ActiveSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_active_sessions_gauge",
		Help: "Current number of active bridge sessions.",
	})
	SessionsReapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_sessions_reaped_total",
		Help: "Total number of expired sessions removed by the background reaper.",
	})
)

// Register registers the bridge metrics with the given registry.
// It should be called once at application startup.
func Register(reg prometheus.Registerer) {
	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register custom metrics")
		return
	}
	for _, c := range []prometheus.Collector{
		LoginSuccessTotal,
		LoginFailureTotal,
		LockoutsTotal,
		ActiveSessionsGauge,
		SessionsReapedTotal,
	} {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register metric")
		}
	}
	log.Info().Msg("Custom Prometheus metrics registered.")
}
