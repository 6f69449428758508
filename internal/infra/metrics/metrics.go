package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refbot_updates_total",
		Help: "Inbound Telegram updates handled.",
	})

	GateDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refbot_gate_denials_total",
		Help: "Admission gate denials by reason.",
	}, []string{"reason"})

	OracleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refbot_oracle_failures_total",
		Help: "Failed channel-membership lookups.",
	})

	ReferralsAttributed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refbot_referrals_attributed_total",
		Help: "Referral edges recorded.",
	})
)
