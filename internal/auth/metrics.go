package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindcare_session_tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	tokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindcare_session_token_verifications_total",
			Help: "Session token verifications by result",
		},
		[]string{"result"},
	)
)
