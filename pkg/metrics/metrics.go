package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "msgboard", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "msgboard", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	MessagesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "msgboard", Name: "messages_created_total", Help: "Number of messages persisted."},
	)
	MessagesListed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "msgboard", Name: "message_list_requests_total", Help: "Number of successful full-collection reads."},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "msgboard", Name: "store_errors_total", Help: "Number of failed datastore operations by operation."},
		[]string{"op"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(MessagesCreated)
	reg.MustRegister(MessagesListed)
	reg.MustRegister(StoreErrors)
}
