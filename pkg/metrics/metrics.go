package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dao", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dao", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	ProposalsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dao", Name: "proposals_created_total", Help: "Number of governance proposals created."},
	)
	VotesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dao", Name: "votes_recorded_total", Help: "Number of votes recorded, by vote value."},
		[]string{"vote"},
	)
	ProposalsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dao", Name: "proposals_closed_total", Help: "Number of close operations applied to proposals."},
	)
	ProfilesUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dao", Name: "profiles_upserted_total", Help: "Number of profile upserts."},
	)
	OrdersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dao", Name: "orders_created_total", Help: "Number of marketplace orders recorded."},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dao", Name: "http_requests_total", Help: "HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "dao", Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ProposalsCreated)
	reg.MustRegister(VotesRecorded)
	reg.MustRegister(ProposalsClosed)
	reg.MustRegister(ProfilesUpserted)
	reg.MustRegister(OrdersCreated)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
}
