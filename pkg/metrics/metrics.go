package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitebackend", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitebackend", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ContactSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "sitebackend", Name: "contact_submissions_total", Help: "Number of accepted contact form submissions."},
	)
	RouteOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitebackend", Name: "contact_route_outcomes_total", Help: "Contact routing outcomes by route type and result."},
		[]string{"type", "result"},
	)
	ContentPublishes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "sitebackend", Name: "content_publishes_total", Help: "Number of draft-to-published content promotions."},
	)
	BackupsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "sitebackend", Name: "backups_created_total", Help: "Number of backup archives written."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ContactSubmissions)
	reg.MustRegister(RouteOutcomes)
	reg.MustRegister(ContentPublishes)
	reg.MustRegister(BackupsCreated)
}
