package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	MatchingRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alerts_matching_run_duration_seconds",
			Help:    "Duration of each saved search matching run in seconds.",
			Buckets: []float64{1, 10, 60, 300, 1800},
		},
	)
	DeliveryRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alerts_delivery_run_duration_seconds",
			Help:    "Duration of each notification delivery run in seconds.",
			Buckets: []float64{0.1, 1, 10, 60, 300},
		},
	)
	ProcessedSearchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_saved_searches_processed_total",
			Help: "Total number of saved searches processed by matching runs.",
		},
	)
	MintedNotificationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_notifications_minted_total",
			Help: "Total number of match notifications created.",
		},
	)
	SentEmailsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_emails_sent_total",
			Help: "Total number of notification emails sent.",
		},
	)
	FailedEmailsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_emails_failed_total",
			Help: "Total number of notification emails that failed to send.",
		},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(MatchingRunDuration)
	prometheus.MustRegister(DeliveryRunDuration)
	prometheus.MustRegister(ProcessedSearchesCounter)
	prometheus.MustRegister(MintedNotificationsCounter)
	prometheus.MustRegister(SentEmailsCounter)
	prometheus.MustRegister(FailedEmailsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
