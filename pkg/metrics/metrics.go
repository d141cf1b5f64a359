package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for PayStation submissions.
const (
	OutcomeApproved  = "approved"
	OutcomeDeclined  = "declined"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed_response"
	OutcomeFailed    = "failed"
)

// CodeOther is the code label for anything but a numeric code of up to three digits.
const CodeOther = "other"

const maxCodeDigits = 3

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paystation",
			Name:      "submissions_total",
			Help:      "PayStation submissions by outcome",
		},
		[]string{"outcome"},
	)

	// code is the PayStation result code or CodeOther
	ResultCodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paystation",
			Name:      "result_codes_total",
			Help:      "PayStation result codes returned by the gateway",
		},
		[]string{"code"},
	)

	SubmissionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paystation",
			Name:      "submission_duration_seconds",
			Help:      "Round trip of a PayStation submission",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 2, 3, 5, 8, 13, 21},
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(SubmissionsTotal, ResultCodesTotal, SubmissionDuration)
}

func ObserveSubmission(outcome, code string, seconds float64) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
	SubmissionDuration.WithLabelValues(outcome).Observe(seconds)
	if code != "" {
		ResultCodesTotal.WithLabelValues(codeLabel(code)).Inc()
	}
}

func codeLabel(code string) string {
	if len(code) > maxCodeDigits {
		return CodeOther
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return CodeOther
		}
	}
	return code
}
