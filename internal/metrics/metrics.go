package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	habitLogsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_logs_recorded_total",
			Help: "Habit logs written, by status",
		},
		[]string{"status"},
	)

	habitReconcile = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_reconcile_total",
			Help: "Schedule and progress updates after a log, by outcome",
		},
		[]string{"outcome"},
	)

	habitTargetsAchieved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_targets_achieved_total",
			Help: "Targets that were reached by a recorded log",
		},
	)

	dbSlowQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_queries_total",
			Help: "Queries slower than the configured threshold",
		},
		[]string{"statement"},
	)

	dbQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	idempotencyDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idempotency_duplicates_total",
			Help: "Requests rejected because their Idempotency-Key was already used",
		},
	)
)

// Reconcile outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeNoop    = "noop"
	OutcomeWarning = "warning"
	OutcomeFailed  = "failed"
)

func RecordHabitLog(status string) {
	habitLogsRecorded.WithLabelValues(status).Inc()
}

func RecordReconcile(outcome string) {
	habitReconcile.WithLabelValues(outcome).Inc()
}

func RecordTargetAchieved() {
	habitTargetsAchieved.Inc()
}

func RecordSlowQuery(statement string) {
	dbSlowQueries.WithLabelValues(statement).Inc()
}

func RecordQueryDuration(seconds float64) {
	dbQueryDuration.Observe(seconds)
}

func RecordIdempotencyDuplicate() {
	idempotencyDuplicates.Inc()
}
