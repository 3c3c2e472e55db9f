package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	expensesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitpot_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		},
		[]string{"split_type"},
	)

	expensesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitpot_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		},
	)

	settlementsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitpot_settlements_recorded_total",
			Help: "Total number of settlements recorded",
		},
	)

	balanceComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "splitpot_balance_compute_duration_seconds",
			Help:    "Duration of balance sheet aggregation, cache misses only",
			Buckets: prometheus.DefBuckets,
		},
	)

	balanceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitpot_balance_cache_requests_total",
			Help: "Balance sheet cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	plannedTransfers = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "splitpot_planned_transfers_per_plan",
			Help:    "Number of transfers emitted per settlement plan",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
)
