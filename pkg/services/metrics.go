package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExportsTotal counts export runs.
	// Labels: result (success, error)
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chemmd",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Total number of export runs",
		},
		[]string{"result"},
	)

	// ExportErrors counts failed exports by error kind.
	// Labels: kind (parse_error, resolution_error, csv_access_error, not_found, internal_error)
	ExportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chemmd",
			Subsystem: "export",
			Name:      "errors_total",
			Help:      "Total number of failed exports by error kind",
		},
		[]string{"kind"},
	)

	// ExportDuration tracks how long exports take.
	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chemmd",
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Duration of export runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// ExportRows tracks the row count of successful exports.
	ExportRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chemmd",
			Subsystem: "export",
			Name:      "rows",
			Help:      "Number of rows in exported tables",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// QueryAmbiguities counts factor query groups that matched more than one
	// mapping entry. Labels: kind (factor)
	QueryAmbiguities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chemmd",
			Subsystem: "projection",
			Name:      "query_ambiguities_total",
			Help:      "Total number of query groups that matched more than one candidate",
		},
		[]string{"kind"},
	)

	// DatafileReads counts datafiles loaded during exports.
	DatafileReads = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chemmd",
			Subsystem: "datafile",
			Name:      "reads_total",
			Help:      "Total number of datafiles read from disk",
		},
	)
)
