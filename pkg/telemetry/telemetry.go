package telemetry

import "github.com/prometheus/client_golang/prometheus"

var (
	// auction_runs_total
	//
	// counter that measures the number of auction computations
	//
	// Has the following labels:
	// * symbol - the instrument the auction ran for
	// * outcome - one of "cleared", "no_cross", "rejected"
	AuctionRunsMetricName = "auction_runs_total"

	// auction_compute_duration_seconds
	//
	// histogram of the time spent computing one clearing price
	AuctionComputeDurationMetricName = "auction_compute_duration_seconds"

	// auction_cleared_volume
	//
	// gauge holding the executed volume of the most recent cleared auction
	//
	// Has the following labels:
	// * symbol - the instrument the auction ran for
	AuctionClearedVolumeMetricName = "auction_cleared_volume"

	AuctionRunsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: AuctionRunsMetricName,
			Help: "counter that measures the number of auction computations by outcome",
		},
		[]string{"symbol", "outcome"},
	)

	AuctionComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    AuctionComputeDurationMetricName,
			Help:    "histogram of clearing price computation time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	AuctionClearedVolume = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: AuctionClearedVolumeMetricName,
			Help: "executed volume of the most recent cleared auction",
		},
		[]string{"symbol"},
	)
)

const (
	OutcomeCleared  = "cleared"
	OutcomeNoCross  = "no_cross"
	OutcomeRejected = "rejected"
)

func init() {
	prometheus.MustRegister(AuctionRunsCounter)
	prometheus.MustRegister(AuctionComputeDuration)
	prometheus.MustRegister(AuctionClearedVolume)
}
