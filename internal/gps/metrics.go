package gps

import "github.com/prometheus/client_golang/prometheus"

var (
	sentencesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navmon_sentences_total",
			Help: "Recognized NMEA sentences by type.",
		},
		[]string{"type"},
	)

	linesDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navmon_lines_discarded_total",
		Help: "Feed lines dropped as malformed or unrecognized.",
	})

	fixesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navmon_valid_fixes_total",
		Help: "RMC sentences that carried a valid fix.",
	})

	outdoorStatus = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "navmon_outdoor",
		Help: "1 when the fix-status heuristic reports outdoor.",
	})
)

func init() {
	prometheus.MustRegister(sentencesTotal)
	prometheus.MustRegister(linesDiscarded)
	prometheus.MustRegister(fixesTotal)
	prometheus.MustRegister(outdoorStatus)
}
