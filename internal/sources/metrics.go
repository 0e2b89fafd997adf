package sources

import (
	"github.com/prometheus/client_golang/prometheus"
)

var recordsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fincconv_records_total",
		Help: "Records handled per source and outcome.",
	},
	[]string{"sid", "outcome"},
)

func init() {
	prometheus.MustRegister(recordsTotal)
}

func countRecord(sid string, outcome string) {
	recordsTotal.WithLabelValues(sid, outcome).Inc()
}
