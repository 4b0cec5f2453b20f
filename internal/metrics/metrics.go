package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Ledger transactions committed, by type",
		},
		[]string{"type"},
	)
	TransactionsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_transactions_rejected_total",
			Help: "Ledger operations rejected before commit",
		},
	)
	PayoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payouts_total",
			Help: "Payout state transitions, by resulting status",
		},
		[]string{"status"}, // PENDING|COMPLETED|FAILED
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(TransactionsTotal)
	prometheus.MustRegister(TransactionsRejected)
	prometheus.MustRegister(PayoutsTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
