package wallet

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	depositsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "wallet",
		Name:      "deposits_total",
		Help:      "Number of accepted deposits.",
	})
	transfersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "wallet",
		Name:      "transfers_created_total",
		Help:      "Number of proposed transfers.",
	})
	approvalsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "wallet",
		Name:      "approvals_recorded_total",
		Help:      "Number of recorded approvals, including the implicit approval of the proposer.",
	})
	transfersExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "wallet",
		Name:      "transfers_executed_total",
		Help:      "Number of transfers that reached the quorum and were executed.",
	})
)

func init() {
	prometheus.MustRegister(depositsCounter, transfersCreated, approvalsRecorded, transfersExecuted)
}
