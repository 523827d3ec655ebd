// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransactionsCreated counts successfully persisted transactions.
	TransactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moneybalancer",
		Name:      "transactions_created_total",
		Help:      "Number of transactions persisted with their debts.",
	})

	// TransactionsDeleted counts deleted transactions.
	TransactionsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moneybalancer",
		Name:      "transactions_deleted_total",
		Help:      "Number of transactions deleted together with their debts.",
	})

	// SplitDebtors observes how many debt rows each transaction carries.
	SplitDebtors = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "moneybalancer",
		Name:      "split_debtors",
		Help:      "Number of debtors per persisted transaction.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
	})
)

// Handler returns the HTTP handler serving the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
