package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters and histograms for the quote/trade/settlement lifecycle, exposed on
// /metrics via the default registry.
var (
	QuotesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lp_quotes_created_total",
		Help: "Quotes created, partitioned by currency pair.",
	}, []string{"pair"})

	TradesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lp_trades_created_total",
		Help: "Trades created, partitioned by direction.",
	}, []string{"direction"})

	TradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lp_trades_executed_total",
		Help: "Trades that reached Executed, partitioned by direction.",
	}, []string{"direction"})

	TransferFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lp_transfer_failures_total",
		Help: "Broadcast or mint failures at the chain boundary.",
	})

	TradeExecutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lp_trade_execution_duration_seconds",
		Help:    "Wall time of the trade-and-execute operation.",
		Buckets: prometheus.DefBuckets,
	})

	SettlementBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lp_settlement_batches_total",
		Help: "Settlement batches opened over executed buy trades.",
	})

	DebtsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lp_debts_settled_total",
		Help: "Debts confirmed as paid.",
	})
)
