package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type evaluatorMetrics struct {
	txApplied    prometheus.Counter
	txRejected   prometheus.Counter
	opsApplied   *prometheus.CounterVec
	maintenance  prometheus.Counter
	witnessPay   prometheus.Counter
	headHeight   prometheus.Gauge
	blockTxCount prometheus.Histogram
}

var (
	evaluatorMetricsOnce sync.Once
	evaluatorRegistry    *evaluatorMetrics
)

// EvaluatorMetrics returns the lazily-initialised metrics registry covering
// transaction application, maintenance passes, and witness pay.
func EvaluatorMetrics() *evaluatorMetrics {
	evaluatorMetricsOnce.Do(func() {
		evaluatorRegistry = &evaluatorMetrics{
			txApplied: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "transactions_applied_total",
				Help:      "Total transactions applied to chain state.",
			}),
			txRejected: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "transactions_rejected_total",
				Help:      "Total transactions rejected and rolled back.",
			}),
			opsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "operations_applied_total",
				Help:      "Total operations applied, segmented by operation kind.",
			}, []string{"op"}),
			maintenance: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "maintenance_passes_total",
				Help:      "Total maintenance passes performed.",
			}),
			witnessPay: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "witness_pay_core_total",
				Help:      "Cumulative core paid to witnesses from the budget.",
			}),
			headHeight: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "head_block_height",
				Help:      "Height of the last applied block.",
			}),
			blockTxCount: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "halo",
				Subsystem: "chain",
				Name:      "block_transactions",
				Help:      "Distribution of transaction counts per applied block.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			}),
		}
		prometheus.MustRegister(
			evaluatorRegistry.txApplied,
			evaluatorRegistry.txRejected,
			evaluatorRegistry.opsApplied,
			evaluatorRegistry.maintenance,
			evaluatorRegistry.witnessPay,
			evaluatorRegistry.headHeight,
			evaluatorRegistry.blockTxCount,
		)
	})
	return evaluatorRegistry
}

// TransactionApplied records a committed transaction.
func (m *evaluatorMetrics) TransactionApplied() {
	if m == nil {
		return
	}
	m.txApplied.Inc()
}

// TransactionRejected records a rolled-back transaction.
func (m *evaluatorMetrics) TransactionRejected() {
	if m == nil {
		return
	}
	m.txRejected.Inc()
}

// OperationApplied records one applied operation of the named kind.
func (m *evaluatorMetrics) OperationApplied(op string) {
	if m == nil {
		return
	}
	m.opsApplied.WithLabelValues(op).Inc()
}

// MaintenancePerformed records a completed maintenance pass.
func (m *evaluatorMetrics) MaintenancePerformed() {
	if m == nil {
		return
	}
	m.maintenance.Inc()
}

// WitnessPaid records core paid out of the witness budget.
func (m *evaluatorMetrics) WitnessPaid(amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.witnessPay.Add(float64(amount))
}

// BlockApplied records the new head height and the block's transaction count.
func (m *evaluatorMetrics) BlockApplied(height uint64, txs int) {
	if m == nil {
		return
	}
	m.headHeight.Set(float64(height))
	m.blockTxCount.Observe(float64(txs))
}
