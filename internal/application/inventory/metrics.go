package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contadores del motor de inventario. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	transactions  *prometheus.CounterVec
	linesDepleted prometheus.Counter
	unitsMoved    *prometheus.CounterVec
}

// NewMetrics registra los contadores en reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transactions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wholesale",
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Transacciones procesadas por tipo y resultado.",
		}, []string{"kind", "outcome"}),
		linesDepleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wholesale",
			Subsystem: "ledger",
			Name:      "lines_depleted_total",
			Help:      "Líneas de entrada modificadas por el agotamiento FIFO.",
		}),
		unitsMoved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wholesale",
			Subsystem: "ledger",
			Name:      "units_total",
			Help:      "Unidades registradas por tipo de transacción.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(kind, outcome string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) depleted(n int) {
	if m == nil || n == 0 {
		return
	}
	m.linesDepleted.Add(float64(n))
}

func (m *Metrics) units(kind string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.unitsMoved.WithLabelValues(kind).Add(float64(n))
}
