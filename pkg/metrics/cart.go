package metrics

import (
	"strings"

	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const outcomeOK = "ok"

// CartMetrics counts cart operations by outcome and expired carts swept.
type CartMetrics struct {
	operations *prometheus.CounterVec
	expired    prometheus.Counter
}

// NewCartMetrics registers the cart metrics on reg. A nil registerer yields a
// no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by name and outcome.",
	}, []string{"op", "outcome"})
	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_expired_total",
		Help: "Active carts removed by the expiry sweep.",
	})
	reg.MustRegister(operations, expired)
	return &CartMetrics{operations: operations, expired: expired}
}

// ObserveCartOperation counts one call of op; failures are labelled with the
// lower-cased error code.
func (m *CartMetrics) ObserveCartOperation(op string, err error) {
	if m == nil || m.operations == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = strings.ToLower(string(pkgerrors.CodeOf(err)))
	}
	m.operations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

// AddExpiredCarts adds n to the expired cart counter.
func (m *CartMetrics) AddExpiredCarts(n int64) {
	if m == nil || m.expired == nil || n <= 0 {
		return
	}
	m.expired.Add(float64(n))
}
