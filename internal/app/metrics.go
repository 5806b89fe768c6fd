package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "quotekeeper"

// Sync run results.
const (
	SyncResultChanged   = "changed"
	SyncResultUnchanged = "unchanged"
	SyncResultFailed    = "failed"
	SyncResultSkipped   = "skipped"
)

// Metrics holds the Prometheus collectors of the quote services.
// A nil *Metrics records nothing.
type Metrics struct {
	syncRuns    *prometheus.CounterVec
	syncChanges *prometheus.CounterVec
	pushes      *prometheus.CounterVec
	imports     *prometheus.CounterVec
	storeSize   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sync_runs_total",
			Help:      "Remote sync runs by result.",
		}, []string{"trigger", "result"}),
		syncChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sync_quotes_total",
			Help:      "Quotes added, updated or removed by remote sync.",
		}, []string{"change"}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "push_total",
			Help:      "Quotes pushed to the remote server by result.",
		}, []string{"result"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "import_total",
			Help:      "Import attempts by result.",
		}, []string{"result"}),
		storeSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "store_quotes",
			Help:      "Number of quotes in the store.",
		}),
	}

	var err error
	if m.syncRuns, err = register(reg, m.syncRuns); err != nil {
		return nil, err
	}
	if m.syncChanges, err = register(reg, m.syncChanges); err != nil {
		return nil, err
	}
	if m.pushes, err = register(reg, m.pushes); err != nil {
		return nil, err
	}
	if m.imports, err = register(reg, m.imports); err != nil {
		return nil, err
	}
	if m.storeSize, err = register(reg, m.storeSize); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}

func (m *Metrics) syncRun(trigger, result string) {
	if m == nil {
		return
	}

	m.syncRuns.WithLabelValues(trigger, result).Inc()
}

func (m *Metrics) syncChanged(added, updated, removed int) {
	if m == nil {
		return
	}

	m.syncChanges.WithLabelValues("added").Add(float64(added))
	m.syncChanges.WithLabelValues("updated").Add(float64(updated))
	m.syncChanges.WithLabelValues("removed").Add(float64(removed))
}

func (m *Metrics) push(ok bool) {
	if m == nil {
		return
	}

	result := "ok"
	if !ok {
		result = "failed"
	}

	m.pushes.WithLabelValues(result).Inc()
}

func (m *Metrics) imported(ok bool) {
	if m == nil {
		return
	}

	result := "ok"
	if !ok {
		result = "failed"
	}

	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) setStoreSize(n int) {
	if m == nil {
		return
	}

	m.storeSize.Set(float64(n))
}
