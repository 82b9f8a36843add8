// Package metrics counts SBI traffic with Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/sbi"
)

// Collector implements sbi.Observer.
type Collector struct {
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	reads    *prometheus.CounterVec
	retries  prometheus.Counter
}

var _ sbi.Observer = (*Collector)(nil)

func New() *Collector {
	return &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbi",
			Name:      "calls_total",
			Help:      "Firmware calls by extension and function.",
		}, []string{"ext", "fid"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbi",
			Name:      "call_failures_total",
			Help:      "Firmware calls that returned a non-zero status.",
		}, []string{"ext", "code"}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbi",
			Name:      "time_reads_total",
			Help:      "Time counter reads by mechanism.",
		}, []string{"path"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbi",
			Name:      "time_read_retries_total",
			Help:      "Split counter samples discarded after a high-half rollover.",
		}),
	}
}

// Register adds the collectors to r.
func (c *Collector) Register(r prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.calls, c.failures, c.reads, c.retries} {
		if err := r.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) ObserveCall(call *ecall.Call, r ecall.Ret) {
	ext := extid.Name(call.Ext)
	c.calls.WithLabelValues(ext, strconv.FormatUint(uint64(call.Fid), 10)).Inc()
	if r.Error != 0 {
		c.failures.WithLabelValues(ext, strconv.FormatInt(r.Status(), 10)).Inc()
	}
}

func (c *Collector) ObserveTime(path sbi.TimePath, retries int) {
	c.reads.WithLabelValues(path.String()).Inc()
	c.retries.Add(float64(retries))
}
