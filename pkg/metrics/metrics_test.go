package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carved4/go-sbicall/pkg/ecall/ecalltest"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/sbi"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

type rollover struct {
	high []uint32
}

func (r *rollover) ReadHigh() uint32 {
	v := r.high[0]
	r.high = r.high[1:]
	return v
}

func (r *rollover) ReadLow() uint32 { return 0 }

func TestCollector(t *testing.T) {
	col := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, col.Register(reg))

	fw := ecalltest.New().
		Handle(extid.IPI, 0, ecalltest.Const(ecalltest.Value(0))).
		Handle(extid.HSM, 0, ecalltest.Const(ecalltest.Status(-7)))

	cfg := sbi.DefaultConfig()
	cfg.Width = timeval.Narrow
	c, err := sbi.New(cfg,
		sbi.WithTrapper(fw),
		sbi.WithObserver(col),
		sbi.WithSplitCounter(&rollover{high: []uint32{1, 2, 2, 2}}))
	require.NoError(t, err)

	_, err = c.SendIPI(1, 0)
	require.NoError(t, err)
	_, err = c.BootSecondary(1, 0x80200000, 0)
	assert.Error(t, err)
	c.GetTime()

	assert.Equal(t, 1.0, testutil.ToFloat64(col.calls.WithLabelValues("sPI", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.calls.WithLabelValues("HSM", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.failures.WithLabelValues("HSM", "-7")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.reads.WithLabelValues("split-counter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.retries))
}
