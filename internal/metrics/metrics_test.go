package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveFetch("ok")
	m.ObserveSignup("signup", "success")
	m.ObserveSignup("signup", "success")
	m.ObserveSignup("unregister", "failed")
	m.SetRenderedCards(9)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.signups.WithLabelValues("signup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.signups.WithLabelValues("unregister", "failed")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.cards))

	n, err := testutil.GatherAndCount(m.registry)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}
