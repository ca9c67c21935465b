package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/modelkeep/core"
	mktest "github.com/hupe1980/modelkeep/internal/testutil"
	"github.com/hupe1980/modelkeep/saver"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := NewRecorder(func(o *Options) {
		o.Registerer = prometheus.NewRegistry()
	})
	require.NoError(t, err)
	return r
}

func TestRecorder_CountsEvents(t *testing.T) {
	r := newTestRecorder(t)

	r.UploadSucceeded(core.UploadEvent{Stream: "model", Size: 128, Duration: 50 * time.Millisecond})
	r.UploadSucceeded(core.UploadEvent{Stream: "model", Size: 64, Duration: 10 * time.Millisecond})
	r.UploadSucceeded(core.UploadEvent{Stream: "params", Size: 32})
	r.UploadFailed(core.FailureEvent{Stream: "model", Err: errors.New("down")})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.uploads.WithLabelValues("model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("params")))
	assert.Equal(t, 192.0, testutil.ToFloat64(r.bytes.WithLabelValues("model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("model")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.failures.WithLabelValues("params")))
}

func TestRecorder_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewRecorder(func(o *Options) { o.Registerer = reg })
	require.NoError(t, err)

	_, err = NewRecorder(func(o *Options) { o.Registerer = reg })
	assert.Error(t, err)
}

// End to end: a saver wired with the recorder advances the counters.
func TestRecorder_ObservesSaver(t *testing.T) {
	r := newTestRecorder(t)

	up := mktest.NewScriptedUploader().Succeed().Fail(errors.New("down"))
	s, err := saver.New(up, "model-{}.pkl", func(o *saver.Options) {
		o.Stream = "model"
		o.Observer = r
	})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), mktest.StringProducer("abcd")))
	require.Error(t, s.Save(context.Background(), mktest.StringProducer("efgh")))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("model")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.bytes.WithLabelValues("model")))
}
