package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	base := domain.EventBase{TypeName: "Leader"}
	hooks.OnRebuild(ctx, &domain.RebuildEvent{EventBase: base, Duration: time.Millisecond})
	hooks.OnRebuild(ctx, &domain.RebuildEvent{EventBase: base, Err: errors.New("boom")})
	hooks.OnFlush(ctx, &domain.FlushEvent{EventBase: base, Copied: true})
	hooks.OnGripEdit(ctx, &domain.GripEvent{Kind: "vertex", Committed: true})
	hooks.OnSessionEnd(ctx, &domain.SessionEvent{EventBase: base})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rebuilds.WithLabelValues("Leader", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rebuilds.WithLabelValues("Leader", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flushes.WithLabelValues("Leader", "copy", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GripEdits.WithLabelValues("vertex", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions.WithLabelValues("Leader", "false")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RebuildDuration))
}

func TestLogHooks_MergeWithMetrics(t *testing.T) {
	var buf bytes.Buffer
	m := observability.NewMetrics(nil)
	hooks := observability.LogHooks(logging.NewWriter(&buf, slog.LevelDebug)).Merge(m.Hooks())

	hooks.OnSessionEnd(context.Background(), &domain.SessionEvent{
		EventBase: domain.EventBase{TypeName: "Section", Handle: "2A"},
		Committed: true,
		Steps:     2,
	})

	assert.Contains(t, buf.String(), "session_end")
	assert.Contains(t, buf.String(), "handle=2A")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions.WithLabelValues("Section", "true")))
}
