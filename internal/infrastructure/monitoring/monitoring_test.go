package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service/mocks"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/logger"
)

func TestZapLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZapLoggerWithWriter(&config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-1")
	log.WithComponent("test").Info(ctx, "hello", logger.String("applicant_id", "A1"), logger.Int("credit_score", 600))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "A1", line["applicant_id"])
	assert.Equal(t, float64(600), line["credit_score"])
	assert.Contains(t, line, "timestamp")
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZapLoggerWithWriter(&config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	log.Error(context.Background(), "kept", errors.New("boom"))
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestZapLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZapLoggerWithWriter(&config.LogConfig{Level: "loud", Format: "console"}, &buf)
	require.NoError(t, err)

	log.Debug(context.Background(), "dropped")
	log.Info(context.Background(), "kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestMetrics_DecisionAdapter(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	a := NewMetricsAdapter(m)

	a.RecordDecision(models.RiskTierHigh, true, 0.002)
	a.RecordDecision(models.RiskTierHigh, true, 0.003)
	a.RecordRejection(3)
	a.RecordModelUnavailable()
	a.RecordPersistenceFailure("repository")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DecisionsTotal.WithLabelValues("High", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectionsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ValidationErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelUnavailable))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("repository")))
}

func TestMetrics_ModelReloadGauge(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordModelReload(true, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelLoaded))

	m.RecordModelReload(false, errors.New("bad artifact"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ModelLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelReloads.WithLabelValues("failure")))
}

func TestMetrics_HTTPAndCache(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordHTTPRequest("POST", "/credit/score", 200, 10*time.Millisecond)
	m.RecordCacheAccess("redis", true)
	m.RecordCacheAccess("redis", false)
	m.RecordRateLimitHit("ip")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/credit/score", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatsCacheAccess.WithLabelValues("redis", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatsCacheAccess.WithLabelValues("redis", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues("ip")))
}

func TestTracingManager_Disabled(t *testing.T) {
	tm, err := NewTracingManager(&config.TracingConfig{Enabled: false}, logger.NewNoopLogger())
	require.NoError(t, err)

	ctx, span := tm.StartSpan(context.Background(), "op")
	defer span.End()

	assert.Empty(t, tm.GetTraceID(ctx))
	tm.RecordError(ctx, errors.New("ignored"))
	assert.NoError(t, tm.Shutdown(context.Background()))
}

func TestInstrumentedStatsCache(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	inner := new(mocks.MockStatsCache)
	inner.On("GetStats", mock.Anything).Return(models.NewDecisionStats(), true, nil).Once()
	inner.On("GetStats", mock.Anything).Return(nil, false, nil).Once()
	inner.On("GetStats", mock.Anything).Return(nil, false, errors.New("down")).Once()

	c := NewInstrumentedStatsCache(inner, "redis", m)
	for i := 0; i < 3; i++ {
		_, _, _ = c.GetStats(context.Background())
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatsCacheAccess.WithLabelValues("redis", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatsCacheAccess.WithLabelValues("redis", "miss")))
}
