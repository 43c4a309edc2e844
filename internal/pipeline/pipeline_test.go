package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/couchcryptid/flight-risk-service/internal/observability"
	"github.com/couchcryptid/flight-risk-service/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type countingAssessor struct {
	calls atomic.Int64
}

func (c *countingAssessor) Assess(r domain.Reading) domain.Assessment {
	c.calls.Add(1)
	return domain.Assess(r)
}

type mockRenderer struct {
	err error
}

func (m *mockRenderer) Render(a domain.Assessment) (domain.Visualizations, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.Visualizations{"score": json.RawMessage(fmt.Sprintf(`{"value":%d}`, a.Score))}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(r pipeline.Renderer) (*pipeline.Pipeline, *observability.Metrics, *countingAssessor) {
	metrics := observability.NewMetricsForTesting()
	a := &countingAssessor{}
	return pipeline.New(a, r, domain.DefaultRegistry(), discardLogger(), metrics, 4), metrics, a
}

func canonical() domain.Reading {
	return domain.FlightData{Speed: 550, Acceleration: 0, Temperature: 15, Humidity: 60, WindSpeed: 10, Visibility: 10}.Reading()
}

// --- tests ---

func TestProcess_BuildsReport(t *testing.T) {
	at := time.Date(2026, time.October, 1, 8, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })

	p, metrics, _ := newTestPipeline(&mockRenderer{})

	report, err := p.Process(context.Background(), canonical())
	require.NoError(t, err)

	assert.Equal(t, 35, report.Assessment.Score)
	assert.Equal(t, domain.LevelMedium, report.Assessment.Level)
	assert.Len(t, report.Recommendations, 6)
	assert.Equal(t, at, report.AssessedAt)
	assert.JSONEq(t, `{"value":35}`, string(report.Visualizations["score"]))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentsTotal.WithLabelValues("medium")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.AssessmentErrors))
}

func TestProcess_NilRendererOmitsVisualizations(t *testing.T) {
	p, _, _ := newTestPipeline(nil)

	report, err := p.Process(context.Background(), canonical())
	require.NoError(t, err)
	assert.Nil(t, report.Visualizations)
}

func TestProcess_RenderError(t *testing.T) {
	p, metrics, _ := newTestPipeline(&mockRenderer{err: errors.New("boom")})

	_, err := p.Process(context.Background(), canonical())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render assessment")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentErrors))
}

func TestProcess_CancelledContext(t *testing.T) {
	p, _, a := newTestPipeline(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, canonical())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), a.calls.Load())
}

func TestWarmup_MarksReady(t *testing.T) {
	p, metrics, _ := newTestPipeline(nil)

	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotReady)
	require.NoError(t, p.Warmup(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ServiceReady))
}

func TestWarmup_DoesNotCountAsAssessment(t *testing.T) {
	p, metrics, a := newTestPipeline(nil)

	require.NoError(t, p.Warmup(context.Background()))

	assert.Equal(t, int64(1), a.calls.Load())
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.AssessmentsTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.FactorRisk))

	_, err := p.Process(context.Background(), canonical())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentsTotal.WithLabelValues("medium")))
	assert.Equal(t, 6, testutil.CollectAndCount(metrics.FactorRisk))
}

func TestWarmup_InvalidRegistry(t *testing.T) {
	bad := domain.NewRegistry(domain.Entry{
		Model:  domain.FactorModel{Name: domain.Speed, Low: domain.Triangle{A: 0, B: 1, C: 2}, Medium: domain.Triangle{A: 1, B: 2, C: 3}, High: domain.Triangle{A: 2, B: 3, C: 4}},
		Weight: 0.5,
	})
	p := pipeline.New(domain.NewEngine(bad), nil, bad, discardLogger(), observability.NewMetricsForTesting(), 1)

	err := p.Warmup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate risk model")
	assert.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotReady)
}

func TestProcessBatch_KeepsOrder(t *testing.T) {
	p, metrics, a := newTestPipeline(nil)

	readings := []domain.Reading{
		canonical(),
		canonical().Without(domain.Visibility),
		domain.FlightData{Speed: 400, Acceleration: -0.5, Temperature: 0, Humidity: 20, WindSpeed: 5, Visibility: 2}.Reading(),
		domain.FlightData{Speed: 600, Acceleration: 2, Temperature: 35, Humidity: 80, WindSpeed: 35, Visibility: 15}.Reading(),
	}

	reports, err := p.ProcessBatch(context.Background(), readings)
	require.NoError(t, err)

	scores := make([]int, len(reports))
	for i, r := range reports {
		scores[i] = r.Assessment.Score
	}
	if diff := cmp.Diff([]int{35, 31, 20, 80}, scores); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(4), a.calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AssessmentsTotal.WithLabelValues("medium")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentsTotal.WithLabelValues("low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentsTotal.WithLabelValues("high")))
}

func TestProcessBatch_Empty(t *testing.T) {
	p, _, _ := newTestPipeline(nil)

	reports, err := p.ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestProcessBatch_FailureCancelsBatch(t *testing.T) {
	p, _, _ := newTestPipeline(&mockRenderer{err: errors.New("render failed")})

	_, err := p.ProcessBatch(context.Background(), []domain.Reading{canonical(), canonical()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading ")
}
