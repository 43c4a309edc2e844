package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/couchcryptid/flight-risk-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// ErrNotReady is returned by CheckReadiness until Warmup has succeeded.
var ErrNotReady = errors.New("risk model has not passed warm-up")

// Assessor scores a reading. domain.Engine and the cache decorator satisfy it.
type Assessor interface {
	Assess(reading domain.Reading) domain.Assessment
}

// Renderer turns an assessment into named chart figures.
type Renderer interface {
	Render(a domain.Assessment) (domain.Visualizations, error)
}

// Pipeline runs assess, recommend, and render for each reading.
type Pipeline struct {
	assessor    Assessor
	renderer    Renderer
	registry    *domain.Registry
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	concurrency int
}

// New creates a Pipeline. Pass a nil renderer to omit visualizations.
// registry is the model the assessor evaluates and is checked by Warmup.
func New(a Assessor, r Renderer, registry *domain.Registry, logger *slog.Logger, metrics *observability.Metrics, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pipeline{
		assessor:    a,
		renderer:    r,
		registry:    registry,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// warmupReading is a complete reading at the medium peak of most factors.
var warmupReading = domain.FlightData{
	Speed:        550,
	Acceleration: 0,
	Temperature:  15,
	Humidity:     60,
	WindSpeed:    10,
	Visibility:   10,
}.Reading()

// Warmup validates the risk model and runs one unobserved assessment through
// the pipeline. The service reports ready only after Warmup succeeds.
func (p *Pipeline) Warmup(ctx context.Context) error {
	if err := p.registry.Validate(); err != nil {
		return fmt.Errorf("validate risk model: %w", err)
	}
	report, err := p.process(ctx, warmupReading, false)
	if err != nil {
		return fmt.Errorf("warm-up assessment: %w", err)
	}
	p.ready.Store(true)
	p.metrics.ServiceReady.Set(1)
	p.logger.Info("risk model ready",
		"factors", len(p.registry.Factors()),
		"warmup_score", report.Assessment.Score,
		"warmup_level", report.Assessment.Level,
	)
	return nil
}

// CheckReadiness returns nil once Warmup has succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return ErrNotReady
	}
	return nil
}

// Registry returns the risk model served by the pipeline.
func (p *Pipeline) Registry() *domain.Registry { return p.registry }

// Process assesses one reading and builds its report.
func (p *Pipeline) Process(ctx context.Context, reading domain.Reading) (domain.Report, error) {
	return p.process(ctx, reading, true)
}

// process runs one reading through the pipeline. Unobserved runs leave the
// assessment metrics untouched.
func (p *Pipeline) process(ctx context.Context, reading domain.Reading, observed bool) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		if observed {
			p.metrics.AssessmentErrors.Inc()
		}
		return domain.Report{}, err
	}
	start := time.Now()

	assessment := p.assessor.Assess(reading)
	report := domain.NewReport(assessment)

	if p.renderer != nil {
		vis, err := p.renderer.Render(assessment)
		if err != nil {
			if observed {
				p.metrics.AssessmentErrors.Inc()
			}
			return domain.Report{}, fmt.Errorf("render assessment: %w", err)
		}
		report.Visualizations = vis
	}

	if observed {
		p.observe(assessment, time.Since(start))
	}
	p.logger.Debug("assessment complete",
		"score", assessment.Score,
		"level", assessment.Level,
		"factors", len(assessment.Factors()),
		"rules", len(report.Rules),
	)
	return report, nil
}

// ProcessBatch assesses readings concurrently, bounded by the configured
// concurrency. Reports keep input order. The first failure cancels the rest.
func (p *Pipeline) ProcessBatch(ctx context.Context, readings []domain.Reading) ([]domain.Report, error) {
	p.metrics.BatchSize.Observe(float64(len(readings)))
	reports := make([]domain.Report, len(readings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, r := range readings {
		g.Go(func() error {
			report, err := p.Process(gctx, r)
			if err != nil {
				return fmt.Errorf("reading %d: %w", i, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Warn("batch assessment failed", "error", err, "batch_size", len(readings))
		return nil, err
	}
	return reports, nil
}

func (p *Pipeline) observe(a domain.Assessment, elapsed time.Duration) {
	p.metrics.AssessmentsTotal.WithLabelValues(string(a.Level)).Inc()
	p.metrics.AssessmentScore.Observe(float64(a.Score))
	p.metrics.AssessmentDuration.Observe(elapsed.Seconds())
	for _, f := range a.Factors() {
		p.metrics.FactorRisk.WithLabelValues(string(f.Name)).Observe(f.Risk)
	}
}
