package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
	"github.com/couchcryptid/weather-data-etl/internal/observability"
	"github.com/dominikbraun/graph"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// Fetcher retrieves the raw current-weather payload for a city.
type Fetcher interface {
	FetchCurrent(ctx context.Context, city string) ([]byte, error)
}

// HandoffStore persists the files passed between tasks.
type HandoffStore interface {
	WriteRaw(data []byte) error
	ReadRaw() ([]byte, error)
	WriteCSV(rec domain.WeatherRecord) error
	ReadCSV() (string, error)
}

// Sink receives the loaded record in addition to the log output.
type Sink interface {
	Name() string
	Load(ctx context.Context, obs domain.Observation) error
}

// Pipeline runs the extract, transform, and load tasks.
type Pipeline struct {
	city    string
	fetcher Fetcher
	store   HandoffStore
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
	graph   graph.Graph[Task, Task]
	ready   atomic.Bool
}

// New creates a Pipeline for city. sinks may be empty; the CSV is always logged.
func New(city string, f Fetcher, store HandoffStore, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) (*Pipeline, error) {
	g, err := taskGraph()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		city:    city,
		fetcher: f,
		store:   store,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		graph:   g,
	}, nil
}

// CheckReadiness returns nil once a run has completed every task of the DAG.
// Runs of a single task never make the pipeline ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes the requested tasks in dependency order under a fresh run ID.
// The first failure stops the run; tasks downstream of it are skipped.
func (p *Pipeline) Run(ctx context.Context, tasks ...Task) error {
	order, err := executionOrder(p.graph, tasks)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("run started", "city", p.city, "tasks", joinTasks(order))

	var (
		failed  error
		skipped = make(map[Task]bool)
	)
	for i, t := range order {
		if skipped[t] {
			logger.Warn("task skipped, upstream failed", "task", t)
			p.metrics.TaskRuns.WithLabelValues(string(t), "skipped").Inc()
			continue
		}
		if err := ctx.Err(); err != nil {
			for _, rest := range order[i:] {
				if skipped[rest] {
					continue
				}
				logger.Warn("task skipped, run cancelled", "task", rest)
				p.metrics.TaskRuns.WithLabelValues(string(rest), "skipped").Inc()
			}
			return pkgerrors.Wrap(err, "run cancelled")
		}

		if err := p.runTask(ctx, logger, runID, t); err != nil {
			if failed == nil {
				failed = pkgerrors.Wrapf(err, "task %s", t)
			}
			for d := range downstream(p.graph, t) {
				skipped[d] = true
			}
		}
	}

	if failed != nil {
		logger.Error("run failed", "error", failed)
		return failed
	}

	if len(order) == len(allTasks) {
		p.ready.Store(true)
		p.metrics.LastSuccess.SetToCurrentTime()
	}
	logger.Info("run finished")
	return nil
}

func (p *Pipeline) runTask(ctx context.Context, logger *slog.Logger, runID string, t Task) error {
	logger = logger.With("task", t)
	start := time.Now()

	var err error
	switch t {
	case TaskExtract:
		err = p.extract(ctx, logger)
	case TaskTransform:
		err = p.transform(logger)
	case TaskLoad:
		err = p.load(ctx, logger, runID)
	default:
		err = ErrUnknownTask
	}

	p.metrics.TaskDuration.WithLabelValues(string(t)).Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.TaskRuns.WithLabelValues(string(t), "error").Inc()
		logger.Error("task failed", "error", err, "duration", time.Since(start))
		return err
	}
	p.metrics.TaskRuns.WithLabelValues(string(t), "success").Inc()
	return nil
}

// Extract fetches the current weather and stores the raw response.
func (p *Pipeline) Extract(ctx context.Context) error {
	return p.Run(ctx, TaskExtract)
}

// Transform maps the stored raw response onto the CSV record.
func (p *Pipeline) Transform(ctx context.Context) error {
	return p.Run(ctx, TaskTransform)
}

// Load logs the CSV and hands the record to every configured sink.
func (p *Pipeline) Load(ctx context.Context) error {
	return p.Run(ctx, TaskLoad)
}

func (p *Pipeline) extract(ctx context.Context, logger *slog.Logger) error {
	logger.Info("fetching weather data", "city", p.city)

	body, err := p.fetcher.FetchCurrent(ctx, p.city)
	if err != nil {
		return err
	}
	if err := p.store.WriteRaw(body); err != nil {
		return err
	}

	logger.Info("weather data extracted", "bytes", len(body))
	return nil
}

func (p *Pipeline) transform(logger *slog.Logger) error {
	logger.Info("transforming weather data")

	body, err := p.store.ReadRaw()
	if err != nil {
		return err
	}
	rec, err := domain.TransformRaw(body)
	if err != nil {
		return err
	}
	if err := p.store.WriteCSV(rec); err != nil {
		return err
	}

	logger.Info("weather data transformed", "city", rec.City, "weather", rec.Weather)
	return nil
}

func (p *Pipeline) load(ctx context.Context, logger *slog.Logger, runID string) error {
	logger.Info("loading transformed weather data")

	text, err := p.store.ReadCSV()
	if err != nil {
		return err
	}
	logger.Info(text)
	p.metrics.RecordsLoaded.WithLabelValues("log").Inc()

	if len(p.sinks) == 0 {
		return nil
	}

	rec, err := domain.ParseCSV(strings.NewReader(text))
	if err != nil {
		return err
	}
	obs := domain.NewObservation(runID, rec)

	for _, s := range p.sinks {
		if err := s.Load(ctx, obs); err != nil {
			return pkgerrors.Wrapf(err, "sink %s", s.Name())
		}
		p.metrics.RecordsLoaded.WithLabelValues(s.Name()).Inc()
		logger.Info("record delivered", "sink", s.Name())
	}
	return nil
}

func joinTasks(tasks []Task) string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}
