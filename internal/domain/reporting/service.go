package reporting

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"aurum/pkg/logger"
)

// ServiceConfig holds report service tuning.
type ServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultPageSize: 20,
		MaxPageSize:     200,
	}
}

// Service generates reports: scorecards for every registered type plus the
// grid listing for the requested type, all under one shared predicate.
type Service struct {
	registry *Registry
	exec     Executor
	cfg      ServiceConfig

	// now is the single time source; taken once per request so every
	// compiled query sees the same snapshot.
	now func() time.Time
}

// NewService creates a new reports service.
func NewService(registry *Registry, exec Executor, cfg ServiceConfig) *Service {
	return &Service{
		registry: registry,
		exec:     exec,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate runs one report request: validates the filter, resolves the date
// window once, fans out the per-type scorecard aggregates and the grid
// queries concurrently, and assembles the response.
//
// A failed or empty scorecard aggregate degrades to zero totals for that
// type; a grid failure or context cancellation fails the whole request.
func (s *Service) Generate(ctx context.Context, filter FilterSpec, page *PageRequest) (*Report, error) {
	desc, err := s.registry.Lookup(filter.Type)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	page = s.normalizePage(page)

	window := ResolveDateRange(filter.Date, s.now())
	builder := NewBuilder(filter, window)

	all := s.registry.All()
	scorecards := make([]Scorecard, len(all))

	var rows []Row
	var pagination *Pagination

	g, gctx := errgroup.WithContext(ctx)

	for i, d := range all {
		g.Go(func() error {
			sc, err := s.computeScorecard(gctx, builder, d)
			if err != nil {
				return err
			}
			scorecards[i] = sc
			return nil
		})
	}

	g.Go(func() error {
		pred, err := builder.Build(desc)
		if err != nil {
			return err
		}
		grid, err := CompileGrid(desc, pred, page)
		if err != nil {
			return err
		}

		gg, ggctx := errgroup.WithContext(gctx)
		gg.Go(func() error {
			var err error
			rows, err = s.exec.Select(ggctx, grid.List)
			return err
		})
		if page != nil {
			gg.Go(func() error {
				var total int64
				if err := s.exec.Get(ggctx, grid.Count, &total); err != nil && !errors.Is(err, ErrNoRow) {
					return err
				}
				pagination = NewPagination(*page, total)
				return nil
			})
		}
		return gg.Wait()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byType := make(map[ReportType]Scorecard, len(all))
	for i, d := range all {
		byType[d.Type] = scorecards[i]
	}

	if rows == nil {
		rows = []Row{}
	}
	return &Report{
		Scorecards: byType,
		Rows:       rows,
		Pagination: pagination,
	}, nil
}

// Rows compiles and runs the unpaged grid for the requested type (export
// path: no scorecards, no pagination).
func (s *Service) Rows(ctx context.Context, filter FilterSpec) ([]Row, Descriptor, error) {
	desc, err := s.registry.Lookup(filter.Type)
	if err != nil {
		return nil, Descriptor{}, err
	}
	if err := filter.Validate(); err != nil {
		return nil, Descriptor{}, err
	}

	window := ResolveDateRange(filter.Date, s.now())
	pred, err := NewBuilder(filter, window).Build(desc)
	if err != nil {
		return nil, Descriptor{}, err
	}
	grid, err := CompileGrid(desc, pred, nil)
	if err != nil {
		return nil, Descriptor{}, err
	}

	rows, err := s.exec.Select(ctx, grid.List)
	if err != nil {
		return nil, Descriptor{}, err
	}
	return rows, desc, nil
}

// computeScorecard runs one descriptor's aggregate. Compilation errors are
// programming errors and abort the request; executor errors degrade to zero
// totals so one slow table cannot corrupt the rest of the response, unless
// the request itself was cancelled.
func (s *Service) computeScorecard(ctx context.Context, builder *Builder, d Descriptor) (Scorecard, error) {
	pred, err := builder.Build(d)
	if err != nil {
		return Scorecard{}, err
	}
	q, err := CompileScorecard(d, pred)
	if err != nil {
		return Scorecard{}, err
	}

	var sc Scorecard
	if err := s.exec.Get(ctx, q, &sc); err != nil {
		if errors.Is(err, ErrNoRow) {
			return Scorecard{}, nil
		}
		if ctx.Err() != nil {
			return Scorecard{}, ctx.Err()
		}
		logger.Warn(ctx, "scorecard aggregate failed, defaulting to zero totals",
			"report_type", d.Type,
			"error", err,
		)
		return Scorecard{}, nil
	}
	return sc, nil
}

// normalizePage clamps the caller-supplied window to service limits.
// A nil page stays nil: the caller gets every matching row.
func (s *Service) normalizePage(page *PageRequest) *PageRequest {
	if page == nil {
		return nil
	}
	p := *page
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = s.cfg.DefaultPageSize
	}
	if p.PageSize > s.cfg.MaxPageSize {
		p.PageSize = s.cfg.MaxPageSize
	}
	return &p
}
