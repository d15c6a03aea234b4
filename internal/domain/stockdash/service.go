package stockdash

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"aurum/internal/core/apperror"
	"aurum/internal/domain/reporting"
	"aurum/pkg/logger"
)

// Service assembles the stock dashboard: all three summaries plus the
// detailed listing for the requested view, fanned out concurrently.
type Service struct {
	compiler Compiler
	exec     reporting.Executor
	cfg      reporting.ServiceConfig

	now func() time.Time
}

// NewService creates a new stock dashboard service.
func NewService(compiler Compiler, exec reporting.Executor, cfg reporting.ServiceConfig) *Service {
	return &Service{
		compiler: compiler,
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

// Dashboard runs one dashboard request. The three summaries are always
// computed; the listing follows the requested view. A failed summary
// degrades to zero totals, a failed listing fails the request.
func (s *Service) Dashboard(ctx context.Context, filter reporting.FilterSpec, view ViewType, page *reporting.PageRequest) (*Dashboard, error) {
	if !view.Valid() {
		return nil, apperror.NewValidation("unknown dashboard view: " + string(view))
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if view == ViewFastMoving {
		if filter.BranchID == nil {
			return nil, apperror.NewMissingField("branch_id")
		}
		if filter.SubcategoryID == nil {
			return nil, apperror.NewMissingField("subcategory_id")
		}
	}
	page = s.normalizePage(page)

	window := reporting.ResolveDateRange(filter.Date, s.now())
	pred, err := s.compiler.BuildPredicate(filter, window)
	if err != nil {
		return nil, err
	}

	var (
		cards      ScoreCards
		rows       []reporting.Row
		pagination *reporting.Pagination
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, err := s.compiler.InHandSummary(pred)
		if err != nil {
			return err
		}
		return s.summarize(gctx, q, &cards.StockInHand, "stock_in_hand")
	})
	g.Go(func() error {
		q, err := s.compiler.LowStockSummary(pred)
		if err != nil {
			return err
		}
		return s.summarize(gctx, q, &cards.LowStock, "low_stock")
	})
	g.Go(func() error {
		q, err := s.compiler.OutOfStockSummary(filter, window)
		if err != nil {
			return err
		}
		return s.summarize(gctx, q, &cards.OutOfStock, "out_of_stock")
	})

	g.Go(func() error {
		grid, err := s.compileView(filter, window, pred, view, page)
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
				if err := s.exec.Get(ggctx, grid.Count, &total); err != nil && !errors.Is(err, reporting.ErrNoRow) {
					return err
				}
				pagination = reporting.NewPagination(*page, total)
				return nil
			})
		}
		return gg.Wait()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []reporting.Row{}
	}
	return &Dashboard{
		ScoreCards: cards,
		Rows:       rows,
		Pagination: pagination,
	}, nil
}

// compileView dispatches the listing compilation for the selected view.
func (s *Service) compileView(filter reporting.FilterSpec, window *reporting.DateRange, pred reporting.Predicate, view ViewType, page *reporting.PageRequest) (reporting.GridQueries, error) {
	switch view {
	case ViewStockInHand:
		return s.compiler.InHandList(pred, page)
	case ViewLowStock:
		return s.compiler.LowStockList(pred, page)
	case ViewOutOfStock:
		return s.compiler.OutOfStockList(filter, window, page)
	case ViewFastMoving:
		return s.compiler.FastMovingList(pred, page)
	}
	return reporting.GridQueries{}, apperror.NewValidation("unknown dashboard view: " + string(view))
}

// summarize runs one summary query into dest. Executor failures degrade
// to the zero value unless the request itself was cancelled.
func (s *Service) summarize(ctx context.Context, q reporting.Query, dest any, name string) error {
	if err := s.exec.Get(ctx, q, dest); err != nil {
		if errors.Is(err, reporting.ErrNoRow) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn(ctx, "dashboard summary failed, defaulting to zero totals",
			"view", name,
			"error", err,
		)
	}
	return nil
}

func (s *Service) normalizePage(page *reporting.PageRequest) *reporting.PageRequest {
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
