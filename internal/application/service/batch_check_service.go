package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	"github.com/garyjia/settlement-portal/pkg/utils"
)

// BatchOptions tunes batch checking.
type BatchOptions struct {
	PageSize    int     // applications per page; pages run one after another
	Concurrency int     // checks in flight within a page
	RatePerSec  float64 // model calls per second, 0 for unlimited
}

// BatchCheckInput selects the applications to check.
type BatchCheckInput struct {
	TargetMonth string
	PageSize    int
	// Force re-checks applications already cached in the session.
	Force bool
}

// BatchCheckItem is the outcome for one application.
type BatchCheckItem struct {
	ApplicationID string                `json:"applicationId"`
	Result        *entity.AICheckResult `json:"result,omitempty"`
	Cached        bool                  `json:"cached"`
	Error         string                `json:"error,omitempty"`
}

// BatchCheckResult summarises a batch run.
type BatchCheckResult struct {
	TargetMonth string           `json:"targetMonth"`
	Total       int              `json:"total"`
	Checked     int              `json:"checked"`
	Cached      int              `json:"cached"`
	Failed      int              `json:"failed"`
	Items       []BatchCheckItem `json:"items"`
}

// BatchCheckService checks every application of a month.
type BatchCheckService interface {
	Run(ctx context.Context, sessionID string, in BatchCheckInput) (*BatchCheckResult, error)
}

type batchCheckServiceImpl struct {
	records port.SystemOfRecord
	checks  ReceiptCheckService
	opts    BatchOptions
	now     func() time.Time
	logger  Logger
}

// NewBatchCheckService creates a new BatchCheckService
func NewBatchCheckService(records port.SystemOfRecord, checks ReceiptCheckService, opts BatchOptions, logger Logger) BatchCheckService {
	if logger == nil {
		logger = nopLogger{}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	return &batchCheckServiceImpl{
		records: records,
		checks:  checks,
		opts:    opts,
		now:     time.Now,
		logger:  logger,
	}
}

// Run lists the month's applications and checks those not yet cached in the
// session. Per-application failures are reported in the items; only
// listing failures and cancellation abort the run.
func (s *batchCheckServiceImpl) Run(ctx context.Context, sessionID string, in BatchCheckInput) (*BatchCheckResult, error) {
	month := strings.TrimSpace(in.TargetMonth)
	if month == "" {
		month = utils.CurrentTargetMonth(s.now())
	}
	if err := utils.ValidateMonth(month); err != nil {
		return nil, wrapInvalid(err)
	}

	apps, err := s.records.ListApplications(ctx, month)
	if err != nil {
		return nil, err
	}

	pageSize := in.PageSize
	if pageSize <= 0 || pageSize > s.opts.PageSize {
		pageSize = s.opts.PageSize
	}

	result := &BatchCheckResult{
		TargetMonth: month,
		Total:       len(apps),
		Items:       make([]BatchCheckItem, len(apps)),
	}

	limit := rate.Inf
	if s.opts.RatePerSec > 0 {
		limit = rate.Limit(s.opts.RatePerSec)
	}
	limiter := rate.NewLimiter(limit, 1)

	for start := 0; start < len(apps); start += pageSize {
		end := start + pageSize
		if end > len(apps) {
			end = len(apps)
		}
		if err := s.runPage(ctx, sessionID, apps[start:end], result.Items[start:end], limiter, in.Force); err != nil {
			return nil, err
		}
	}

	for _, item := range result.Items {
		switch {
		case item.Error != "":
			result.Failed++
		case item.Cached:
			result.Cached++
		default:
			result.Checked++
		}
	}

	s.logger.Info("Batch AI check completed",
		"target_month", month,
		"total", result.Total,
		"checked", result.Checked,
		"cached", result.Cached,
		"failed", result.Failed)

	return result, nil
}

func (s *batchCheckServiceImpl) runPage(ctx context.Context, sessionID string, apps []*entity.Application, items []BatchCheckItem, limiter *rate.Limiter, force bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, app := range apps {
		i, app := i, app
		items[i].ApplicationID = app.ApplicationID

		if !force {
			if cached, ok := s.checks.Cached(sessionID, app.ApplicationID); ok {
				items[i].Result = cached
				items[i].Cached = true
				continue
			}
		}
		if strings.TrimSpace(app.ReceiptURL) == "" {
			items[i].Error = "receiptUrl is empty"
			continue
		}

		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			res, err := s.checks.Check(gctx, sessionID, ReceiptCheckInput{
				ApplicationID: app.ApplicationID,
				ReceiptURL:    app.ReceiptURL,
				Tool:          app.Tool,
				Amount:        app.Amount,
				TargetMonth:   app.TargetMonth,
				Purpose:       app.Purpose,
			})
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = res
			return nil
		})
	}

	return g.Wait()
}
