package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
)

// DefaultPerPage is the listing page size when neither the query nor the
// configuration sets one.
const DefaultPerPage = 20

const opListReports = "list reports"

type reportService struct {
	reports  repository.ReportRepo
	stats    repository.ReportStatsRepo
	uow      db.UnitOfWork
	cache    *cache.Registry
	timeout  time.Duration
	perPage  int
	observer UseCaseObserver
}

func NewReportService(
	reports repository.ReportRepo,
	stats repository.ReportStatsRepo,
	uow db.UnitOfWork,
	registry *cache.Registry,
	storeTimeout time.Duration,
	perPage int,
	observers ...UseCaseObserver,
) ReportService {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &reportService{
		reports:  reports,
		stats:    stats,
		uow:      uow,
		cache:    registry,
		timeout:  orDefault(storeTimeout),
		perPage:  perPage,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) Create(ctx context.Context, userID string, in app.ReportInput) (rep *domain.DailyReport, err error) {
	fields := map[string]any{"user_id": userID, "date": in.Date}
	defer observe(ctx, s.observer, "create-report", time.Now(), fields, &err)

	rep, err = buildReport(userID, in)
	if err != nil {
		return nil, err
	}
	rep.ID = uuid.New().String()

	err = s.withinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		if err := checkMissions(ctx, tx, rep.Entries); err != nil {
			return err
		}
		if err := repository.NewSQLiteReportRepo(tx).Create(ctx, rep); err != nil {
			return err
		}
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.cache.InvalidateReport(ctx, cache.ReportChange{
				ReportID: rep.ID,
				UserID:   rep.UserID,
				Dates:    []time.Time{rep.ReportDate},
			})
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["report_id"] = rep.ID
	return rep, nil
}

func (s *reportService) GetByID(ctx context.Context, id string) (*domain.DailyReport, error) {
	return cached(ctx, s.cache, "get report", cache.Key(cache.ReportTag(id), id), []string{cache.ReportTag(id)},
		func(ctx context.Context) (*domain.DailyReport, error) {
			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			return s.reports.GetByID(ctx, id)
		})
}

// Update replaces the report's content. The last committed write wins; there
// is no version check against concurrent edits.
func (s *reportService) Update(ctx context.Context, userID, id string, in app.ReportInput) (rep *domain.DailyReport, err error) {
	fields := map[string]any{"user_id": userID, "report_id": id}
	defer observe(ctx, s.observer, "update-report", time.Now(), fields, &err)

	rep, err = buildReport(userID, in)
	if err != nil {
		return nil, err
	}

	err = s.withinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txReports := repository.NewSQLiteReportRepo(tx)
		existing, err := txReports.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !existing.OwnedBy(userID) {
			return fmt.Errorf("updating report %s: %w", id, ErrNotOwner)
		}
		if err := checkMissions(ctx, tx, rep.Entries); err != nil {
			return err
		}
		rep.ID = existing.ID
		rep.CreatedAt = existing.CreatedAt
		if err := txReports.Update(ctx, rep); err != nil {
			return err
		}
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.cache.InvalidateReport(ctx, cache.ReportChange{
				ReportID: rep.ID,
				UserID:   rep.UserID,
				Dates:    []time.Time{existing.ReportDate, rep.ReportDate},
			})
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *reportService) Delete(ctx context.Context, userID, id string) (err error) {
	defer observe(ctx, s.observer, "delete-report", time.Now(), map[string]any{"user_id": userID, "report_id": id}, &err)

	return s.withinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txReports := repository.NewSQLiteReportRepo(tx)
		existing, err := txReports.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !existing.OwnedBy(userID) {
			return fmt.Errorf("deleting report %s: %w", id, ErrNotOwner)
		}
		if err := txReports.Delete(ctx, id); err != nil {
			return err
		}
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.cache.InvalidateReport(ctx, cache.ReportChange{
				ReportID: existing.ID,
				UserID:   existing.UserID,
				Dates:    []time.Time{existing.ReportDate},
			})
		})
		return nil
	})
}

type reportListKey struct {
	Date    string `json:"date,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// ListReports pages through the reports of one local day, one user's
// reports, or one user's reports on one day.
func (s *reportService) ListReports(ctx context.Context, q app.ReportListQuery) (page *app.ReportPage, err error) {
	defer observe(ctx, s.observer, "list-reports", time.Now(), map[string]any{"date": q.Date, "user_id": q.UserID}, &err)

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = s.perPage
	}
	pageIdx := max(q.Page, 0)

	f := repository.ReportFilter{UserID: q.UserID}
	var tags []string
	if q.Date != "" {
		if f.From, err = jst.Convert(q.Date, jst.Start); err != nil {
			return nil, err
		}
		if f.To, err = jst.Convert(q.Date, jst.End); err != nil {
			return nil, err
		}
		tags = append(tags, cache.DailyReportsTag(q.Date))
	}
	if q.UserID != "" {
		tags = append(tags, cache.MyReportsTag(q.UserID))
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: listing reports needs a date or a user", domain.ErrValidation)
	}

	key := cache.Key(tags[0], reportListKey{Date: q.Date, UserID: q.UserID, Page: pageIdx, PerPage: perPage})
	return cached(ctx, s.cache, opListReports, key, tags, func(ctx context.Context) (*app.ReportPage, error) {
		total, err := storeCall(ctx, s.timeout, opListReports, func(ctx context.Context) (int, error) {
			return s.stats.CountReports(ctx, f)
		})
		if err != nil {
			return nil, err
		}
		reports, err := storeCall(ctx, s.timeout, opListReports, func(ctx context.Context) ([]*domain.DailyReport, error) {
			return s.reports.List(ctx, f, perPage, pageIdx*perPage)
		})
		if err != nil {
			return nil, err
		}

		items := make([]app.ReportView, 0, len(reports))
		for _, r := range reports {
			items = append(items, app.NewReportView(r))
		}
		return &app.ReportPage{
			Items:    items,
			Total:    total,
			PageInfo: app.NewPageInfo(pageIdx, perPage, total),
		}, nil
	})
}

func (s *reportService) withinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.uow.WithinTx(ctx, fn)
}

// buildReport validates owner input and converts it into a report. The date
// is stored as the JST start of that day.
func buildReport(userID string, in app.ReportInput) (*domain.DailyReport, error) {
	date, err := jst.Convert(in.Date, jst.Start)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	rep := &domain.DailyReport{
		UserID:     userID,
		ReportDate: date,
		Remote:     in.Remote,
		Impression: in.Impression,
		Entries:    make([]domain.WorkEntry, 0, len(in.Entries)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, e := range in.Entries {
		rep.Entries = append(rep.Entries, domain.WorkEntry{
			ID:        uuid.New().String(),
			MissionID: e.MissionID,
			Hours:     e.Hours,
			Content:   e.Content,
			Position:  i,
		})
	}
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	return rep, nil
}

// checkMissions rejects entries whose mission is unknown or whose project is
// archived.
func checkMissions(ctx context.Context, tx db.DBTX, entries []domain.WorkEntry) error {
	missions := repository.NewSQLiteMissionRepo(tx)
	projects := repository.NewSQLiteProjectRepo(tx)
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.MissionID] {
			continue
		}
		seen[e.MissionID] = true

		m, err := missions.GetByID(ctx, e.MissionID)
		if err != nil {
			return err
		}
		p, err := projects.GetByID(ctx, m.ProjectID)
		if err != nil {
			return err
		}
		if p.IsArchived() {
			return fmt.Errorf("%w: project %q is archived", domain.ErrValidation, p.Name)
		}
	}
	return nil
}
