package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/calendar"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
)

type weeklyPlanService struct {
	plans    repository.WeeklyPlanRepo
	uow      db.UnitOfWork
	cache    *cache.Registry
	observer UseCaseObserver
}

func NewWeeklyPlanService(plans repository.WeeklyPlanRepo, uow db.UnitOfWork, registry *cache.Registry, observers ...UseCaseObserver) WeeklyPlanService {
	return &weeklyPlanService{
		plans:    plans,
		uow:      uow,
		cache:    registry,
		observer: useCaseObserverOrNoop(observers),
	}
}

// resolveWeek returns the calendar week for (isoYear, isoWeek), rejecting
// week numbers the year does not have.
func resolveWeek(isoYear, isoWeek int) (calendar.Week, error) {
	if isoWeek < 1 || isoWeek > 53 {
		return calendar.Week{}, fmt.Errorf("%w: week %d is out of range", domain.ErrValidation, isoWeek)
	}
	w := calendar.WeekOf(isoYear, isoWeek)
	if w.ISOYear != isoYear || w.Number != isoWeek {
		return calendar.Week{}, fmt.Errorf("%w: %d has no ISO week %d", domain.ErrValidation, isoYear, isoWeek)
	}
	return w, nil
}

func planKey(userID string, isoYear, isoWeek int) string {
	return cache.Key(cache.WeeklyPlansTag(userID), strconv.Itoa(isoYear)+"-W"+strconv.Itoa(isoWeek))
}

func (s *weeklyPlanService) Get(ctx context.Context, userID string, isoYear, isoWeek int) (*domain.WeeklyPlan, error) {
	if _, err := resolveWeek(isoYear, isoWeek); err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, "get weekly plan", planKey(userID, isoYear, isoWeek), []string{cache.WeeklyPlansTag(userID)},
		func(ctx context.Context) (*domain.WeeklyPlan, error) {
			return s.plans.GetByWeek(ctx, userID, isoYear, isoWeek)
		})
}

// Save replaces the user's plan for the week in one transaction.
func (s *weeklyPlanService) Save(ctx context.Context, userID string, in app.PlanInput) (plan *domain.WeeklyPlan, err error) {
	defer observe(ctx, s.observer, "save-weekly-plan", time.Now(), map[string]any{
		"user_id": userID, "iso_year": in.ISOYear, "iso_week": in.ISOWeek,
	}, &err)

	week, err := resolveWeek(in.ISOYear, in.ISOWeek)
	if err != nil {
		return nil, err
	}

	ts := now()
	plan = &domain.WeeklyPlan{
		ID:        uuid.New().String(),
		UserID:    userID,
		ISOYear:   week.ISOYear,
		ISOWeek:   week.Number,
		StartDate: week.Start,
		EndDate:   week.End,
		Entries:   make([]domain.WeeklyPlanEntry, 0, len(in.Entries)),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, e := range in.Entries {
		plan.Entries = append(plan.Entries, domain.WeeklyPlanEntry{
			ID:        uuid.New().String(),
			MissionID: e.MissionID,
			Hours:     e.Hours,
			Content:   e.Content,
		})
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		missions := repository.NewSQLiteMissionRepo(tx)
		for _, e := range plan.Entries {
			if _, err := missions.GetByID(ctx, e.MissionID); err != nil {
				return err
			}
		}
		if err := repository.NewSQLiteWeeklyPlanRepo(tx).Save(ctx, plan); err != nil {
			return err
		}
		db.AfterCommit(ctx, func(ctx context.Context) { s.cache.InvalidateWeeklyPlan(ctx, userID) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *weeklyPlanService) ListByUser(ctx context.Context, userID string) ([]*domain.WeeklyPlan, error) {
	return cached(ctx, s.cache, "list weekly plans", cache.Key(cache.WeeklyPlansTag(userID), "all"), []string{cache.WeeklyPlansTag(userID)},
		func(ctx context.Context) ([]*domain.WeeklyPlan, error) {
			return s.plans.ListByUser(ctx, userID)
		})
}

func (s *weeklyPlanService) Delete(ctx context.Context, userID string, isoYear, isoWeek int) error {
	plan, err := s.plans.GetByWeek(ctx, userID, isoYear, isoWeek)
	if err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, plan.ID); err != nil {
		return err
	}
	s.cache.InvalidateWeeklyPlan(ctx, userID)
	return nil
}

// Calendar lists the selectable weeks of now's JST year grouped by month.
func (s *weeklyPlanService) Calendar(now time.Time) app.CalendarView {
	return app.CalendarView{
		Today:  jst.DateOf(now),
		Months: calendar.Months(now),
	}
}
