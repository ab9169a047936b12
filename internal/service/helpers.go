package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
)

// DefaultStoreTimeout bounds a store round trip when none is configured.
const DefaultStoreTimeout = 5 * time.Second

// storeCall runs one store read under the store timeout. Any failure,
// including the deadline expiring, is reported as *app.ServiceError.
func storeCall[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, unavailable(op, err)
	}
	return v, nil
}

// unavailable wraps err as a ServiceError unless it already is one.
func unavailable(op string, err error) error {
	var svcErr *app.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return &app.ServiceError{Op: op, Err: err}
}

// cached reads through the registry and turns a failed cache read into a
// ServiceError. Loader errors pass through unchanged.
func cached[T any](ctx context.Context, r *cache.Registry, op, key string, tags []string, load func(context.Context) (T, error)) (T, error) {
	v, err := cache.Fetch(ctx, r, key, tags, load)
	if err != nil && cache.IsLookupError(err) {
		return v, unavailable(op, err)
	}
	return v, err
}

// reportScope turns an AggregationQuery into the store filter shared by the
// aggregators.
type reportScope struct {
	users   repository.UserResolver
	timeout time.Duration
}

// scopeKey is the normalised query an aggregation result is cached under.
type scopeKey struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	UserID    string   `json:"userId,omitempty"`
	UserNames []string `json:"userNames,omitempty"`
	Skip      int      `json:"skip,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

func newScopeKey(q app.AggregationQuery, r jst.Range) scopeKey {
	return scopeKey{
		From:      jst.FormatInstant(r.From),
		To:        jst.FormatInstant(r.To),
		UserID:    q.UserID,
		UserNames: q.NameFragments(),
		Skip:      max(q.Skip, 0),
		Limit:     max(q.Limit, 0),
	}
}

// filter resolves user names, if any, into ids. ok is false when the names
// matched no user; the caller must then return an empty result without
// reading reports.
func (s reportScope) filter(ctx context.Context, op string, q app.AggregationQuery, r jst.Range) (f repository.ReportFilter, ok bool, err error) {
	f = repository.ReportFilter{From: r.From, To: r.To, UserID: q.UserID}
	if !q.HasNameFilter() {
		return f, true, nil
	}
	ids, err := storeCall(ctx, s.timeout, op, func(ctx context.Context) ([]string, error) {
		return s.users.ResolveIDs(ctx, q.NameFragments())
	})
	if err != nil {
		return f, false, err
	}
	if len(ids) == 0 {
		return f, false, nil
	}
	f.UserIDs = ids
	return f, true, nil
}

// averagePerDay is total/days, or 0 when there are no days or the quotient
// is not a finite non-negative number.
func averagePerDay(total float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	avg := total / float64(days)
	if math.IsNaN(avg) || math.IsInf(avg, 0) || avg < 0 {
		return 0
	}
	return avg
}

func orDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultStoreTimeout
	}
	return timeout
}
