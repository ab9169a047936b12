package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/metrics"
)

// Unscoped tags.
const (
	ProjectSummaryTag = "project-summary"
	ReportStatsTag    = "report-stats"
	ProjectsTag       = "projects"
	MissionsTag       = "missions"
	CategoriesTag     = "categories"
	UsersTag          = "users"
)

func ReportTag(reportID string) string        { return "report:" + reportID }
func DailyReportsTag(localDate string) string { return "daily-reports:" + localDate }
func MyReportsTag(userID string) string       { return "my-reports:" + userID }
func WeeklyPlansTag(userID string) string     { return "weekly-plans:" + userID }

func ProjectSummaryUserTag(userID string) string {
	return ProjectSummaryTag + ":" + userID
}

// Key derives a cache key from the primary tag of an operation and a
// fingerprint of its query.
func Key(tag string, query any) string {
	data, err := json.Marshal(query)
	if err != nil {
		// Unencodable queries are not cached under a shared key.
		data = []byte(err.Error())
	}
	sum := sha256.Sum256(data)
	return tag + "#" + hex.EncodeToString(sum[:12])
}

// Recorder receives cache lookup and invalidation outcomes.
type Recorder interface {
	CacheLookup(tag, result string)
	CacheInvalidation(ok bool)
}

// Registry reads through a Port and invalidates the tags a mutation touches.
// A nil *Registry disables caching: Fetch calls the loader directly and the
// invalidation helpers do nothing.
type Registry struct {
	port     Port
	ttl      time.Duration
	logger   *slog.Logger
	recorder Recorder
	gens     generations
}

type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

func NewRegistry(port Port, ttl time.Duration, opts ...Option) *Registry {
	r := &Registry{
		port:   port,
		ttl:    ttl,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookupError reports that the cache could not be read.
type LookupError struct {
	Key string
	Err error
}

func (e *LookupError) Error() string {
	return "cache lookup " + e.Key + ": " + e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Fetch returns the cached value under key or calls load and stores its
// result under tags. A result is not stored when one of its tags was
// invalidated while load ran. tags[0] labels the lookup in metrics. A failing cache
// read is returned as *LookupError; a failing write is logged and the loaded
// value is still returned.
func Fetch[T any](ctx context.Context, r *Registry, key string, tags []string, load func(context.Context) (T, error)) (T, error) {
	if r == nil || r.port == nil {
		return load(ctx)
	}

	label := "untagged"
	if len(tags) > 0 {
		label = tags[0]
	}

	data, ok, err := r.port.Get(ctx, key)
	if err != nil {
		r.record(label, metrics.ResultError)
		var zero T
		return zero, &LookupError{Key: key, Err: err}
	}
	if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			r.record(label, metrics.ResultHit)
			return v, nil
		}
		r.logger.Warn("discarding undecodable cache entry", "key", key)
	}
	r.record(label, metrics.ResultMiss)

	snap := r.gens.begin(tags)
	defer r.gens.finish(tags)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("cache encode failed", "key", key, "error", err)
		return v, nil
	}

	r.gens.order.RLock()
	defer r.gens.order.RUnlock()
	if !r.gens.current(tags, snap) {
		r.logger.Debug("skipping cache write after concurrent invalidation", "key", key)
		return v, nil
	}
	if err := r.port.Set(ctx, key, encoded, r.ttl, tags...); err != nil {
		r.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func (r *Registry) record(tag, result string) {
	if r.recorder != nil {
		r.recorder.CacheLookup(tag, result)
	}
}

// ReportChange describes a committed report mutation. Dates lists every
// report date the report had before and after the write, so a moved report
// clears both days.
type ReportChange struct {
	ReportID string
	UserID   string
	Dates    []time.Time
}

// ReportTags returns every tag whose cached value can change when the report
// is created, updated or deleted.
func ReportTags(c ReportChange) []string {
	tags := []string{
		ReportTag(c.ReportID),
		MyReportsTag(c.UserID),
		ProjectSummaryUserTag(c.UserID),
		ProjectSummaryTag,
		ReportStatsTag,
	}
	for _, d := range c.Dates {
		tags = append(tags, DailyReportsTag(jst.DateOf(d)))
	}
	return dedupe(tags)
}

// InvalidateReport clears the tags of a committed report mutation.
func (r *Registry) InvalidateReport(ctx context.Context, c ReportChange) {
	r.invalidate(ctx, ReportTags(c)...)
}

// CatalogTags returns the tags affected by a change to one catalog kind
// (ProjectsTag, MissionsTag or CategoriesTag). Summaries carry project names
// and the distinct-project count follows missions, so both are included.
func CatalogTags(kind string) []string {
	return []string{kind, ProjectSummaryTag, ReportStatsTag}
}

func (r *Registry) InvalidateCatalog(ctx context.Context, kind string) {
	r.invalidate(ctx, CatalogTags(kind)...)
}

// InvalidateUsers clears user listings and every result that depends on
// resolving user names.
func (r *Registry) InvalidateUsers(ctx context.Context) {
	r.invalidate(ctx, UsersTag, ProjectSummaryTag, ReportStatsTag)
}

func (r *Registry) InvalidateWeeklyPlan(ctx context.Context, userID string) {
	r.invalidate(ctx, WeeklyPlansTag(userID))
}

// invalidate never fails the caller: the write it follows has already
// committed, and a stale tag expires on its own.
func (r *Registry) invalidate(ctx context.Context, tags ...string) {
	if r == nil || r.port == nil {
		return
	}
	r.gens.bump(tags)
	// The request may already be gone; the committed write still needs clearing.
	err := r.port.Invalidate(context.WithoutCancel(ctx), tags...)
	if r.recorder != nil {
		r.recorder.CacheInvalidation(err == nil)
	}
	if err != nil {
		r.logger.Error("cache invalidation failed", "tags", tags, "error", err)
	}
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IsLookupError reports whether err came from a failed cache read.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
