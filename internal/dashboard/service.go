package dashboard

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

// View names, also used as tab ids and metric labels.
const (
	ViewOverview     = "overview"
	ViewEngagement   = "engagement"
	ViewStudents     = "students"
	ViewDemographics = "demographics"
	ViewFinancials   = "financials"
	ViewContent      = "content"
)

// Call names inside views.
const (
	CallEnrollmentStats      = "enrollmentStats"
	CallCourseStats          = "courseStats"
	CallTrends               = "trends"
	CallCoursePerformance    = "coursePerformance"
	CallMyCourses            = "myCourses"
	CallRevenueBreakdown     = "revenueBreakdown"
	CallWeeklyEngagement     = "weeklyEngagement"
	CallModuleProgress       = "moduleProgress"
	CallDiscussionEngagement = "discussionEngagement"
	CallTopStudents          = "topStudents"
	CallUserProfiles         = "userProfiles"
	CallCourseDetails        = "courseDetails"
	CallDemographics         = "demographics"
	CallFinancials           = "financials"
	CallModules              = "modules"
	CallResources            = "resources"
	CallAssignments          = "assignments"
)

// Recorder receives aggregation telemetry. *observability.Metrics implements it.
type Recorder interface {
	aggregate.Observer
	IncViewDegraded(view string)
	AddJoinMisses(view, source string, n int)
}

type Options struct {
	CallTimeout time.Duration
	// LookupConcurrency bounds per-row lookups such as student grades.
	LookupConcurrency int
}

type Service struct {
	log  *logger.Logger
	up   upstream.Set
	rec  Recorder
	opts Options
}

func NewService(log *logger.Logger, up upstream.Set, rec Recorder, opts Options) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = aggregate.DefaultCallTimeout
	}
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = 8
	}
	return &Service{
		log:  log.With("service", "DashboardService"),
		up:   up,
		rec:  rec,
		opts: opts,
	}
}

// Meta tells the frontend which parts of a view fell back to defaults.
type Meta struct {
	Degraded   bool           `json:"degraded"`
	Failed     []string       `json:"failed"`
	JoinMisses map[string]int `json:"joinMisses,omitempty"`

	Reports []aggregate.Report `json:"-"`
}

func (s *Service) run(ctx context.Context, view string, calls ...aggregate.Call) aggregate.Report {
	return aggregate.Run(ctx, aggregate.Options{
		View:        view,
		CallTimeout: s.opts.CallTimeout,
		Log:         s.log,
		Observer:    s.rec,
	}, calls...)
}

// lookup runs per-row fetches under the same per-call deadline as aggregated calls.
func lookup[K comparable, V any](ctx context.Context, s *Service, source string, keys []K, fn func(ctx context.Context, k K) (V, bool)) *join.Lookup[K, V] {
	return join.FetchEach(ctx, source, s.opts.LookupConcurrency, keys, func(ctx context.Context, k K) (V, bool) {
		ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
		defer cancel()
		return fn(ctx, k)
	})
}

func (s *Service) meta(view string, misses join.Misses, reports ...aggregate.Report) Meta {
	m := Meta{Failed: []string{}, Reports: reports}
	for _, r := range reports {
		m.Failed = append(m.Failed, r.Failed()...)
	}
	m.Degraded = len(m.Failed) > 0
	if misses.Total() > 0 {
		m.JoinMisses = misses
	}
	if s.rec != nil {
		if m.Degraded {
			s.rec.IncViewDegraded(view)
		}
		for source, n := range misses {
			s.rec.AddJoinMisses(view, source, n)
		}
	}
	return m
}

// Probe runs every dashboard view once and returns the per-call reports.
func (s *Service) Probe(ctx context.Context) []aggregate.Report {
	var out []aggregate.Report
	out = append(out, s.Overview(ctx).Meta.Reports...)
	out = append(out, s.Engagement(ctx).Meta.Reports...)
	out = append(out, s.Students(ctx).Meta.Reports...)
	out = append(out, s.Demographics(ctx).Meta.Reports...)
	out = append(out, s.Financials(ctx).Meta.Reports...)
	return out
}
