package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream/upstreamtest"
)

func TestGetDecodesSuccess(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodGet, "/api/courses/instructor/stats", http.StatusOK, map[string]any{
		"activeCourses": map[string]any{"value": 5, "change": 2},
		"averageRating": map[string]any{"value": "4.6", "change": 0.1},
	})
	cc := upstream.NewCourseClient(rt.Client(t, upstream.DomainCourse))

	res := cc.InstructorStats(context.Background())
	require.True(t, res.OK, res.Reason())
	assert.Equal(t, 5.0, res.Value.ActiveCourses.Value.Float())
	assert.Equal(t, 4.6, res.Value.AverageRating.Value.Float())
	assert.NoError(t, res.Err())
}

func TestNon2xxIsFailureAndBodyNotDecoded(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodGet, "/api/analytics/instructor", http.StatusInternalServerError, map[string]any{
		"totalStudents": map[string]any{"value": 99},
	})
	ec := upstream.NewEnrollmentClient(rt.Client(t, upstream.DomainEnrollment))

	res := ec.InstructorAnalytics(context.Background())
	require.False(t, res.OK)
	require.NotNil(t, res.Failure)
	assert.Equal(t, upstream.KindStatus, res.Failure.Kind)
	assert.Equal(t, http.StatusInternalServerError, res.Failure.StatusCode)
	assert.Equal(t, upstream.DomainEnrollment, res.Failure.Domain)
	assert.Equal(t, "status 500", res.Reason())
	assert.Zero(t, res.Value.TotalStudents.Value)
}

func TestUndecodableBodyIsDecodeFailure(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodGet, "/api/courses/my-courses", http.StatusOK, map[string]any{"not": "a list"})
	cc := upstream.NewCourseClient(rt.Client(t, upstream.DomainCourse))

	res := cc.MyCourses(context.Background())
	require.False(t, res.OK)
	assert.Equal(t, upstream.KindDecode, res.Failure.Kind)
	assert.Equal(t, upstream.DomainCourse, res.Failure.Domain)
	assert.Equal(t, http.MethodGet, res.Failure.Method)
	assert.Equal(t, "/api/courses/my-courses", res.Failure.Path)
	assert.Contains(t, res.Err().Error(), "course GET /api/courses/my-courses")
	assert.Nil(t, res.Value)
}

func TestInvalidJSONIsDecodeFailure(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodGet, "/api/courses/my-courses", http.StatusOK, "{oops")
	cc := upstream.NewCourseClient(rt.Client(t, upstream.DomainCourse))

	res := cc.MyCourses(context.Background())
	require.False(t, res.OK)
	assert.Equal(t, upstream.KindDecode, res.Failure.Kind)
}

func TestTimeoutIsCallFailure(t *testing.T) {
	rt := upstreamtest.NewRouter().
		JSON(http.MethodGet, "/api/payments/analytics/instructor/financials", http.StatusOK, map[string]any{}).
		Delay(http.MethodGet, "/api/payments/analytics/instructor/financials", time.Second)
	c, err := upstream.NewWithHTTPClient(upstream.DomainPayment, upstream.Endpoint{
		BaseURL: "http://payment.test",
		Timeout: 20 * time.Millisecond,
	}, &http.Client{Transport: rt}, logger.Nop())
	require.NoError(t, err)

	res := upstream.NewPaymentClient(c).Financials(context.Background())
	require.False(t, res.OK)
	assert.Equal(t, upstream.KindTimeout, res.Failure.Kind)
}

func TestForwardsTokenAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	rt := upstreamtest.NewRouter().Handle(http.MethodPost, "/api/users/bulk", func(r *http.Request, body []byte) (int, any) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		var in struct {
			IDs []string `json:"ids"`
		}
		_ = json.Unmarshal(body, &in)
		out := make([]upstream.UserProfile, 0, len(in.IDs))
		for _, id := range in.IDs {
			out = append(out, upstream.UserProfile{ID: id, Name: "user " + id})
		}
		return http.StatusOK, out
	})
	ic := upstream.NewIdentityClient(rt.Client(t, upstream.DomainIdentity))

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: "u1", Token: "tok"})
	ctx = ctxutil.WithTraceData(ctx, &ctxutil.TraceData{RequestID: "req-1"})
	res := ic.Users(ctx, []string{"a", "b"})

	require.True(t, res.OK, res.Reason())
	assert.Len(t, res.Value, 2)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "req-1", gotReqID)
}

func TestBulkWithNoIDsSkipsCall(t *testing.T) {
	rt := upstreamtest.NewRouter()
	ic := upstream.NewIdentityClient(rt.Client(t, upstream.DomainIdentity))

	res := ic.Users(context.Background(), nil)
	require.True(t, res.OK)
	assert.Empty(t, res.Value)
	assert.Zero(t, rt.Calls(http.MethodPost, "/api/users/bulk"))
}

func TestReorderBodies(t *testing.T) {
	rt := upstreamtest.NewRouter().
		JSON(http.MethodPost, "/api/modules/reorder", http.StatusNoContent, nil).
		JSON(http.MethodPost, "/api/lessons/reorder", http.StatusOK, nil)
	cc := upstream.NewCourseClient(rt.Client(t, upstream.DomainCourse))

	require.True(t, cc.ReorderModules(context.Background(), []string{"m2", "m1"}).OK)
	require.True(t, cc.ReorderLessons(context.Background(), "m1", []string{"l1"}).OK)

	assert.JSONEq(t, `{"ids":["m2","m1"]}`, string(rt.Bodies(http.MethodPost, "/api/modules/reorder")[0]))
	assert.JSONEq(t, `{"moduleId":"m1","ids":["l1"]}`, string(rt.Bodies(http.MethodPost, "/api/lessons/reorder")[0]))
}

func TestResultHelpers(t *testing.T) {
	ok := upstream.Success(3)
	bad := upstream.Fail[int](&upstream.CallFailure{Kind: upstream.KindNetwork})

	assert.Equal(t, 3, ok.Or(7))
	assert.Equal(t, 7, bad.Or(7))
	assert.Equal(t, "network", bad.Reason())
	doubled := upstream.Map(ok, func(v int) int { return v * 2 })
	assert.Equal(t, 6, doubled.Value)
	assert.False(t, upstream.Map(bad, func(v int) int { return v * 2 }).OK)
}

func TestAsFailureClassifies(t *testing.T) {
	assert.Equal(t, upstream.KindTimeout, upstream.AsFailure(context.DeadlineExceeded).Kind)
	assert.Equal(t, upstream.KindCanceled, upstream.AsFailure(context.Canceled).Kind)
	assert.Nil(t, upstream.AsFailure(nil))
}

func TestTransientFailures(t *testing.T) {
	cases := []struct {
		name string
		f    *upstream.CallFailure
		want bool
	}{
		{"timeout", &upstream.CallFailure{Kind: upstream.KindTimeout}, true},
		{"network", &upstream.CallFailure{Kind: upstream.KindNetwork}, true},
		{"503", &upstream.CallFailure{Kind: upstream.KindStatus, StatusCode: 503}, true},
		{"429", &upstream.CallFailure{Kind: upstream.KindStatus, StatusCode: 429}, true},
		{"404", &upstream.CallFailure{Kind: upstream.KindStatus, StatusCode: 404}, false},
		{"decode", &upstream.CallFailure{Kind: upstream.KindDecode}, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.Transient())
		})
	}
	assert.True(t, upstream.IsTransient(fmt.Errorf("persist: %w", &upstream.CallFailure{Kind: upstream.KindStatus, StatusCode: 502})))
	assert.False(t, upstream.IsTransient(errors.New("boom")))
}
