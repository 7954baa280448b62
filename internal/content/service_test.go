package content

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream/upstreamtest"
)

type forgetLog struct{ keys []string }

func (f *forgetLog) Forget(kind reorder.Kind, scopeID string) int {
	f.keys = append(f.keys, string(kind)+":"+scopeID)
	return 1
}

type countingRecorder struct{ ops []string }

func (c *countingRecorder) IncValidationFailure(op string) { c.ops = append(c.ops, op) }

func newTestService(t *testing.T, rt *upstreamtest.Router) (*Service, *forgetLog, *countingRecorder) {
	t.Helper()
	fl := &forgetLog{}
	rec := &countingRecorder{}
	svc := NewService(logger.Nop(), upstream.NewCourseClient(rt.Client(t, upstream.DomainCourse)), fl, rec)
	return svc, fl, rec
}

func TestCreateModuleValidatesBeforeCalling(t *testing.T) {
	rt := upstreamtest.NewRouter()
	svc, _, rec := newTestService(t, rt)

	cases := map[string]upstream.ModuleInput{
		"missing":   {},
		"blank":     {Title: "     "},
		"too short": {Title: "ab"},
		"too long":  {Title: strings.Repeat("x", 121)},
	}
	for name, in := range cases {
		_, err := svc.CreateModule(context.Background(), "c1", in)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), name)
		assert.Contains(t, verr.Fields, "title", name)
	}
	assert.Zero(t, rt.Calls(http.MethodPost, "/api/courses/c1/modules"))
	assert.Len(t, rec.ops, len(cases))
}

func TestValidationMessagesUseJSONNames(t *testing.T) {
	err := Validate(upstream.ModuleInput{Title: "ab", Description: strings.Repeat("d", 2001)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title must be at least 3 characters in length", verr.Fields["title"])
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Error(), "invalid input: ")

	err = Validate(upstream.ModuleInput{Title: "   "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title cannot be blank", verr.Fields["title"])
}

func TestCreateModuleRequiresCourse(t *testing.T) {
	svc, _, _ := newTestService(t, upstreamtest.NewRouter())
	_, err := svc.CreateModule(context.Background(), " ", upstream.ModuleInput{Title: "Intro"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "courseId")
}

func TestCreateModuleForgetsCachedList(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodPost, "/api/courses/c1/modules", http.StatusCreated, map[string]any{
		"id": "m9", "courseId": "c1", "title": "Intro", "order": 3,
	})
	svc, fl, _ := newTestService(t, rt)

	m, err := svc.CreateModule(context.Background(), "c1", upstream.ModuleInput{Title: "Intro"})
	require.NoError(t, err)
	assert.Equal(t, "m9", m.ID)
	assert.JSONEq(t, `{"title":"Intro"}`, string(rt.Bodies(http.MethodPost, "/api/courses/c1/modules")[0]))
	assert.Equal(t, []string{"modules:c1"}, fl.keys)
}

func TestUpdateModulePersistFailure(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodPut, "/api/modules/m1", http.StatusNotFound, map[string]any{"error": "gone"})
	svc, fl, _ := newTestService(t, rt)

	_, err := svc.UpdateModule(context.Background(), "m1", upstream.ModuleInput{Title: "Renamed"})
	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "update_module", perr.Op)
	assert.Equal(t, http.StatusNotFound, perr.UpstreamStatus())
	assert.Empty(t, fl.keys)
}

func TestDeleteModule(t *testing.T) {
	rt := upstreamtest.NewRouter().JSON(http.MethodDelete, "/api/modules/m1", http.StatusNoContent, nil)
	svc, fl, _ := newTestService(t, rt)

	require.NoError(t, svc.DeleteModule(context.Background(), "m1", "c1"))
	assert.Equal(t, []string{"modules:c1", "lessons:m1"}, fl.keys)
}

func TestListsReturnEmptySlices(t *testing.T) {
	rt := upstreamtest.NewRouter().
		JSON(http.MethodGet, "/api/courses/c1/resources", http.StatusOK, nil).
		JSON(http.MethodGet, "/api/courses/c1/assignments", http.StatusServiceUnavailable, nil)
	svc, _, _ := newTestService(t, rt)

	res, err := svc.ListResources(context.Background(), "c1")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	_, err = svc.ListAssignments(context.Background(), "c1")
	assert.Error(t, err)
}
