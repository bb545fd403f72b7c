package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/bhavyajain7773/ATF-Design/apps/api/echo"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/tests"
)

func Test_courseApi(t *testing.T) {
	srv, _ := setup(t)
	seed := course.MustSeedCatalog()
	forex, _ := course.Find(seed, "forex")

	runHttpTests(t, srv, []httpTest{
		{name: "list", path: "/v1/courses", wantCode: http.StatusOK, wantData: marchallObj(t, seed)},
		{name: "retrieve", path: "/v1/courses/forex", wantCode: http.StatusOK, wantData: marchallObj(t, forex)},
		{
			name: "not found", path: "/v1/courses/crypto-101", wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: course.ErrNotFound.Error()}),
		},
		{name: "material requires login", path: "/v1/courses/forex/material", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errLoginRequired)},
	})
}

func Test_courseApi_material(t *testing.T) {
	srv, env := setup(t)
	ctx := context.Background()
	usr := testutil.RegisterUser(t, env.App, "Asha Verma", "asha@test.in", "pwd")

	notEnrolled := httpErr{Error: "enroll in this course to access its material"}
	runHttpTests(t, srv, []httpTest{
		{name: "not enrolled", path: "/v1/courses/forex/material", wantCode: http.StatusForbidden, wantData: marchallObj(t, notEnrolled)},
		{
			name: "not enrolled in quiz", method: http.MethodPost, path: "/v1/courses/forex/quiz",
			body: []byte(`{"answers": [1]}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, notEnrolled),
		},
		{name: "unknown course", path: "/v1/courses/crypto-101/material", wantCode: http.StatusNotFound},
	})

	_, err := env.App.AddToCart(ctx, "forex")
	require.NoError(t, err)
	_, _, err = env.App.Checkout(ctx, order.RequestFor(usr))
	require.NoError(t, err)

	var mat MaterialResponse
	rec := do(t, srv, http.MethodGet, "/v1/courses/forex/material", nil, &mat)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, mat.Videos, 1)
	assert.Equal(t, "Institutional Orientation", mat.Videos[0].Title)
	require.Len(t, mat.Quizzes, 1)
	assert.Equal(t, course.AllModules, mat.Module)
	assert.Equal(t, 1, mat.Questions)
	assert.Empty(t, mat.QuizCounts)

	rec = do(t, srv, http.MethodGet, "/v1/courses/forex/material?module=default", nil, &mat)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", mat.Module)
	assert.Zero(t, mat.Questions, "the orientation question is not linked to a module")

	correct := mat.Quizzes[0].Correct
	runHttpTests(t, srv, []httpTest{
		{
			name: "grade", method: http.MethodPost, path: "/v1/courses/forex/quiz",
			body:     marchallObj(t, GradeRequest{Answers: []int{correct}}),
			wantCode: http.StatusOK, wantData: marchallObj(t, GradeResponse{Score: 1, Total: 1, Results: []bool{true}}),
		},
		{
			name: "wrong answer", method: http.MethodPost, path: "/v1/courses/forex/quiz",
			body:     marchallObj(t, GradeRequest{Answers: []int{(correct + 1) % course.OptionsPerQuiz}}),
			wantCode: http.StatusOK, wantData: marchallObj(t, GradeResponse{Score: 0, Total: 1, Results: []bool{false}}),
		},
		{
			name: "missing answers", method: http.MethodPost, path: "/v1/courses/forex/quiz",
			body: []byte(`{"answers": []}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"answers": "answer every question of the module"}),
		},
		{
			name: "answer out of range", method: http.MethodPost, path: "/v1/courses/forex/quiz",
			body: []byte(`{"answers": [9]}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"answers": course.ErrInvalidAnswer.Error()}),
		},
		{name: "other course", path: "/v1/courses/treasury-risk/material", wantCode: http.StatusForbidden},
	})

	// the administrator sees every course
	testutil.LoginAdmin(t, env.App, env.Conf)
	runHttpTests(t, srv, []httpTest{
		{name: "admin", path: "/v1/courses/treasury-risk/material", wantCode: http.StatusOK},
	})
}
