package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/state"
)

type courseApi struct {
	app *state.AppState
}

func registerCourseAPI(g *echo.Group, authed echo.MiddlewareFunc, app *state.AppState) {
	api := courseApi{app: app}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	// enrolled learners only
	enrolled := enrolledMiddleware(app)
	cg.GET("/:id/material", api.material, authed, enrolled)
	cg.POST("/:id/quiz", api.grade, authed, enrolled)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.app.Courses())
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.app.Course(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) material(ctx echo.Context) error {
	c, err := api.app.Course(ctx.Param("id"))
	if err != nil {
		return err
	}
	vids, quizzes := course.Material(c)

	module := new(Module)
	module.Bind(ctx)
	session := course.NewQuizSession(quizzes, module.ID)

	return ctx.JSON(http.StatusOK, MaterialResponse{
		Videos:     vids,
		Quizzes:    quizzes,
		QuizCounts: course.QuizCounts(quizzes),
		Module:     module.ID,
		Questions:  session.Len(),
	})
}

// grade walks a quiz session with the submitted answers, one per question.
func (api *courseApi) grade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if data.Module == "" {
		data.Module = course.AllModules
	}

	c, err := api.app.Course(ctx.Param("id"))
	if err != nil {
		return err
	}
	_, quizzes := course.Material(c)
	session := course.NewQuizSession(quizzes, data.Module)
	if len(data.Answers) != session.Len() {
		return core.NewValidationError(nil, core.FieldError{Field: "answers", Error: "answer every question of the module"})
	}

	results := make([]bool, 0, len(data.Answers))
	for _, answer := range data.Answers {
		correct, err := session.Answer(answer)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "answers", Error: err.Error()})
		}
		results = append(results, correct)
		if err := session.Next(); err != nil {
			return errors.Wrap(err, "moving to next question")
		}
	}

	score, total := session.Score()
	return ctx.JSON(http.StatusOK, GradeResponse{Score: score, Total: total, Results: results})
}

func enrolledMiddleware(app *state.AppState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := app.Course(ctx.Param("id")); err != nil {
				return errHttpNotFound
			}
			enrolled, err := app.Enrolled(ctx.Param("id"))
			if err != nil {
				return err
			}
			if !enrolled {
				return errNotEnrolled
			}
			return next(ctx)
		}
	}
}

type (
	MaterialResponse struct {
		Videos     []course.CourseVideo `json:"videos"`
		Quizzes    []course.CourseQuiz  `json:"quizzes"`
		QuizCounts map[string]int       `json:"quizCounts"`
		Module     string               `json:"module"`
		Questions  int                  `json:"questions"`
	}

	GradeRequest struct {
		Module  string `json:"module"`
		Answers []int  `json:"answers"`
	}

	GradeResponse struct {
		Score   int    `json:"score"`
		Total   int    `json:"total"`
		Results []bool `json:"results"`
	}
)
