package echoapi

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/state"
)

var uploadField = "file"

// contentApi exposes the admin content editor. The editors live in AppState
// and keep their forms between requests, one per course.
type contentApi struct {
	app *state.AppState
}

func registerContentAPI(g *echo.Group, admin echo.MiddlewareFunc, app *state.AppState) {
	api := &contentApi{app: app}

	cg := g.Group("/admin/courses/:id", admin, api.editorMiddleware)
	cg.PUT("", api.update)
	cg.GET("/editor", api.retrieve)

	cg.PUT("/videos/form", api.fillVideo)
	cg.DELETE("/videos/form", api.cancelVideo)
	cg.POST("/videos/upload", api.uploadVideo)
	cg.POST("/videos/:vid/edit", api.editVideo)
	cg.POST("/videos", api.saveVideo)
	cg.DELETE("/videos/:vid", api.deleteVideo)

	cg.PUT("/quizzes/form", api.fillQuiz)
	cg.DELETE("/quizzes/form", api.cancelQuiz)
	cg.POST("/quizzes/:qid/edit", api.editQuiz)
	cg.POST("/quizzes", api.saveQuiz)
	cg.DELETE("/quizzes/:qid", api.deleteQuiz)
}

// editorMiddleware puts the editor of the course in the context.
func (api *contentApi) editorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ed, err := api.app.Editor(ctx.Param("id"))
		if err != nil {
			return err
		}
		ctx.Set("editor", ed)
		return next(ctx)
	}
}

func getEditor(ctx echo.Context) (*course.Editor, error) {
	ed, ok := ctx.Get("editor").(*course.Editor)
	if !ok {
		return nil, errors.New("editor not found in echo.Context")
	}
	return ed, nil
}

// respond sends the state of the editor along with the warning of res, if any.
func (api *contentApi) respond(ctx echo.Context, ed *course.Editor, res ...core.WriteResult) error {
	c, err := ed.Course()
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusOK, EditorResponse{
		Course:    c,
		VideoForm: ed.VideoForm(),
		QuizForm:  ed.QuizForm(),
		Uploading: ed.Uploading(),
	})
}

// Handlers

func (api *contentApi) retrieve(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	return api.respond(ctx, ed)
}

func (api *contentApi) update(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	var data course.Course
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	data.ID = ed.CourseID()

	res, err := api.app.UpdateCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return api.respond(ctx, ed, res)
}

func (api *contentApi) fillVideo(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	var data course.VideoForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VideoForm")
	}
	ed.FillVideo(data.Title, data.Description, data.Source)
	return api.respond(ctx, ed)
}

func (api *contentApi) cancelVideo(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	ed.CancelVideo()
	return api.respond(ctx, ed)
}

// uploadVideo embeds the uploaded file in the video form. It waits for the read to finish.
func (api *contentApi) uploadVideo(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: uploadField, Error: "a file is required"})
	}

	up := course.Upload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return openFileHeader(fh) },
	}
	if err := <-ed.AttachVideo(ctx.Request().Context(), up); err != nil {
		return err
	}
	return api.respond(ctx, ed)
}

func openFileHeader(fh *multipart.FileHeader) (io.ReadCloser, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening uploaded file")
	}
	return f, nil
}

func (api *contentApi) editVideo(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	if err := ed.EditVideo(ctx.Param("vid")); err != nil {
		return err
	}
	return api.respond(ctx, ed)
}

func (api *contentApi) saveVideo(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	res, err := ed.SaveVideo(ctx.Request().Context())
	if err != nil {
		return err
	}
	return api.respond(ctx, ed, res)
}

func (api *contentApi) deleteVideo(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	res, err := ed.DeleteVideo(ctx.Request().Context(), ctx.Param("vid"))
	if err != nil {
		return err
	}
	return api.respond(ctx, ed, res)
}

func (api *contentApi) fillQuiz(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	var data course.QuizForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizForm")
	}
	ed.FillQuiz(data)
	return api.respond(ctx, ed)
}

func (api *contentApi) cancelQuiz(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	ed.CancelQuiz()
	return api.respond(ctx, ed)
}

func (api *contentApi) editQuiz(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	if err := ed.EditQuiz(ctx.Param("qid")); err != nil {
		return err
	}
	return api.respond(ctx, ed)
}

func (api *contentApi) saveQuiz(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	res, err := ed.SaveQuiz(ctx.Request().Context())
	if err != nil {
		return err
	}
	return api.respond(ctx, ed, res)
}

func (api *contentApi) deleteQuiz(ctx echo.Context) error {
	ed, err := getEditor(ctx)
	if err != nil {
		return err
	}
	res, err := ed.DeleteQuiz(ctx.Request().Context(), ctx.Param("qid"))
	if err != nil {
		return err
	}
	return api.respond(ctx, ed, res)
}

type EditorResponse struct {
	Course    course.Course    `json:"course"`
	VideoForm course.VideoForm `json:"videoForm"`
	QuizForm  course.QuizForm  `json:"quizForm"`
	Uploading bool             `json:"uploading"`
}
