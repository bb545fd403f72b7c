package course

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
)

var (
	ErrUploadInProgress = errors.New("a file is still being read: wait for it to finish before saving")
	ErrUploadCanceled   = errors.New("upload canceled")

	validate, translator = core.NewValidate()
)

// CourseWriter is the single-writer path for course content.
type CourseWriter interface {
	Course(id string) (Course, error)
	UpdateCourse(ctx context.Context, c Course) (core.WriteResult, error)
}

// VideoForm is both the create and the edit form: EditingID is set while editing.
type VideoForm struct {
	EditingID   string `json:"editingId,omitempty"`
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	Source      string `json:"videoUrl"`
}

func (f VideoForm) Editing() bool { return f.EditingID != "" }

// QuizForm is both the create and the edit form: EditingID is set while editing.
type QuizForm struct {
	EditingID string                 `json:"editingId,omitempty"`
	ModuleID  string                 `json:"moduleId"`
	Question  string                 `json:"question" validate:"notblank"`
	Options   [OptionsPerQuiz]string `json:"options"`
	Correct   int                    `json:"correct" validate:"gte=0,lt=4"`
}

func (f QuizForm) Editing() bool { return f.EditingID != "" }

// Editor edits the video modules and quiz questions of one course.
// Changes are written through the CourseWriter; the editor never touches storage.
type Editor struct {
	courseID      string
	writer        CourseWriter
	maxUpload     int64
	uploadTimeout time.Duration

	mu        sync.Mutex
	video     VideoForm
	quiz      QuizForm
	uploading bool
	uploadSeq int
}

// NewEditor binds an editor to an existing course.
// maxUpload is the largest embeddable file in bytes, uploadTimeout bounds a file read (0 = none).
func NewEditor(writer CourseWriter, courseID string, maxUpload int64, uploadTimeout time.Duration) (*Editor, error) {
	if _, err := writer.Course(courseID); err != nil {
		return nil, err
	}
	return &Editor{
		courseID:      courseID,
		writer:        writer,
		maxUpload:     maxUpload,
		uploadTimeout: uploadTimeout,
	}, nil
}

func (e *Editor) CourseID() string { return e.courseID }

// Course returns the current state of the edited course.
func (e *Editor) Course() (Course, error) {
	return e.writer.Course(e.courseID)
}

func (e *Editor) VideoForm() VideoForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.video
}

func (e *Editor) QuizForm() QuizForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz
}

func (e *Editor) Uploading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uploading
}

// FillVideo sets the text fields of the video form; the editing target is kept.
func (e *Editor) FillVideo(title, description, source string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.video.Title = title
	e.video.Description = description
	e.video.Source = source
}

// FillQuiz sets the fields of the quiz form; the editing target is kept.
func (e *Editor) FillQuiz(f QuizForm) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f.EditingID = e.quiz.EditingID
	e.quiz = f
}

// EditVideo loads an existing video into the form.
func (e *Editor) EditVideo(id string) error {
	c, err := e.writer.Course(e.courseID)
	if err != nil {
		return err
	}
	v, ok := c.Video(id)
	if !ok {
		return ErrVideoNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.abortUpload()
	e.video = VideoForm{EditingID: v.ID, Title: v.Title, Description: v.Description, Source: v.Source}
	return nil
}

// CancelVideo restores the empty create form and abandons a pending upload.
func (e *Editor) CancelVideo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.abortUpload()
	e.video = VideoForm{}
}

func (e *Editor) abortUpload() {
	if e.uploading {
		e.uploading = false
		e.uploadSeq++
	}
}

// AttachVideo reads up into the form source as a data URL.
// The size limit is checked before the file is opened; the form text is left
// untouched on any failure. The returned channel yields exactly one value.
func (e *Editor) AttachVideo(ctx context.Context, up Upload) <-chan error {
	done := make(chan error, 1)

	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		done <- ErrUploadInProgress
		close(done)
		return done
	}
	if e.maxUpload > 0 && up.Size > e.maxUpload {
		e.mu.Unlock()
		done <- core.NewValidationError(nil, core.FieldError{Field: "videoUrl", Error: TooLargeMessage(up.Size, e.maxUpload)})
		close(done)
		return done
	}
	e.uploading = true
	e.uploadSeq++
	seq := e.uploadSeq
	e.mu.Unlock()

	go func() {
		defer close(done)

		if e.uploadTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.uploadTimeout)
			defer cancel()
		}

		type result struct {
			src string
			err error
		}
		read := make(chan result, 1)
		go func() {
			src, err := readDataURL(up)
			read <- result{src, err}
		}()

		var res result
		select {
		case res = <-read:
		case <-ctx.Done():
			res.err = errors.Wrap(ctx.Err(), "reading upload")
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if seq != e.uploadSeq {
			done <- ErrUploadCanceled
			return
		}
		e.uploading = false
		if res.err == nil {
			e.video.Source = res.src
		}
		done <- res.err
	}()
	return done
}

// SaveVideo creates or updates the video in the form, then resets the form.
func (e *Editor) SaveVideo(ctx context.Context) (core.WriteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.uploading {
		return core.WriteResult{}, ErrUploadInProgress
	}
	form := e.video
	form.Title = core.CleanString(form.Title)
	form.Source = core.CleanString(form.Source)
	if err := core.CheckStruct(validate, translator, form); err != nil {
		return core.WriteResult{}, err
	}

	c, err := e.writer.Course(e.courseID)
	if err != nil {
		return core.WriteResult{}, err
	}
	vid := CourseVideo{
		ID:          form.EditingID,
		Title:       form.Title,
		Description: form.Description,
		Source:      form.Source,
	}
	if form.Editing() {
		idx := videoIndex(c.Videos, form.EditingID)
		if idx < 0 {
			return core.WriteResult{}, ErrVideoNotFound
		}
		c.Videos[idx] = vid
	} else {
		vid.ID = uuid.New().String()
		c.Videos = append(c.Videos, vid)
	}

	res, err := e.writer.UpdateCourse(ctx, c)
	if err != nil {
		return res, err
	}
	e.video = VideoForm{}
	return res, nil
}

// DeleteVideo removes a video. Quizzes referencing it are kept and become unlinked.
func (e *Editor) DeleteVideo(ctx context.Context, id string) (core.WriteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.writer.Course(e.courseID)
	if err != nil {
		return core.WriteResult{}, err
	}
	idx := videoIndex(c.Videos, id)
	if idx < 0 {
		return core.WriteResult{}, ErrVideoNotFound
	}
	c.Videos = append(c.Videos[:idx], c.Videos[idx+1:]...)

	res, err := e.writer.UpdateCourse(ctx, c)
	if err != nil {
		return res, err
	}
	if e.video.EditingID == id {
		e.abortUpload()
		e.video = VideoForm{}
	}
	return res, nil
}

// EditQuiz loads an existing quiz into the form.
func (e *Editor) EditQuiz(id string) error {
	c, err := e.writer.Course(e.courseID)
	if err != nil {
		return err
	}
	q, ok := c.Quiz(id)
	if !ok {
		return ErrQuizNotFound
	}

	form := QuizForm{EditingID: q.ID, ModuleID: q.ModuleID, Question: q.Question, Correct: q.Correct}
	copy(form.Options[:], q.Options)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.quiz = form
	return nil
}

// CancelQuiz restores the empty create form.
func (e *Editor) CancelQuiz() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quiz = QuizForm{}
}

// SaveQuiz creates or updates the quiz in the form, then resets the form.
// The module link is informational and not checked against the course videos.
func (e *Editor) SaveQuiz(ctx context.Context) (core.WriteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	form := e.quiz
	form.Question = core.CleanString(form.Question)
	form.ModuleID = core.CleanString(form.ModuleID)
	if err := core.CheckStruct(validate, translator, form); err != nil {
		return core.WriteResult{}, err
	}

	c, err := e.writer.Course(e.courseID)
	if err != nil {
		return core.WriteResult{}, err
	}
	q := CourseQuiz{
		ID:       form.EditingID,
		ModuleID: form.ModuleID,
		Question: form.Question,
		Options:  append([]string(nil), form.Options[:]...),
		Correct:  form.Correct,
	}
	if form.Editing() {
		idx := quizIndex(c.Quizzes, form.EditingID)
		if idx < 0 {
			return core.WriteResult{}, ErrQuizNotFound
		}
		c.Quizzes[idx] = q
	} else {
		q.ID = uuid.New().String()
		c.Quizzes = append(c.Quizzes, q)
	}

	res, err := e.writer.UpdateCourse(ctx, c)
	if err != nil {
		return res, err
	}
	e.quiz = QuizForm{}
	return res, nil
}

func (e *Editor) DeleteQuiz(ctx context.Context, id string) (core.WriteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.writer.Course(e.courseID)
	if err != nil {
		return core.WriteResult{}, err
	}
	idx := quizIndex(c.Quizzes, id)
	if idx < 0 {
		return core.WriteResult{}, ErrQuizNotFound
	}
	c.Quizzes = append(c.Quizzes[:idx], c.Quizzes[idx+1:]...)

	res, err := e.writer.UpdateCourse(ctx, c)
	if err != nil {
		return res, err
	}
	if e.quiz.EditingID == id {
		e.quiz = QuizForm{}
	}
	return res, nil
}

func videoIndex(vids []CourseVideo, id string) int {
	for i, v := range vids {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func quizIndex(qs []CourseQuiz, id string) int {
	for i, q := range qs {
		if q.ID == id {
			return i
		}
	}
	return -1
}
