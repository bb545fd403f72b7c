package course

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavyajain7773/ATF-Design/core"
)

type writerMock struct {
	mu      sync.Mutex
	courses []Course
	status  core.WriteStatus
	writes  int
}

func newWriterMock() *writerMock {
	return &writerMock{courses: testSeed()}
}

func (w *writerMock) Course(id string) (Course, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := Find(w.courses, id)
	if !ok {
		return Course{}, ErrNotFound
	}
	return c.Clone(), nil
}

func (w *writerMock) UpdateCourse(_ context.Context, c Course) (core.WriteResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.courses {
		if w.courses[i].ID == c.ID {
			w.courses[i] = c.Clone()
			w.writes++
			return core.WriteResult{Key: "atf_courses", Status: w.status}, nil
		}
	}
	return core.WriteResult{}, ErrNotFound
}

func newTestEditor(t *testing.T, w *writerMock) *Editor {
	e, err := NewEditor(w, "C1", 100, time.Second)
	require.NoError(t, err)
	return e
}

func TestNewEditorUnknownCourse(t *testing.T) {
	_, err := NewEditor(newWriterMock(), "nope", 100, 0)
	assert.Equal(t, ErrNotFound, err)
}

func TestEditorVideoCRUD(t *testing.T) {
	ctx := context.Background()
	w := newWriterMock()
	e := newTestEditor(t, w)

	// title required
	e.FillVideo("   ", "desc", "")
	_, err := e.SaveVideo(ctx)
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, 0, w.writes)
	assert.Equal(t, "desc", e.VideoForm().Description)

	// create
	e.FillVideo(" Intro ", "", "https://videos.test/intro.mp4")
	res, err := e.SaveVideo(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, VideoForm{}, e.VideoForm())

	c, _ := e.Course()
	require.Len(t, c.Videos, 1)
	vid := c.Videos[0]
	assert.NotEmpty(t, vid.ID)
	assert.Equal(t, "Intro", vid.Title)

	// edit, then cancel
	require.NoError(t, e.EditVideo(vid.ID))
	assert.True(t, e.VideoForm().Editing())
	assert.Equal(t, "Intro", e.VideoForm().Title)
	e.CancelVideo()
	assert.Equal(t, VideoForm{}, e.VideoForm())

	// edit and save
	require.NoError(t, e.EditVideo(vid.ID))
	e.FillVideo("Orientation", "updated", "")
	_, err = e.SaveVideo(ctx)
	require.NoError(t, err)
	c, _ = e.Course()
	require.Len(t, c.Videos, 1)
	assert.Equal(t, CourseVideo{ID: vid.ID, Title: "Orientation", Description: "updated"}, c.Videos[0])

	assert.Equal(t, ErrVideoNotFound, e.EditVideo("missing"))
	_, err = e.DeleteVideo(ctx, "missing")
	assert.Equal(t, ErrVideoNotFound, err)
}

func TestEditorDeleteVideoKeepsQuizzes(t *testing.T) {
	ctx := context.Background()
	w := newWriterMock()
	w.courses[0].Videos = []CourseVideo{{ID: "V1", Title: "Intro"}}
	w.courses[0].Quizzes = []CourseQuiz{{ID: "Q1", ModuleID: "V1", Question: "?", Options: []string{"a", "b", "c", "d"}}}
	e := newTestEditor(t, w)

	_, err := e.DeleteVideo(ctx, "V1")
	require.NoError(t, err)

	c, _ := e.Course()
	assert.Empty(t, c.Videos)
	require.Len(t, c.Quizzes, 1)
	assert.Equal(t, "V1", c.Quizzes[0].ModuleID)
	assert.False(t, c.Linked(c.Quizzes[0]))
}

func TestEditorQuizCRUD(t *testing.T) {
	ctx := context.Background()
	w := newWriterMock()
	e := newTestEditor(t, w)

	tests := []struct {
		name    string
		form    QuizForm
		wantErr bool
	}{
		{name: "blank question", form: QuizForm{Question: " ", Correct: 0}, wantErr: true},
		{name: "negative correct", form: QuizForm{Question: "Q", Correct: -1}, wantErr: true},
		{name: "correct out of range", form: QuizForm{Question: "Q", Correct: 4}, wantErr: true},
		{name: "empty options allowed", form: QuizForm{Question: "Q", Correct: 3}},
		{
			name: "dangling module link allowed",
			form: QuizForm{Question: "Q2", ModuleID: "no-such-video", Options: [4]string{"a", "b", "c", "d"}, Correct: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.FillQuiz(tt.form)
			_, err := e.SaveQuiz(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("SaveQuiz() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assert.True(t, core.IsValidation(err))
				assert.Equal(t, tt.form.Question, e.QuizForm().Question)
			} else {
				assert.Equal(t, QuizForm{}, e.QuizForm())
			}
			e.CancelQuiz()
		})
	}

	c, _ := e.Course()
	require.Len(t, c.Quizzes, 2)
	for _, q := range c.Quizzes {
		assert.True(t, q.Valid())
	}

	q := c.Quizzes[1]
	require.NoError(t, e.EditQuiz(q.ID))
	form := e.QuizForm()
	assert.Equal(t, [4]string{"a", "b", "c", "d"}, form.Options)
	form.Correct = 2
	e.FillQuiz(form)
	_, err := e.SaveQuiz(ctx)
	require.NoError(t, err)

	c, _ = e.Course()
	got, ok := c.Quiz(q.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Correct)

	_, err = e.DeleteQuiz(ctx, q.ID)
	require.NoError(t, err)
	c, _ = e.Course()
	assert.Len(t, c.Quizzes, 1)
	assert.Equal(t, ErrQuizNotFound, e.EditQuiz(q.ID))
}

func TestEditorSaveQuotaExceeded(t *testing.T) {
	w := newWriterMock()
	w.status = core.WriteQuotaExceeded
	e := newTestEditor(t, w)

	e.FillVideo("Big", "", "data:video/mp4;base64,AAAA")
	res, err := e.SaveVideo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.WriteQuotaExceeded, res.Status)
	assert.NotEmpty(t, res.Warning())
}

func TestEditorAttachVideo(t *testing.T) {
	ctx := context.Background()

	t.Run("too large rejected before open", func(t *testing.T) {
		e := newTestEditor(t, newWriterMock())
		e.FillVideo("Lecture 1", "Letters of credit", "")

		opened := false
		up := Upload{
			Name: "big.mp4",
			Size: 3 * mb,
			Open: func() (io.ReadCloser, error) {
				opened = true
				return io.NopCloser(strings.NewReader("")), nil
			},
		}
		e.maxUpload = 5 * mb / 2

		err := <-e.AttachVideo(ctx, up)
		require.Error(t, err)
		assert.True(t, core.IsValidation(err))
		assert.Contains(t, err.Error(), "2.5 MB")
		assert.Contains(t, err.Error(), "URL")
		assert.False(t, opened)
		assert.False(t, e.Uploading())
		assert.Equal(t, "Lecture 1", e.VideoForm().Title)
		assert.Equal(t, "Letters of credit", e.VideoForm().Description)
	})

	t.Run("embedded as data url", func(t *testing.T) {
		e := newTestEditor(t, newWriterMock())
		e.FillVideo("Lecture 1", "", "")

		require.NoError(t, <-e.AttachVideo(ctx, BytesUpload("notes.txt", []byte("hello"))))
		assert.Equal(t, "data:text/plain;base64,aGVsbG8=", e.VideoForm().Source)
		assert.Equal(t, "Lecture 1", e.VideoForm().Title)
	})

	t.Run("save blocked while uploading", func(t *testing.T) {
		e := newTestEditor(t, newWriterMock())
		e.FillVideo("Lecture 1", "", "")

		release := make(chan struct{})
		up := Upload{
			Name: "slow.txt",
			Size: 5,
			Open: func() (io.ReadCloser, error) {
				<-release
				return io.NopCloser(strings.NewReader("hello")), nil
			},
		}
		done := e.AttachVideo(ctx, up)
		assert.True(t, e.Uploading())

		_, err := e.SaveVideo(ctx)
		assert.Equal(t, ErrUploadInProgress, err)
		assert.Equal(t, ErrUploadInProgress, <-e.AttachVideo(ctx, up))

		close(release)
		require.NoError(t, <-done)
		assert.False(t, e.Uploading())
		_, err = e.SaveVideo(ctx)
		assert.NoError(t, err)
	})

	t.Run("open failure keeps form", func(t *testing.T) {
		e := newTestEditor(t, newWriterMock())
		e.FillVideo("Lecture 1", "", "https://old.test")

		up := Upload{Name: "x", Size: 1, Open: func() (io.ReadCloser, error) { return nil, errors.New("boom") }}
		assert.Error(t, <-e.AttachVideo(ctx, up))
		assert.Equal(t, "https://old.test", e.VideoForm().Source)
		assert.False(t, e.Uploading())
	})

	t.Run("timeout frees the form", func(t *testing.T) {
		e := newTestEditor(t, newWriterMock())
		e.uploadTimeout = 10 * time.Millisecond

		block := make(chan struct{})
		defer close(block)
		up := Upload{Name: "hung", Size: 1, Open: func() (io.ReadCloser, error) {
			<-block
			return nil, errors.New("unreachable")
		}}
		err := <-e.AttachVideo(ctx, up)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.False(t, e.Uploading())
	})

	t.Run("cancel abandons upload", func(t *testing.T) {
		e := newTestEditor(t, newWriterMock())

		release := make(chan struct{})
		up := Upload{Name: "slow", Size: 1, Open: func() (io.ReadCloser, error) {
			<-release
			return io.NopCloser(strings.NewReader("x")), nil
		}}
		done := e.AttachVideo(ctx, up)
		e.CancelVideo()
		assert.False(t, e.Uploading())
		close(release)
		assert.Equal(t, ErrUploadCanceled, <-done)
		assert.Equal(t, VideoForm{}, e.VideoForm())
	})
}
