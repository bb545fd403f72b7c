package course

import "github.com/pkg/errors"

// AllModules selects every quiz of a course for a practice session.
const AllModules = "all"

var (
	ErrSessionDone     = errors.New("quiz session is over")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("answer the question first")
	ErrInvalidAnswer   = errors.New("answer index out of range")
)

var (
	orientationVideo = CourseVideo{
		ID:          "default",
		Title:       "Institutional Orientation",
		Description: "Overview of the trade finance professional landscape.",
	}
	orientationQuiz = CourseQuiz{
		ID:       "default-q",
		Question: "Under UCP 600, what is the maximum number of banking days a bank has to determine if a presentation is complying?",
		Options:  []string{"3 banking days", "5 banking days", "7 banking days", "10 banking days"},
		Correct:  1,
	}
)

// Material returns the videos and quizzes shown to an enrolled learner.
// A course without admin content falls back to the built-in orientation module.
func Material(c Course) ([]CourseVideo, []CourseQuiz) {
	vids := cloneVideos(c.Videos)
	if len(vids) == 0 {
		vids = []CourseVideo{orientationVideo}
	}
	qs := cloneQuizzes(c.Quizzes)
	if len(qs) == 0 {
		qs = cloneQuizzes([]CourseQuiz{orientationQuiz})
	}
	return vids, qs
}

// QuizCounts counts quizzes per linked module id. Unlinked quizzes are not counted.
func QuizCounts(quizzes []CourseQuiz) map[string]int {
	counts := make(map[string]int)
	for _, q := range quizzes {
		if q.ModuleID != "" {
			counts[q.ModuleID]++
		}
	}
	return counts
}

// QuizSession walks through a set of quiz questions one at a time.
type QuizSession struct {
	quizzes   []CourseQuiz
	step      int
	score     int
	submitted bool
	done      bool
}

// NewQuizSession starts a session over the quizzes of moduleID, or all of them for AllModules.
func NewQuizSession(quizzes []CourseQuiz, moduleID string) *QuizSession {
	var selected []CourseQuiz
	for _, q := range quizzes {
		if moduleID == AllModules || q.ModuleID == moduleID {
			selected = append(selected, q)
		}
	}
	return &QuizSession{quizzes: selected, done: len(selected) == 0}
}

func (s *QuizSession) Len() int   { return len(s.quizzes) }
func (s *QuizSession) Step() int  { return s.step }
func (s *QuizSession) Done() bool { return s.done }

// Current returns the question being asked.
func (s *QuizSession) Current() (CourseQuiz, bool) {
	if s.done {
		return CourseQuiz{}, false
	}
	return s.quizzes[s.step], true
}

// Answer submits the selected option for the current question.
func (s *QuizSession) Answer(option int) (bool, error) {
	if s.done {
		return false, ErrSessionDone
	}
	if s.submitted {
		return false, ErrAlreadyAnswered
	}
	q := s.quizzes[s.step]
	if option < 0 || option >= len(q.Options) {
		return false, ErrInvalidAnswer
	}
	s.submitted = true
	correct := option == q.Correct
	if correct {
		s.score++
	}
	return correct, nil
}

// Next moves to the following question, or ends the session after the last one.
func (s *QuizSession) Next() error {
	if s.done {
		return ErrSessionDone
	}
	if !s.submitted {
		return ErrNotAnswered
	}
	s.submitted = false
	if s.step < len(s.quizzes)-1 {
		s.step++
	} else {
		s.done = true
	}
	return nil
}

// Score returns the number of correct answers and the number of questions.
func (s *QuizSession) Score() (int, int) {
	return s.score, len(s.quizzes)
}
