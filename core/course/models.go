package course

import "github.com/pkg/errors"

// OptionsPerQuiz is the fixed number of answer slots of a quiz question.
const OptionsPerQuiz = 4

var (
	ErrNotFound      = errors.New("course not found")
	ErrVideoNotFound = errors.New("video module not found")
	ErrQuizNotFound  = errors.New("quiz question not found")
)

// Tier classifies a course for display grouping.
type Tier string

const (
	TierTop    Tier = "Top"
	TierMiddle Tier = "Middle"
	TierBottom Tier = "Bottom"
)

func (t Tier) Valid() bool {
	switch t {
	case TierTop, TierMiddle, TierBottom:
		return true
	}
	return false
}

type Section struct {
	Section string   `json:"section" yaml:"section"`
	Topics  []string `json:"topics" yaml:"topics"`
}

// CourseVideo is an admin-authored video module.
// Source is either an external URL or a `data:` URL embedding the file.
type CourseVideo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"videoUrl,omitempty"`
}

// CourseQuiz is a single multiple-choice question.
// ModuleID is a weak reference to a CourseVideo: a miss means "unlinked".
type CourseQuiz struct {
	ID       string   `json:"id"`
	ModuleID string   `json:"moduleId,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// Valid reports whether the quiz has exactly OptionsPerQuiz options and a correct index within them.
func (q CourseQuiz) Valid() bool {
	return len(q.Options) == OptionsPerQuiz && q.Correct >= 0 && q.Correct < len(q.Options)
}

type Course struct {
	ID               string        `json:"id" yaml:"id"`
	Title            string        `json:"title" yaml:"title"`
	ShortDescription string        `json:"shortDescription" yaml:"shortDescription"`
	Price            int           `json:"price" yaml:"price"`
	Level            Tier          `json:"level" yaml:"level"`
	Outcomes         []string      `json:"outcomes" yaml:"outcomes"`
	Curriculum       []Section     `json:"curriculum" yaml:"curriculum"`
	Videos           []CourseVideo `json:"videos,omitempty" yaml:"-"`
	Quizzes          []CourseQuiz  `json:"quizzes,omitempty" yaml:"-"`
}

// Video looks up a video module by id.
func (c Course) Video(id string) (CourseVideo, bool) {
	for _, v := range c.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return CourseVideo{}, false
}

// Quiz looks up a quiz question by id.
func (c Course) Quiz(id string) (CourseQuiz, bool) {
	for _, q := range c.Quizzes {
		if q.ID == id {
			return q, true
		}
	}
	return CourseQuiz{}, false
}

// Linked reports whether q references an existing video of c.
func (c Course) Linked(q CourseQuiz) bool {
	if q.ModuleID == "" {
		return false
	}
	_, ok := c.Video(q.ModuleID)
	return ok
}

// Clone returns a deep copy of c. Empty slices are normalized to nil.
func (c Course) Clone() Course {
	c.Outcomes = cloneStrings(c.Outcomes)
	c.Curriculum = cloneSections(c.Curriculum)
	c.Videos = cloneVideos(c.Videos)
	c.Quizzes = cloneQuizzes(c.Quizzes)
	return c
}

// CloneAll deep copies a list of courses.
func CloneAll(courses []Course) []Course {
	if courses == nil {
		return nil
	}
	out := make([]Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}

// Find returns the course with the given id.
func Find(courses []Course, id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func cloneStrings(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	return append([]string(nil), ss...)
}

func cloneSections(secs []Section) []Section {
	if len(secs) == 0 {
		return nil
	}
	out := make([]Section, len(secs))
	for i, s := range secs {
		out[i] = Section{Section: s.Section, Topics: cloneStrings(s.Topics)}
	}
	return out
}

func cloneVideos(vids []CourseVideo) []CourseVideo {
	if len(vids) == 0 {
		return nil
	}
	return append([]CourseVideo(nil), vids...)
}

func cloneQuizzes(qs []CourseQuiz) []CourseQuiz {
	if len(qs) == 0 {
		return nil
	}
	out := make([]CourseQuiz, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
