package course

import "reflect"

// Overlay is the persisted form of a course: only the fields an admin changed,
// plus admin-authored videos and quizzes. A nil field is "absent" and leaves the
// seed value untouched.
type Overlay struct {
	ID               string         `json:"id"`
	Title            *string        `json:"title,omitempty"`
	ShortDescription *string        `json:"shortDescription,omitempty"`
	Price            *int           `json:"price,omitempty"`
	Level            *Tier          `json:"level,omitempty"`
	Outcomes         *[]string      `json:"outcomes,omitempty"`
	Curriculum       *[]Section     `json:"curriculum,omitempty"`
	Videos           *[]CourseVideo `json:"videos,omitempty"`
	Quizzes          *[]CourseQuiz  `json:"quizzes,omitempty"`
}

// IsEmpty reports whether o carries no field besides its id.
func (o Overlay) IsEmpty() bool {
	return o.Title == nil && o.ShortDescription == nil && o.Price == nil && o.Level == nil &&
		o.Outcomes == nil && o.Curriculum == nil && o.Videos == nil && o.Quizzes == nil
}

// Sanitize drops quizzes that do not satisfy CourseQuiz.Valid and an invalid level.
// It returns the number of dropped quizzes.
func (o *Overlay) Sanitize() int {
	if o.Level != nil && !o.Level.Valid() {
		o.Level = nil
	}
	if o.Quizzes == nil {
		return 0
	}
	kept := make([]CourseQuiz, 0, len(*o.Quizzes))
	for _, q := range *o.Quizzes {
		if q.Valid() {
			kept = append(kept, q)
		}
	}
	dropped := len(*o.Quizzes) - len(kept)
	o.Quizzes = &kept
	return dropped
}

// Apply returns a copy of base with every field present in o overlaid.
// Nested lists are replaced wholesale.
func (o Overlay) Apply(base Course) Course {
	c := base.Clone()
	if o.Title != nil {
		c.Title = *o.Title
	}
	if o.ShortDescription != nil {
		c.ShortDescription = *o.ShortDescription
	}
	if o.Price != nil {
		c.Price = *o.Price
	}
	if o.Level != nil {
		c.Level = *o.Level
	}
	if o.Outcomes != nil {
		c.Outcomes = cloneStrings(*o.Outcomes)
	}
	if o.Curriculum != nil {
		c.Curriculum = cloneSections(*o.Curriculum)
	}
	if o.Videos != nil {
		c.Videos = cloneVideos(*o.Videos)
	}
	if o.Quizzes != nil {
		c.Quizzes = cloneQuizzes(*o.Quizzes)
	}
	return c
}

// Merge overlays persisted admin data on the seed catalog.
// The seed decides which courses exist and in which order: overlays for unknown
// ids are dropped, seed courses without an overlay are returned unmodified.
func Merge(seed []Course, overlays []Overlay) []Course {
	byID := make(map[string]Overlay, len(overlays))
	for _, o := range overlays {
		byID[o.ID] = o
	}

	merged := make([]Course, 0, len(seed))
	for _, c := range seed {
		if o, ok := byID[c.ID]; ok {
			merged = append(merged, o.Apply(c))
		} else {
			merged = append(merged, c.Clone())
		}
	}
	return merged
}

// OverlayOf computes the overlay that turns seed into current.
func OverlayOf(seed, current Course) Overlay {
	seed, current = seed.Clone(), current.Clone()
	o := Overlay{ID: current.ID}
	if current.Title != seed.Title {
		o.Title = &current.Title
	}
	if current.ShortDescription != seed.ShortDescription {
		o.ShortDescription = &current.ShortDescription
	}
	if current.Price != seed.Price {
		o.Price = &current.Price
	}
	if current.Level != seed.Level {
		o.Level = &current.Level
	}
	if !reflect.DeepEqual(current.Outcomes, seed.Outcomes) {
		o.Outcomes = emptyIfNil(current.Outcomes)
	}
	if !reflect.DeepEqual(current.Curriculum, seed.Curriculum) {
		o.Curriculum = emptyIfNilSections(current.Curriculum)
	}
	if !reflect.DeepEqual(current.Videos, seed.Videos) {
		vids := current.Videos
		if vids == nil {
			vids = []CourseVideo{}
		}
		o.Videos = &vids
	}
	if !reflect.DeepEqual(current.Quizzes, seed.Quizzes) {
		qs := current.Quizzes
		if qs == nil {
			qs = []CourseQuiz{}
		}
		o.Quizzes = &qs
	}
	return o
}

// Overlays computes the non-empty overlays of current against seed, in seed order.
func Overlays(seed, current []Course) []Overlay {
	overlays := make([]Overlay, 0)
	for _, s := range seed {
		c, ok := Find(current, s.ID)
		if !ok {
			continue
		}
		if o := OverlayOf(s, c); !o.IsEmpty() {
			overlays = append(overlays, o)
		}
	}
	return overlays
}

func emptyIfNil(ss []string) *[]string {
	if ss == nil {
		ss = []string{}
	}
	return &ss
}

func emptyIfNilSections(secs []Section) *[]Section {
	if secs == nil {
		secs = []Section{}
	}
	return &secs
}
