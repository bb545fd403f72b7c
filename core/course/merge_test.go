package course

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() []Course {
	return []Course{
		{
			ID:         "C1",
			Title:      "Trade Finance",
			Price:      1000,
			Level:      TierTop,
			Outcomes:   []string{"UCP 600"},
			Curriculum: []Section{{Section: "Basics", Topics: []string{"Incoterms"}}},
		},
		{ID: "C2", Title: "Forex", Price: 500, Level: TierMiddle},
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestMerge(t *testing.T) {
	v1 := CourseVideo{ID: "V1", Title: "Intro"}
	q1 := CourseQuiz{ID: "Q1", ModuleID: "V1", Question: "?", Options: []string{"a", "b", "c", "d"}, Correct: 2}

	tests := []struct {
		name     string
		seed     []Course
		overlays []Overlay
		check    func(t *testing.T, got []Course)
	}{
		{
			name: "no overlays returns seed",
			seed: testSeed(),
			check: func(t *testing.T, got []Course) {
				assert.Equal(t, testSeed(), got)
			},
		},
		{
			name:     "admin videos kept, seed price used",
			seed:     testSeed(),
			overlays: []Overlay{{ID: "C1", Videos: &[]CourseVideo{v1}}},
			check: func(t *testing.T, got []Course) {
				require.Len(t, got, 2)
				assert.Equal(t, 1000, got[0].Price)
				assert.Equal(t, []CourseVideo{v1}, got[0].Videos)
				assert.Nil(t, got[1].Videos)
			},
		},
		{
			name: "admin content survives seed restructuring",
			seed: func() []Course {
				s := testSeed()
				s[0].Price = 1200
				s[0].Curriculum = append(s[0].Curriculum, Section{Section: "Advanced", Topics: []string{"URDG 758"}})
				return s
			}(),
			overlays: []Overlay{{ID: "C1", Videos: &[]CourseVideo{v1}, Quizzes: &[]CourseQuiz{q1}}},
			check: func(t *testing.T, got []Course) {
				assert.Equal(t, 1200, got[0].Price)
				assert.Len(t, got[0].Curriculum, 2)
				assert.Equal(t, []CourseVideo{v1}, got[0].Videos)
				assert.Equal(t, []CourseQuiz{q1}, got[0].Quizzes)
			},
		},
		{
			name:     "unknown ids dropped",
			seed:     testSeed(),
			overlays: []Overlay{{ID: "GONE", Title: strPtr("Deleted course")}},
			check: func(t *testing.T, got []Course) {
				assert.Equal(t, testSeed(), got)
			},
		},
		{
			name:     "present fields win",
			seed:     testSeed(),
			overlays: []Overlay{{ID: "C2", Title: strPtr("Forex for Individuals"), Price: intPtr(0)}},
			check: func(t *testing.T, got []Course) {
				assert.Equal(t, "Forex for Individuals", got[1].Title)
				assert.Equal(t, 0, got[1].Price)
				assert.Equal(t, TierMiddle, got[1].Level)
			},
		},
		{
			name:     "nested lists replaced wholesale",
			seed:     testSeed(),
			overlays: []Overlay{{ID: "C1", Curriculum: &[]Section{{Section: "Only"}}}},
			check: func(t *testing.T, got []Course) {
				assert.Equal(t, []Section{{Section: "Only"}}, got[0].Curriculum)
			},
		},
		{
			name:     "seed order preserved",
			seed:     testSeed(),
			overlays: []Overlay{{ID: "C2", Price: intPtr(1)}, {ID: "C1", Price: intPtr(2)}},
			check: func(t *testing.T, got []Course) {
				assert.Equal(t, "C1", got[0].ID)
				assert.Equal(t, "C2", got[1].ID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Merge(tt.seed, tt.overlays))
		})
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	seed := testSeed()
	vids := []CourseVideo{{ID: "V1", Title: "Intro"}}
	got := Merge(seed, []Overlay{{ID: "C1", Videos: &vids}})

	got[0].Curriculum[0].Topics[0] = "changed"
	got[0].Videos[0].Title = "changed"
	assert.Equal(t, "Incoterms", seed[0].Curriculum[0].Topics[0])
	assert.Equal(t, "Intro", vids[0].Title)
}

func TestMergeIdempotent(t *testing.T) {
	seed := testSeed()
	once := Merge(seed, nil)
	assert.Equal(t, once, Merge(seed, Overlays(seed, once)))

	// a record holding full courses decodes to overlays with every field present
	data, err := json.Marshal(once)
	require.NoError(t, err)
	var overlays []Overlay
	require.NoError(t, json.Unmarshal(data, &overlays))
	assert.Equal(t, once, Merge(seed, overlays))
}

func TestOverlayRoundTrip(t *testing.T) {
	seed := testSeed()
	current := Merge(seed, nil)
	current[0].Title = "Trade Finance Masterclass"
	current[0].Videos = []CourseVideo{{ID: "V1", Title: "Intro"}}

	overlays := Overlays(seed, current)
	require.Len(t, overlays, 1)
	o := overlays[0]
	assert.Equal(t, "C1", o.ID)
	assert.NotNil(t, o.Title)
	assert.NotNil(t, o.Videos)
	assert.Nil(t, o.Price)
	assert.Nil(t, o.Curriculum)

	data, err := json.Marshal(overlays)
	require.NoError(t, err)
	var decoded []Overlay
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, current, Merge(seed, decoded))
}

func TestOverlayOfDeletedVideos(t *testing.T) {
	seed := testSeed()[0]
	seed.Videos = []CourseVideo{{ID: "V1", Title: "Shipped"}}
	current := seed.Clone()
	current.Videos = nil

	o := OverlayOf(seed, current)
	require.NotNil(t, o.Videos)
	assert.Empty(t, *o.Videos)
	assert.Nil(t, o.Apply(seed).Videos)
}

func TestOverlaySanitize(t *testing.T) {
	badLevel := Tier("Legendary")
	o := Overlay{
		ID:    "C1",
		Level: &badLevel,
		Quizzes: &[]CourseQuiz{
			{ID: "ok", Options: []string{"a", "b", "c", "d"}, Correct: 3},
			{ID: "too-few", Options: []string{"a", "b"}, Correct: 0},
			{ID: "neg", Options: []string{"a", "b", "c", "d"}, Correct: -1},
			{ID: "out", Options: []string{"a", "b", "c", "d"}, Correct: 4},
		},
	}
	assert.Equal(t, 3, o.Sanitize())
	assert.Nil(t, o.Level)
	require.Len(t, *o.Quizzes, 1)
	assert.Equal(t, "ok", (*o.Quizzes)[0].ID)
}
