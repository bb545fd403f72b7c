package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog(t *testing.T) {
	courses, err := SeedCatalog()
	require.NoError(t, err)
	require.Len(t, courses, 6)

	wantIDs := []string{"trade-finance", "intl-banking", "treasury-risk", "forex", "stock-market", "research-analyst"}
	for i, c := range courses {
		assert.Equal(t, wantIDs[i], c.ID)
		assert.True(t, c.Level.Valid(), c.ID)
		assert.NotEmpty(t, c.Curriculum, c.ID)
		assert.Empty(t, c.Videos, c.ID)
	}

	// callers get their own copy
	courses[0].Title = "changed"
	again := MustSeedCatalog()
	assert.Equal(t, "International Trade Finance", again[0].Title)
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: "- {id: a, title: A, level: Top, price: 10}\n"},
		{name: "missing id", data: "- {title: A, level: Top}\n", wantErr: true},
		{name: "bad level", data: "- {id: a, level: Expert}\n", wantErr: true},
		{name: "negative price", data: "- {id: a, level: Top, price: -1}\n", wantErr: true},
		{name: "duplicate", data: "- {id: a, level: Top}\n- {id: a, level: Bottom}\n", wantErr: true},
		{name: "unknown field", data: "- {id: a, level: Top, colour: red}\n", wantErr: true},
		{name: "not a list", data: "id: a\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
