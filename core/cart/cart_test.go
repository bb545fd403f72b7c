package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bhavyajain7773/ATF-Design/core/course"
)

func TestCart(t *testing.T) {
	a := course.Course{ID: "a", Price: 500, Outcomes: []string{"x"}}
	b := course.Course{ID: "b", Price: 300}

	c := New(a, b, a)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 800, c.Subtotal())

	assert.False(t, c.Add(a), "duplicate add is a no-op")
	assert.Equal(t, 2, c.Len())

	items := c.Items()
	items[0].Outcomes[0] = "changed"
	assert.Equal(t, "x", c.Items()[0].Outcomes[0])
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, []string{"b"}, ids(c.Items()))

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, []course.Course{}, c.Items())
	assert.Equal(t, 0, c.Subtotal())
}

func TestCartRemoveKeepsOrder(t *testing.T) {
	c := New(course.Course{ID: "a"}, course.Course{ID: "b"}, course.Course{ID: "c"})
	items := c.items
	c.Remove("b")
	assert.Equal(t, []string{"a", "c"}, ids(c.Items()))
	assert.Equal(t, "b", items[1].ID, "removal must not write through a shared backing array")
}

func ids(cs []course.Course) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func testCourse(id string, price int) course.Course {
	return course.Course{ID: id, Title: id, Price: price, Level: course.TierTop}
}
