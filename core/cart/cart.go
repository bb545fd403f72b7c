package cart

import "github.com/bhavyajain7773/ATF-Design/core/course"

// Cart is an ordered set of course snapshots: no two items share an id.
type Cart struct {
	items []course.Course
}

// New builds a cart from items, keeping the first occurrence of each id.
func New(items ...course.Course) *Cart {
	c := &Cart{}
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Add appends a copy of crs. It reports false if the course is already in the cart.
func (c *Cart) Add(crs course.Course) bool {
	if c.Contains(crs.ID) {
		return false
	}
	c.items = append(c.items, crs.Clone())
	return true
}

// Remove drops the course with the given id. It reports false if there was none.
func (c *Cart) Remove(id string) bool {
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Contains(id string) bool {
	for _, it := range c.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (c *Cart) Clear()      { c.items = nil }
func (c *Cart) Len() int    { return len(c.items) }
func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Items returns deep copies of the cart items in insertion order.
func (c *Cart) Items() []course.Course {
	items := course.CloneAll(c.items)
	if items == nil {
		items = []course.Course{}
	}
	return items
}

// Subtotal is the sum of item prices.
func (c *Cart) Subtotal() int {
	var sum int
	for _, it := range c.items {
		sum += it.Price
	}
	return sum
}
