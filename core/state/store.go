package state

import (
	"context"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/core/user"
)

// Snapshot is the persisted state as restored on start-up.
type Snapshot struct {
	Cart    []course.Course
	Session *user.User
	Orders  []order.Order
	Users   []user.User
	Courses []course.Course
}

// Store persists the five records of the application state.
// Load never fails: a missing or corrupt record yields its default.
// Each Save writes exactly one record and is never retried.
type Store interface {
	Load(ctx context.Context) Snapshot
	SaveCart(ctx context.Context, items []course.Course) core.WriteResult
	// SaveSession removes the session record when usr is nil.
	SaveSession(ctx context.Context, usr *user.User) core.WriteResult
	SaveOrders(ctx context.Context, orders []order.Order) core.WriteResult
	SaveUsers(ctx context.Context, users []user.User) core.WriteResult
	SaveCourses(ctx context.Context, courses []course.Course) core.WriteResult
	Clear(ctx context.Context) core.WriteResult
}
