// Package storage persists the application state as five independent JSON
// records in a key-value Backend.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/core/state"
	"github.com/bhavyajain7773/ATF-Design/core/user"
)

// Record keys
const (
	KeyCart    = "atf_cart"
	KeySession = "atf_user"
	KeyOrders  = "atf_orders"
	KeyUsers   = "atf_users_list"
	KeyCourses = "atf_courses"
)

// DefaultQuota is the byte budget shared by all records.
const DefaultQuota = 5 * 1024 * 1024

var (
	Keys = []string{KeyCart, KeySession, KeyOrders, KeyUsers, KeyCourses}

	// ErrQuotaExceeded is returned by backends that run out of space.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is a durable string-keyed medium.
type Backend interface {
	// Get reports false if key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value unless key exists and reports whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context, keys ...string) error
}

// Store implements state.Store over a Backend.
type Store struct {
	backend Backend
	logger  core.Logger
	seed    []course.Course
	quota   int64

	mu    sync.Mutex
	sizes map[string]int64
}

var _ state.Store = (*Store)(nil)

// NewStore returns a Store. A quota <= 0 disables the byte budget.
func NewStore(backend Backend, logger core.Logger, seed []course.Course, quota int64) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		seed:    course.CloneAll(seed),
		quota:   quota,
		sizes:   make(map[string]int64),
	}
}

// Usage returns the bytes currently used by the records.
func (s *Store) Usage() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, n := range s.sizes {
		total += n
	}
	return total
}

// read fetches and decodes one record. It reports false if the record is absent or corrupt.
func (s *Store) read(ctx context.Context, key string, v interface{}) bool {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Error(fmt.Sprintf("reading %s: %v", key, err), err)
		return false
	}
	if !ok {
		return false
	}

	s.mu.Lock()
	s.sizes[key] = int64(len(data))
	s.mu.Unlock()

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn(fmt.Sprintf("discarding corrupt record %s", key), errors.Wrap(err, "decoding "+key))
		return false
	}
	return true
}

// Load restores every record independently, falling back to defaults.
func (s *Store) Load(ctx context.Context) state.Snapshot {
	snap := state.Snapshot{
		Cart:   []course.Course{},
		Orders: []order.Order{},
		Users:  []user.User{},
	}

	var items []course.Course
	if s.read(ctx, KeyCart, &items) {
		snap.Cart = dedupCourses(items)
	}

	var session *user.User
	if s.read(ctx, KeySession, &session) && session != nil {
		if validSession(*session) {
			snap.Session = session
		} else {
			s.logger.Warn(fmt.Sprintf("discarding malformed record %s", KeySession))
		}
	}

	var orders []order.Order
	if s.read(ctx, KeyOrders, &orders) && orders != nil {
		snap.Orders = make([]order.Order, 0, len(orders))
		for _, o := range orders {
			if o.ID != "" && o.UserEmail != "" {
				snap.Orders = append(snap.Orders, o)
			}
		}
		s.warnDropped(KeyOrders, len(orders)-len(snap.Orders))
	}

	var users []user.User
	if s.read(ctx, KeyUsers, &users) && users != nil {
		snap.Users = make([]user.User, 0, len(users))
		for _, u := range users {
			if u.ID != "" && u.Email != "" && !u.IsAdmin {
				snap.Users = append(snap.Users, u)
			}
		}
		s.warnDropped(KeyUsers, len(users)-len(snap.Users))
	}

	var overlays []course.Overlay
	if s.read(ctx, KeyCourses, &overlays) {
		var dropped int
		for i := range overlays {
			dropped += overlays[i].Sanitize()
		}
		if dropped > 0 {
			s.logger.Warn(fmt.Sprintf("dropped %d invalid quiz entries from %s", dropped, KeyCourses))
		}
	}
	snap.Courses = course.Merge(s.seed, overlays)
	return snap
}

// validSession reports whether usr can be restored as the logged in user.
// Admin rights are only restored for the exact administrator pseudo-user.
func validSession(usr user.User) bool {
	if usr.ID == "" || usr.Email == "" {
		return false
	}
	if usr.IsAdmin || usr.ID == user.AdminID {
		return usr.Public() == user.Admin()
	}
	return true
}

func (s *Store) warnDropped(key string, n int) {
	if n > 0 {
		s.logger.Warn(fmt.Sprintf("dropped %d malformed entries from %s", n, key))
	}
}

func dedupCourses(items []course.Course) []course.Course {
	seen := make(map[string]bool, len(items))
	out := make([]course.Course, 0, len(items))
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// write serializes v and writes it under key if it fits the quota.
// A rejected write leaves the stored value untouched.
func (s *Store) write(ctx context.Context, key string, v interface{}) core.WriteResult {
	data, err := json.Marshal(v)
	if err != nil {
		return core.WriteResult{Key: key, Status: core.WriteFailed, Err: errors.Wrap(err, "encoding "+key)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	size := int64(len(data))
	if s.quota > 0 {
		var others int64
		for k, n := range s.sizes {
			if k != key {
				others += n
			}
		}
		if others+size > s.quota {
			return core.WriteResult{
				Key:    key,
				Status: core.WriteQuotaExceeded,
				Err:    errors.Wrapf(ErrQuotaExceeded, "%s needs %d bytes, %d of %d available", key, size, s.quota-others, s.quota),
			}
		}
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return core.WriteResult{Key: key, Status: core.WriteQuotaExceeded, Err: err}
		}
		return core.WriteResult{Key: key, Status: core.WriteFailed, Err: errors.Wrap(err, "writing "+key)}
	}
	s.sizes[key] = size
	return core.WriteResult{Key: key, Status: core.WriteOK}
}

func (s *Store) SaveCart(ctx context.Context, items []course.Course) core.WriteResult {
	if items == nil {
		items = []course.Course{}
	}
	return s.write(ctx, KeyCart, items)
}

func (s *Store) SaveSession(ctx context.Context, usr *user.User) core.WriteResult {
	if usr != nil {
		return s.write(ctx, KeySession, usr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Remove(ctx, KeySession); err != nil {
		return core.WriteResult{Key: KeySession, Status: core.WriteFailed, Err: errors.Wrap(err, "removing "+KeySession)}
	}
	delete(s.sizes, KeySession)
	return core.WriteResult{Key: KeySession, Status: core.WriteOK}
}

func (s *Store) SaveOrders(ctx context.Context, orders []order.Order) core.WriteResult {
	if orders == nil {
		orders = []order.Order{}
	}
	return s.write(ctx, KeyOrders, orders)
}

func (s *Store) SaveUsers(ctx context.Context, users []user.User) core.WriteResult {
	if users == nil {
		users = []user.User{}
	}
	return s.write(ctx, KeyUsers, users)
}

// SaveCourses persists the admin overlays of courses against the seed catalog.
func (s *Store) SaveCourses(ctx context.Context, courses []course.Course) core.WriteResult {
	return s.write(ctx, KeyCourses, course.Overlays(s.seed, courses))
}

// Clear removes all five records.
func (s *Store) Clear(ctx context.Context) core.WriteResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Clear(ctx, Keys...); err != nil {
		return core.WriteResult{Key: "*", Status: core.WriteFailed, Err: errors.Wrap(err, "clearing records")}
	}
	s.sizes = make(map[string]int64)
	return core.WriteResult{Key: "*", Status: core.WriteOK}
}
