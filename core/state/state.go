// Package state holds the in-memory application state.
// AppState is its single owner and the only component writing to the Store.
package state

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/cart"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/core/user"
)

var (
	// errors
	ErrLoginRequired  = errors.New("please log in to continue")
	ErrForbidden      = errors.New("administrator access required")
	ErrNotConfirmed   = errors.New("purge must be explicitly confirmed")
	ErrCourseNotFound = course.ErrNotFound
)

const confirmationTemplate = "order_confirmation"

type (
	Options struct {
		Store   Store
		Logger  core.Logger
		MailSvc core.EmailService
		Gateway order.Gateway
		Conf    *core.Config
		Seed    []course.Course // defaults to course.SeedCatalog
		Coupons []cart.Coupon   // defaults to cart.DefaultCoupons

		// Operator grants the admin operations without an admin session.
		// Used by the maintenance CLI.
		Operator bool
	}

	AppState struct {
		mu       sync.Mutex
		store    Store
		logger   core.Logger
		mailSvc  core.EmailService
		gateway  order.Gateway
		conf     *core.Config
		seed     []course.Course
		coupons  []cart.Coupon
		operator bool

		cart     *cart.Cart
		discount int
		coupon   string
		session  *user.User
		users    user.Directory
		orders   []order.Order
		courses  []course.Course
		checkout order.Checkout

		// open content editors by course, dropped on logout and purge
		editors map[string]*course.Editor
	}

	confirmationData struct {
		Order     order.Order
		PortalURL string
	}
)

var _ course.CourseWriter = (*AppState)(nil)

// New restores the application state from the store.
func New(ctx context.Context, opts Options) (*AppState, error) {
	if opts.Store == nil || opts.Logger == nil || opts.Conf == nil {
		return nil, errors.New("state: store, logger and config are required")
	}
	seed := opts.Seed
	if seed == nil {
		var err error
		if seed, err = course.SeedCatalog(); err != nil {
			return nil, err
		}
	}
	coupons := opts.Coupons
	if coupons == nil {
		coupons = cart.DefaultCoupons
	}
	gateway := opts.Gateway
	if gateway == nil {
		gateway = order.NewSimulatedGateway(opts.Conf.Checkout.Delay)
	}

	s := &AppState{
		store:   opts.Store,
		logger:  opts.Logger,
		mailSvc: opts.MailSvc,
		gateway: gateway,
		conf:    opts.Conf,
		seed:     course.CloneAll(seed),
		coupons:  coupons,
		operator: opts.Operator,
	}
	s.restore(opts.Store.Load(ctx))
	return s, nil
}

func (s *AppState) restore(snap Snapshot) {
	s.cart = cart.New(snap.Cart...)
	s.discount, s.coupon = 0, ""
	s.session = nil
	if snap.Session != nil {
		usr := *snap.Session
		s.session = &usr
	}
	s.users = append(user.Directory(nil), snap.Users...)
	s.orders = append([]order.Order(nil), snap.Orders...)
	s.courses = course.CloneAll(snap.Courses)
	if len(s.courses) == 0 {
		s.courses = course.CloneAll(s.seed)
	}
	s.checkout.Reset()
	s.editors = nil
}

// record logs failed writes and collects the results.
func (s *AppState) record(results ...core.WriteResult) core.WriteResults {
	for _, res := range results {
		if res.OK() {
			continue
		}
		args := []interface{}{map[string]interface{}{"key": res.Key, "status": res.Status.String()}}
		if res.Err != nil {
			args = append(args, res.Err)
		}
		if s.session != nil {
			args = append(args, *s.session)
		}
		s.logger.Warn(fmt.Sprintf("persisting %s: %s", res.Key, res.Status), args...)
	}
	return core.WriteResults(results)
}

func (s *AppState) requireSession() error {
	if s.session == nil {
		return ErrLoginRequired
	}
	return nil
}

func (s *AppState) requireAdmin() error {
	if s.operator {
		return nil
	}
	if s.session == nil || !s.session.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *AppState) requireIdleCheckout() error {
	if s.checkout.Phase() == order.Submitting {
		return order.ErrCheckoutInProgress
	}
	return nil
}

func (s *AppState) courseIndex(id string) int {
	for i, c := range s.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *AppState) quote() cart.Quote {
	return cart.NewQuote(s.cart, s.discount, s.coupon)
}

// Cart

// AddToCart adds a course snapshot to the cart of the logged in user.
// Adding a course already in the cart is a no-op.
func (s *AppState) AddToCart(ctx context.Context, courseID string) (core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if err := s.requireIdleCheckout(); err != nil {
		return nil, err
	}
	idx := s.courseIndex(courseID)
	if idx < 0 {
		return nil, ErrCourseNotFound
	}
	if !s.cart.Add(s.courses[idx]) {
		return nil, nil
	}
	s.checkout.Touch()
	return s.record(s.store.SaveCart(ctx, s.cart.Items())), nil
}

// RemoveFromCart drops a course from the cart. Emptying the cart resets the discount.
func (s *AppState) RemoveFromCart(ctx context.Context, courseID string) (core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireIdleCheckout(); err != nil {
		return nil, err
	}
	if !s.cart.Remove(courseID) {
		return nil, nil
	}
	if s.cart.Empty() {
		s.discount, s.coupon = 0, ""
	}
	s.checkout.Touch()
	return s.record(s.store.SaveCart(ctx, s.cart.Items())), nil
}

// Cart returns copies of the cart items.
func (s *AppState) Cart() []course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// ApplyCoupon replaces the active discount. An invalid code resets it to zero.
func (s *AppState) ApplyCoupon(code string) (cart.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireIdleCheckout(); err != nil {
		return s.quote(), err
	}
	discount, err := cart.Evaluate(s.coupons, code, s.cart.Subtotal())
	if err != nil {
		s.discount, s.coupon = 0, ""
		return s.quote(), core.NewValidationError(err, core.FieldError{Field: "code", Error: cart.InvalidCouponText})
	}
	s.discount, s.coupon = discount, cart.NormalizeCode(code)
	s.checkout.Touch()
	return s.quote(), nil
}

func (s *AppState) Quote() cart.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote()
}

// Users & session

// Register adds a user to the directory and logs them in.
func (s *AppState) Register(ctx context.Context, nu user.NewUser) (user.User, core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usr, next, err := s.users.Register(nu)
	if err != nil {
		return user.User{}, nil, err
	}
	s.users = next
	s.session = &usr
	return usr, s.record(
		s.store.SaveUsers(ctx, s.users),
		s.store.SaveSession(ctx, s.session),
	), nil
}

// Login sets the session to the registered user matching email and password.
func (s *AppState) Login(ctx context.Context, email, password string) (user.User, core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usr, err := s.users.Authenticate(email, password)
	if err != nil {
		return user.User{}, nil, err
	}
	s.session = &usr
	return usr, s.record(s.store.SaveSession(ctx, s.session)), nil
}

// AdminLogin sets the session to the synthetic administrator.
func (s *AppState) AdminLogin(ctx context.Context, id, password string) (user.User, core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usr, err := user.AdminAuthenticate(s.conf.Admin, id, password)
	if err != nil {
		s.logger.Warn("admin login rejected", map[string]interface{}{"id": id})
		return user.User{}, nil, err
	}
	s.session = &usr
	return usr, s.record(s.store.SaveSession(ctx, s.session)), nil
}

// Logout forgets the session and clears the cart and discount.
func (s *AppState) Logout(ctx context.Context) (core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireIdleCheckout(); err != nil {
		return nil, err
	}
	s.session = nil
	s.cart.Clear()
	s.discount, s.coupon = 0, ""
	s.checkout.Reset()
	s.editors = nil
	return s.record(
		s.store.SaveSession(ctx, nil),
		s.store.SaveCart(ctx, s.cart.Items()),
	), nil
}

// Session returns the logged in user, if any.
func (s *AppState) Session() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return user.User{}, false
	}
	return *s.session, true
}

// Users returns the registered users directory. Admin only.
func (s *AppState) Users() ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return append([]user.User{}, s.users...), nil
}

// ResetPassword sets a new password for a registered user. Admin only.
func (s *AppState) ResetPassword(ctx context.Context, email, password string) (core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	_, next, err := s.users.ResetPassword(core.CleanString(email), password)
	if err != nil {
		return nil, err
	}
	s.users = next
	return s.record(s.store.SaveUsers(ctx, s.users)), nil
}

// Orders

// CheckoutPhase returns the state of the order form.
func (s *AppState) CheckoutPhase() order.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Phase()
}

// Checkout submits the cart to the payment gateway and records the order.
// The state lock is released while the gateway works; cart mutations are
// rejected meanwhile. A gateway error or timeout leaves cart and discount intact.
func (s *AppState) Checkout(ctx context.Context, req order.Request) (order.Order, core.WriteResults, error) {
	s.mu.Lock()
	if err := s.requireSession(); err != nil {
		s.mu.Unlock()
		return order.Order{}, nil, err
	}
	if s.cart.Empty() {
		s.mu.Unlock()
		return order.Order{}, nil, order.ErrEmptyCart
	}
	if err := req.Validate(); err != nil {
		s.mu.Unlock()
		return order.Order{}, nil, err
	}
	if err := s.checkout.Begin(); err != nil {
		s.mu.Unlock()
		return order.Order{}, nil, err
	}
	buyer := *s.session
	items := s.cart.Items()
	q := s.quote()
	s.mu.Unlock()

	chargeCtx := ctx
	if timeout := s.conf.Checkout.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		chargeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	tracking, err := s.gateway.Charge(chargeCtx, order.Payment{Method: req.PaymentMethod, Amount: q.Total, Email: req.Email})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.checkout.Fail()
		s.logger.Error(fmt.Sprintf("checkout: %v", err), err, buyer)
		return order.Order{}, nil, errors.Wrap(order.ErrPaymentFailed, err.Error())
	}

	o := order.New(buyer, items, q.Discount, q.Total, req.PaymentMethod, tracking)
	s.orders = order.Prepend(s.orders, o)
	ordersRes := s.store.SaveOrders(ctx, s.orders)
	s.cart.Clear()
	s.discount, s.coupon = 0, ""
	cartRes := s.store.SaveCart(ctx, s.cart.Items())
	s.checkout.Complete()

	s.sendConfirmation(o, req)
	return o.Clone(), s.record(ordersRes, cartRes), nil
}

func (s *AppState) sendConfirmation(o order.Order, req order.Request) {
	if s.mailSvc == nil {
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: req.Name, Address: req.Email}},
		Subject:      "Enrollment confirmed - " + o.ID,
		TemplateName: confirmationTemplate,
		TemplateData: confirmationData{Order: o.Clone(), PortalURL: s.conf.EnrollmentPortal},
	}
	if err := msg.Attach(strings.NewReader(o.Receipt()), o.ID+".txt", "text/plain"); err != nil {
		s.logger.Error(fmt.Sprintf("attaching receipt: %v", err), err)
	}
	s.mailSvc.SendMessages(msg)
}

// Orders returns every order, most recent first. Admin only.
func (s *AppState) Orders() ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	out := make([]order.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

// OrdersFor returns the order history of the logged in user.
func (s *AppState) OrdersFor() ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	return order.FilterByEmail(s.orders, s.session.Email), nil
}

// Enrolled reports whether the logged in user bought courseID. The administrator sees every course.
func (s *AppState) Enrolled(courseID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireSession(); err != nil {
		return false, err
	}
	if s.session.IsAdmin {
		return true, nil
	}
	for _, o := range s.orders {
		if o.UserEmail != s.session.Email {
			continue
		}
		for _, it := range o.Items {
			if it.ID == courseID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Stats aggregates orders and users for the admin dashboard.
func (s *AppState) Stats() (order.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAdmin(); err != nil {
		return order.Stats{}, err
	}
	return order.ComputeStats(s.orders, len(s.users)), nil
}

// Courses

func (s *AppState) Courses() []course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return course.CloneAll(s.courses)
}

func (s *AppState) Course(id string) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.courseIndex(id)
	if idx < 0 {
		return course.Course{}, ErrCourseNotFound
	}
	return s.courses[idx].Clone(), nil
}

// UpdateCourse replaces a course and persists the catalog. Admin only.
// A failed write keeps the new course in memory for this session and leaves
// the previously persisted catalog untouched.
func (s *AppState) UpdateCourse(ctx context.Context, c course.Course) (core.WriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return core.WriteResult{}, err
	}
	idx := s.courseIndex(c.ID)
	if idx < 0 {
		return core.WriteResult{}, ErrCourseNotFound
	}
	for _, q := range c.Quizzes {
		if !q.Valid() {
			return core.WriteResult{}, core.NewValidationError(
				errors.Errorf("quiz %q needs %d options and a correct answer among them", q.ID, course.OptionsPerQuiz),
				core.FieldError{Field: "quizzes", Error: "invalid quiz"},
			)
		}
	}
	s.courses[idx] = c.Clone()
	res := s.store.SaveCourses(ctx, s.courses)
	s.record(res)
	return res, nil
}

// NewEditor opens the content editor on a course.
func (s *AppState) NewEditor(courseID string) (*course.Editor, error) {
	return course.NewEditor(s, courseID, s.conf.Upload.MaxSize, s.conf.Upload.Timeout)
}

// Editor returns the open editor of a course, opening one if needed.
// Editors keep their forms between calls until the next logout or purge.
func (s *AppState) Editor(courseID string) (*course.Editor, error) {
	s.mu.Lock()
	ed, ok := s.editors[courseID]
	s.mu.Unlock()
	if ok {
		return ed, nil
	}

	// NewEditor reads the course through s and must run unlocked.
	ed, err := s.NewEditor(courseID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.editors[courseID]; ok {
		return cur, nil
	}
	if s.editors == nil {
		s.editors = make(map[string]*course.Editor)
	}
	s.editors[courseID] = ed
	return ed, nil
}

// Purge erases orders, users, cart and admin content, then clears the store.
// Admin only; confirmed must be true. The admin session stays in memory.
func (s *AppState) Purge(ctx context.Context, confirmed bool) (core.WriteResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrNotConfirmed
	}
	if err := s.requireIdleCheckout(); err != nil {
		return nil, err
	}
	s.orders = nil
	s.users = nil
	s.cart.Clear()
	s.discount, s.coupon = 0, ""
	s.courses = course.CloneAll(s.seed)
	s.checkout.Reset()
	s.editors = nil

	res := s.record(s.store.Clear(ctx))
	if s.session != nil {
		s.logger.Info("institutional database purged", *s.session)
	} else {
		s.logger.Info("institutional database purged by operator")
	}
	return res, nil
}
