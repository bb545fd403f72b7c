package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/user"
)

// StatusEnrolled is the only status an order takes in practice.
const StatusEnrolled = "Enrolled"

// Payment methods
const (
	PaymentCard       = "Credit Card"
	PaymentUPI        = "UPI"
	PaymentCrypto     = "Crypto"
	PaymentNetBanking = "Net Banking"
)

var (
	PaymentMethods = []string{PaymentCard, PaymentUPI, PaymentCrypto, PaymentNetBanking}

	validate, translator = core.NewValidate()

	paymentMethodTag  = "paymentmethod"
	paymentMethodText = "unsupported payment method"
)

func init() {
	_ = validate.RegisterValidation(paymentMethodTag, paymentMethodValidation)
	core.RegisterCustomTranslation(validate, translator, paymentMethodTag, paymentMethodText)
}

// paymentMethodValidation checks the field is one of PaymentMethods
func paymentMethodValidation(fl validator.FieldLevel) bool {
	method, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Order is an immutable enrollment record. Items are full course copies and
// the owner identity is captured at creation time.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	UserName       string          `json:"userName"`
	UserEmail      string          `json:"userEmail"`
	Items          []course.Course `json:"items"`
	Total          int             `json:"total"`
	Discount       int             `json:"discount"`
	CreatedAt      time.Time       `json:"date"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"paymentMethod"`
	TrackingNumber string          `json:"trackingNumber"`
}

// New snapshots the buyer and the purchased items into an order.
func New(buyer user.User, items []course.Course, discount, total int, method, tracking string) Order {
	return Order{
		ID:             NewID(),
		UserID:         buyer.ID,
		UserName:       buyer.Name,
		UserEmail:      buyer.Email,
		Items:          course.CloneAll(items),
		Total:          total,
		Discount:       discount,
		CreatedAt:      core.NowFunc().UTC(),
		Status:         StatusEnrolled,
		PaymentMethod:  method,
		TrackingNumber: tracking,
	}
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	o.Items = course.CloneAll(o.Items)
	return o
}

// Receipt renders a plain-text receipt of the order.
func (o Order) Receipt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Academy of Trade Finance - Enrollment Receipt\n\n")
	fmt.Fprintf(&b, "Order:    %s\n", o.ID)
	fmt.Fprintf(&b, "Tracking: %s\n", o.TrackingNumber)
	fmt.Fprintf(&b, "Date:     %s\n", o.CreatedAt.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Student:  %s <%s>\n", o.UserName, o.UserEmail)
	fmt.Fprintf(&b, "Payment:  %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Status:   %s\n\n", o.Status)

	var subtotal int
	for _, it := range o.Items {
		subtotal += it.Price
		fmt.Fprintf(&b, "  %-52s %8d Rs\n", it.Title, it.Price)
	}
	fmt.Fprintf(&b, "\n  %-52s %8d Rs\n", "Subtotal", subtotal)
	fmt.Fprintf(&b, "  %-52s %8d Rs\n", "Discount", o.Discount)
	fmt.Fprintf(&b, "  %-52s %8d Rs\n", "Total", o.Total)
	return b.String()
}

// Prepend returns a new list with o first: most recent orders come first.
func Prepend(orders []Order, o Order) []Order {
	next := make([]Order, 0, len(orders)+1)
	next = append(next, o)
	return append(next, orders...)
}

// FilterByEmail returns the orders placed under email, most recent first.
func FilterByEmail(orders []Order, email string) []Order {
	filtered := make([]Order, 0)
	for _, o := range orders {
		if o.UserEmail == email {
			filtered = append(filtered, o.Clone())
		}
	}
	return filtered
}

// Request is the checkout form.
type Request struct {
	Name          string `json:"name" validate:"notblank"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"notblank"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod" validate:"paymentmethod"`
}

// RequestFor pre-fills the checkout form from the session user.
func RequestFor(usr user.User) Request {
	return Request{
		Name:          usr.Name,
		Email:         usr.Email,
		Phone:         usr.Phone,
		Address:       usr.Address,
		PaymentMethod: PaymentCard,
	}
}

func (r *Request) Validate() error {
	r.Name = core.CleanString(r.Name)
	r.Email = core.CleanString(r.Email)
	r.Phone = core.CleanString(r.Phone)
	r.Address = core.CleanString(r.Address)
	r.PaymentMethod = core.CleanString(r.PaymentMethod)
	return core.CheckStruct(validate, translator, r)
}
