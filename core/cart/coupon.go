package cart

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidCoupon = errors.New("invalid coupon code")

// InvalidCouponText is shown next to the coupon field.
const InvalidCouponText = "Invalid coupon code."

// CouponKind tells how a coupon amount is applied.
type CouponKind int

const (
	PercentOff CouponKind = iota
	FlatOff
)

type Coupon struct {
	Code   string
	Kind   CouponKind
	Amount int // percent for PercentOff, currency units for FlatOff
}

// Discount computes the discount of c on subtotal. Percentages are floored.
func (c Coupon) Discount(subtotal int) int {
	if subtotal <= 0 {
		return 0
	}
	switch c.Kind {
	case PercentOff:
		return subtotal * c.Amount / 100
	case FlatOff:
		return c.Amount
	}
	return 0
}

// DefaultCoupons is the fixed table of accepted codes.
var DefaultCoupons = []Coupon{
	{Code: "ATF10", Kind: PercentOff, Amount: 10},
	{Code: "ATF25", Kind: PercentOff, Amount: 25},
	{Code: "WELCOME500", Kind: FlatOff, Amount: 500},
}

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate matches code against coupons and returns the discount for subtotal.
// An unknown code yields ErrInvalidCoupon and a zero discount.
func Evaluate(coupons []Coupon, code string, subtotal int) (int, error) {
	code = NormalizeCode(code)
	for _, c := range coupons {
		if c.Code == code {
			return c.Discount(subtotal), nil
		}
	}
	return 0, ErrInvalidCoupon
}

// Total is the payable amount: never negative.
func Total(subtotal, discount int) int {
	if total := subtotal - discount; total > 0 {
		return total
	}
	return 0
}

// Quote summarizes what the cart costs.
type Quote struct {
	Items    int    `json:"items"`
	Subtotal int    `json:"subtotal"`
	Discount int    `json:"discount"`
	Total    int    `json:"total"`
	Coupon   string `json:"coupon,omitempty"`
}

func NewQuote(c *Cart, discount int, coupon string) Quote {
	subtotal := c.Subtotal()
	return Quote{
		Items:    c.Len(),
		Subtotal: subtotal,
		Discount: discount,
		Total:    Total(subtotal, discount),
		Coupon:   coupon,
	}
}
