package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		subtotal int
		want     int
		wantErr  error
	}{
		{name: "10 percent floors", code: "ATF10", subtotal: 805, want: 80},
		{name: "10 percent of 800", code: "ATF10", subtotal: 800, want: 80},
		{name: "25 percent", code: "ATF25", subtotal: 1000, want: 250},
		{name: "flat", code: "WELCOME500", subtotal: 1000, want: 500},
		{name: "flat exceeds subtotal", code: "WELCOME500", subtotal: 300, want: 500},
		{name: "normalized", code: "  atf10 ", subtotal: 100, want: 10},
		{name: "empty cart", code: "WELCOME500", subtotal: 0, want: 0},
		{name: "unknown", code: "FREE", subtotal: 1000, wantErr: ErrInvalidCoupon},
		{name: "blank", code: "   ", subtotal: 1000, wantErr: ErrInvalidCoupon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(DefaultCoupons, tt.code, tt.subtotal)
			if err != tt.wantErr {
				t.Errorf("Evaluate() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotal(t *testing.T) {
	for subtotal := 0; subtotal <= 1000; subtotal += 125 {
		for discount := 0; discount <= 1200; discount += 100 {
			got := Total(subtotal, discount)
			assert.GreaterOrEqual(t, got, 0)
			if discount >= subtotal {
				assert.Equal(t, 0, got)
			} else {
				assert.Equal(t, subtotal-discount, got)
			}
		}
	}
}

func TestNewQuote(t *testing.T) {
	c := New()
	c.items = append(c.items, testCourse("a", 500), testCourse("b", 300))

	discount, err := Evaluate(DefaultCoupons, "ATF10", c.Subtotal())
	assert.NoError(t, err)
	q := NewQuote(c, discount, "ATF10")
	assert.Equal(t, Quote{Items: 2, Subtotal: 800, Discount: 80, Total: 720, Coupon: "ATF10"}, q)
}
