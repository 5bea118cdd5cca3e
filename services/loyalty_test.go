package services

import (
	"testing"

	"daebak/restapi/models"
)

func TestCouponAvailable(t *testing.T) {
	tests := []struct {
		completed int
		want      bool
	}{
		{0, false},
		{9, false},
		{10, false}, // threshold itself is not enough
		{11, true},
		{100, true},
	}
	for _, tt := range tests {
		if got := CouponAvailable(tt.completed); got != tt.want {
			t.Errorf("CouponAvailable(%d) = %v, want %v", tt.completed, got, tt.want)
		}
	}
}

func bibimbapCart() []models.CartLine {
	return []models.CartLine{
		{MenuItem: models.MenuItem{Name: "전주 비빔밥", Price: 14.99}, Quantity: 2},
	}
}

func TestOrderTotalWithoutCoupon(t *testing.T) {
	got := OrderTotal(bibimbapCart(), false)
	if got != 29.98 {
		t.Errorf("OrderTotal without coupon = %v, want 29.98", got)
	}
}

func TestOrderTotalWithCoupon(t *testing.T) {
	// 29.98 * 0.85 = 25.483, rounded to cents
	got := OrderTotal(bibimbapCart(), true)
	if got != 25.48 {
		t.Errorf("OrderTotal with coupon = %v, want 25.48", got)
	}
}

func TestOrderTotalMultipleLines(t *testing.T) {
	lines := []models.CartLine{
		{MenuItem: models.MenuItem{Name: "잡채", Price: 12.50}, Quantity: 1},
		{MenuItem: models.MenuItem{Name: "양념 치킨", Price: 19.99}, Quantity: 3},
	}
	if got := RoundCurrency(Subtotal(lines)); got != 72.47 {
		t.Errorf("Subtotal = %v, want 72.47", got)
	}
	if got := OrderTotal(lines, false); got != 72.47 {
		t.Errorf("OrderTotal = %v, want 72.47", got)
	}
}

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999}, // 19.99*100 is 1998.99... in float64; truncation would lose a cent
		{29.98, 2998},
		{25.48, 2548},
		{0, 0},
		{10, 1000},
	}
	for _, tt := range tests {
		if got := AmountInCents(tt.amount); got != tt.want {
			t.Errorf("AmountInCents(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestLoyaltyCouponShape(t *testing.T) {
	if LoyaltyCoupon.Code != "DAEBAK10" || LoyaltyCoupon.DiscountPercent != 15 {
		t.Errorf("unexpected loyalty coupon: %+v", LoyaltyCoupon)
	}
}
