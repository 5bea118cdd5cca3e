package services

import (
	"math"

	"daebak/restapi/models"
)

// CouponThreshold is the number of completed orders after which the loyalty
// coupon unlocks.
const CouponThreshold = 10

// LoyaltyCoupon is the single fixed discount. It is not consumable and does
// not stack.
var LoyaltyCoupon = models.Coupon{
	Code:            "DAEBAK10",
	DiscountPercent: 15,
	Description:     "단골 우대: 15% 할인 쿠폰",
}

// CouponAvailable is recomputed from the user record whenever it changes.
func CouponAvailable(completedOrders int) bool {
	return completedOrders > CouponThreshold
}

// RoundCurrency rounds to cents, half away from zero.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountInCents converts a currency amount to the integer cents the
// payment gateway expects. Rounds rather than truncates, so 19.99 stays
// 1999 despite float representation.
func AmountInCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Subtotal sums price*quantity over the cart lines.
func Subtotal(lines []models.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.MenuItem.Price * float64(l.Quantity)
	}
	return sum
}

// OrderTotal applies the loyalty discount when eligible and rounds the
// result to currency precision.
func OrderTotal(lines []models.CartLine, couponEligible bool) float64 {
	total := Subtotal(lines)
	if couponEligible {
		total *= 1 - float64(LoyaltyCoupon.DiscountPercent)/100
	}
	return RoundCurrency(total)
}
