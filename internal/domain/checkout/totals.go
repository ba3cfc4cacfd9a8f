// Package checkout computes order totals and turns a session cart into a
// placed order.
package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(200)
	// ShippingFee is charged when the subtotal does not exceed the threshold.
	ShippingFee = decimal.RequireFromString("15.90")
	// AutoDiscountThreshold is the subtotal above which AutoDiscountRate applies.
	AutoDiscountThreshold = decimal.NewFromInt(300)
	// AutoDiscountRate is the automatic discount for large orders.
	AutoDiscountRate = decimal.RequireFromString("0.05")
)

// Totals is the price breakdown shown on the cart page.
type Totals struct {
	Subtotal          decimal.Decimal
	Shipping          decimal.Decimal
	AutomaticDiscount decimal.Decimal
	CouponDiscount    decimal.Decimal
	FinalTotal        decimal.Decimal
}

// FreeShipping reports whether shipping was waived.
func (t Totals) FreeShipping() bool {
	return t.Shipping.IsZero()
}

// Calculate derives shipping, the automatic discount and the final total.
// The final total never goes below zero and is rounded to cents.
func Calculate(subtotal, couponDiscount decimal.Decimal) Totals {
	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	auto := decimal.Zero
	if subtotal.GreaterThan(AutoDiscountThreshold) {
		auto = subtotal.Mul(AutoDiscountRate).Round(2)
	}

	total := subtotal.Add(shipping).Sub(auto).Sub(couponDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:          subtotal.Round(2),
		Shipping:          shipping,
		AutomaticDiscount: auto,
		CouponDiscount:    couponDiscount.Round(2),
		FinalTotal:        total.Round(2),
	}
}

const (
	fastDelivery     = 3 * 24 * time.Hour
	standardDelivery = 5 * 24 * time.Hour
)

// EstimatedDelivery returns the promised delivery date for an order placed
// at now. Orders with free shipping arrive in three days, others in five.
func EstimatedDelivery(subtotal decimal.Decimal, now time.Time) time.Time {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return now.Add(fastDelivery)
	}
	return now.Add(standardDelivery)
}
