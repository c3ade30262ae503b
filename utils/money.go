package utils

import "math"

// ApplyDiscount applies a whole-percent discount and rounds to cents.
func ApplyDiscount(total float64, discountPercent int) float64 {
	discounted := total - total*float64(discountPercent)/100
	return math.Round(discounted*100) / 100
}

// RoundMoney rounds a currency amount to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
