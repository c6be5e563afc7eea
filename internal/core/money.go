package core

import (
	"math"
	"strconv"
)

// RoundCents rounds an amount to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders an amount with the shortest representation that
// round-trips, e.g. 12.5 -> "12.5", 3 -> "3".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
