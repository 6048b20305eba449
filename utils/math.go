package utils

import "math"

// Round rounds a number to 2 decimal places for monetary display
func Round(num float64) float64 {
	return math.Round(num*MoneyPrecision) / MoneyPrecision
}

// RoundMilli rounds a number to 3 decimal places, the precision shares
// and settlement amounts are carried at
func RoundMilli(num float64) float64 {
	return math.Round(num*1000) / 1000
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	return math.Min(a, b)
}

// AllocateEven splits total into n shares that sum back to total exactly.
// Allocation happens in integer milli-units; the first total%n positions
// receive one extra milli-unit (largest remainder), so the result depends
// only on the caller's ordering.
func AllocateEven(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	totalMillis := int64(math.Round(total * 1000))
	base := totalMillis / int64(n)
	remainder := totalMillis % int64(n)

	shares := make([]float64, n)
	for i := range shares {
		millis := base
		if int64(i) < remainder {
			millis++
		}
		shares[i] = float64(millis) / 1000
	}
	return shares
}
