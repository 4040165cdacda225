package stats

import (
	"github.com/shopspring/decimal"
)

// MeanInts averages integer samples, nil when there are none
func MeanInts(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	m := float64(sum) / float64(len(values))
	return &m
}

// SumInts returns the sum of integer values
func SumInts(values []int) int {
	var sum int
	for _, v := range values {
		sum += v
	}
	return sum
}

// Round rounds half away from zero to the given number of decimal places
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
