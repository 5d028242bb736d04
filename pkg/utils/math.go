package utils

import "math"

// RoundDecimal rounds value half away from zero to the given number of
// decimal places, e.g. RoundDecimal(0.98766, 4) returns 0.9877. Report figures
// such as recall and QPS go through it before being written out.
func RoundDecimal(value float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
