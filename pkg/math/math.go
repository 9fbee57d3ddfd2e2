package math

// Maximum calculates the maximum value among two integers
func Maximum(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

//Minimum calculates the minimum value among two integers
func Minimum(a int, b int) int {
	if a > b {
		return b
	}
	return a
}

//MaxFloat calculates the maximum value among two floats
func MaxFloat(a float64, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

//Clamp bounds the given value inside the [lo, hi] interval
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
