package core

// String helpers for debug output without the fmt package

// Itoa converts an integer to a string
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	var u uint64
	if negative {
		u = uint64(-int64(n))
	} else {
		u = uint64(n)
	}

	var buf [21]byte
	pos := len(buf)
	for u > 0 {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
	}
	if negative {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Utoa converts an unsigned integer to a string
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// Ftoa formats f with a fixed number of decimals (at most 6), truncating
func Ftoa(f float64, decimals int) string {
	if f != f {
		return "NaN"
	}
	if decimals > 6 {
		decimals = 6
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	scale := 1
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	scaled := int64(f * float64(scale))
	whole := Itoa(int(scaled / int64(scale)))
	if decimals == 0 {
		return sign + whole
	}

	frac := Itoa(int(scaled % int64(scale)))
	for len(frac) < decimals {
		frac = "0" + frac
	}
	return sign + whole + "." + frac
}
