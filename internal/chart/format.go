package chart

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Formatter turns a domain value into an axis or tooltip label.
type Formatter func(float64) string

// siPrefixes are the SI prefix symbols from yocto (10^-24) to yotta (10^24).
var siPrefixes = [...]string{"y", "z", "a", "f", "p", "n", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

// exactDigits is enough decimal digits to print any float64 exactly.
const exactDigits = 1100

// FormatNumber prints x the way a JavaScript number converts to a
// string: shortest round-trip digits, exponent form outside [1e-6, 1e21).
func FormatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	ax := math.Abs(x)
	if ax != 0 && (ax < 1e-6 || ax >= 1e21) {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// FormatSI formats x with the given number of significant digits and an
// SI prefix, e.g. FormatSI(1234, 2) == "1.2k".
func FormatSI(x float64, precision int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 0):
		return FormatNumber(x)
	}
	if precision < 1 {
		precision = 1
	}

	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	coeff, exp := exponentialDigits(x, precision)
	prefixExp := 3 * max(-8, min(8, floorDiv(exp, 3)))
	i := exp - prefixExp + 1
	n := len(coeff)

	var out string
	switch {
	case i == n:
		out = coeff
	case i > n:
		out = coeff + strings.Repeat("0", i-n)
	case i > 0:
		out = coeff[:i] + "." + coeff[i:]
	default:
		// Only reachable below the smallest prefix.
		rest, _ := exponentialDigits(x, max(0, precision+i-1))
		out = "0." + strings.Repeat("0", -i) + rest
	}
	return sign + out + siPrefixes[8+prefixExp/3]
}

// XTickFormat is the bill-length axis and tooltip formatter: two
// significant SI digits with the giga prefix spelled as billions.
func XTickFormat(x float64) string {
	return strings.Replace(FormatSI(x, 2), "G", "B", 1)
}

// exponentialDigits returns the first digits significant digits of x > 0,
// rounded half away from zero on the exact binary value, and the decimal
// exponent of the first digit. digits == 0 means as many as needed.
func exponentialDigits(x float64, digits int) (string, int) {
	if x == 0 {
		if digits == 0 {
			digits = 1
		}
		return strings.Repeat("0", digits), 0
	}
	if digits == 0 {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		mant, expStr, _ := strings.Cut(s, "e")
		exp, _ := strconv.Atoi(expStr)
		return strings.Replace(mant, ".", "", 1), exp
	}

	s := new(big.Float).SetFloat64(x).Text('e', exactDigits)
	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)
	all := strings.Replace(mant, ".", "", 1)

	kept := []byte(all[:digits])
	if all[digits] >= '5' {
		j := len(kept) - 1
		for ; j >= 0 && kept[j] == '9'; j-- {
			kept[j] = '0'
		}
		if j < 0 {
			kept = append([]byte{'1'}, kept[:len(kept)-1]...)
			exp++
		} else {
			kept[j]++
		}
	}
	return string(kept), exp
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
