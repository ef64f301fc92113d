package compare

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var suffixes = []string{"", "k", "M", "G"}

// Human scales n through k, M, G and T and formats it with one decimal and
// thousands separators: 10000 -> "10.0k", 4.2e15 -> "4,200.0T".
func Human(n float64) string {
	for _, unit := range suffixes {
		if n < 1000 {
			return Fixed(n, 1) + unit
		}
		n /= 1000
	}
	return Fixed(n, 1) + "T"
}

// Fixed formats n with the given number of decimals and thousands
// separators, like "%,.Nf".
func Fixed(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return s
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + s
	}
	if frac == "" {
		return sign + humanize.Comma(whole)
	}
	return sign + humanize.Comma(whole) + "." + frac
}
