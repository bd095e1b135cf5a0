// Package scale maps data domains onto pixel ranges and picks axis ticks.
package scale

import (
	"math"
	"strconv"
	"strings"
)

// DefaultTickCount is the tick count used when an axis does not ask for one
const DefaultTickCount = 10

// Thresholds for choosing a 1, 2, 5 or 10 multiple of a power of ten
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear is a continuous mapping from a numeric domain onto a pixel range
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear maps [d0, d1] onto [r0, r1]
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the current domain bounds
func (s *Linear) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range returns the pixel range bounds
func (s *Linear) Range() (float64, float64) {
	return s.r0, s.r1
}

// Apply maps v into the range. A collapsed domain maps everything to the
// start of the range.
func (s *Linear) Apply(v float64) float64 {
	span := s.d1 - s.d0
	if span == 0 || math.IsNaN(span) {
		return s.r0
	}
	return s.r0 + (v-s.d0)/span*(s.r1-s.r0)
}

// Nice extends the domain outward to round tick boundaries, so the first and
// last ticks land exactly on the domain ends.
func (s *Linear) Nice(count int) *Linear {
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	if start == stop || math.IsNaN(start) || math.IsNaN(stop) {
		return s
	}

	var prestep float64
loop:
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break loop
		}
		prestep = step
	}

	if reversed {
		start, stop = stop, start
	}
	s.d0, s.d1 = start, stop
	return s
}

// Ticks returns roughly count evenly spaced, human-friendly values inside the
// domain
func (s *Linear) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, count)
}

// TickFormat returns a formatter with just enough decimals to tell the
// domain's ticks apart. Thousands are grouped with commas.
func (s *Linear) TickFormat(count int) func(float64) string {
	step := tickStep(s.d0, s.d1, count)
	precision := 0
	if step != 0 && !math.IsInf(step, 0) && !math.IsNaN(step) {
		precision = max(0, -exponent(math.Abs(step)))
	}
	return func(v float64) string {
		return groupThousands(strconv.FormatFloat(v, 'f', precision, 64))
	}
}

// groupThousands inserts a comma every three digits of the integer part
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// exponent returns the decimal exponent of v in scientific notation. It is
// read off the formatted value since Log10 can land just below an integer.
func exponent(v float64) int {
	str := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.LastIndexByte(str, 'e')
	if i < 0 {
		return 0
	}
	exp, err := strconv.Atoi(str[i+1:])
	if err != nil {
		return 0
	}
	return exp
}

// tickIncrement returns a positive step for steps >= 1 and the negated
// inverse of the step otherwise, which keeps small steps exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := stepFactor(errRatio)
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func tickStep(start, stop float64, count int) float64 {
	reversed := stop < start
	var inc float64
	if reversed {
		inc = tickIncrement(stop, start, count)
	} else {
		inc = tickIncrement(start, stop, count)
	}
	if inc < 0 {
		inc = 1 / -inc
	}
	if reversed {
		return -inc
	}
	return inc
}

func stepFactor(errRatio float64) float64 {
	switch {
	case errRatio >= e10:
		return 10
	case errRatio >= e5:
		return 5
	case errRatio >= e2:
		return 2
	default:
		return 1
	}
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	factor := stepFactor(step / math.Pow(10, power))

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}

	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) || math.IsInf(inc, 0) || inc == 0 {
		return nil
	}

	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}

	if reversed {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
