package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the domain of a Number.
type Kind int8

const (
	// KindReal is a real number.
	KindReal Kind = iota
	// KindComplex is a complex number. A complex number with a zero imaginary
	// part is still complex.
	KindComplex
	// KindBuiltin is a reference to a builtin function, produced by
	// evaluating a bare function name. It supports no arithmetic.
	KindBuiltin
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindComplex:
		return "complex"
	case KindBuiltin:
		return "builtin"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Number is the result of evaluating an expression. The zero value is the
// real number 0.
type Number struct {
	kind Kind
	re   float64
	im   float64
	// fn is the function name for KindBuiltin.
	fn string
}

// RealNumber returns x as a real Number.
func RealNumber(x float64) Number {
	return Number{kind: KindReal, re: x}
}

// ComplexNumber returns re+im*i as a complex Number.
func ComplexNumber(re, im float64) Number {
	return Number{kind: KindComplex, re: re, im: im}
}

// FromComplex returns c as a complex Number.
func FromComplex(c complex128) Number {
	return ComplexNumber(real(c), imag(c))
}

func builtinNumber(name string) Number {
	return Number{kind: KindBuiltin, fn: name}
}

// Kind returns the domain of n.
func (n Number) Kind() Kind {
	return n.kind
}

// Real returns the real part of n.
func (n Number) Real() float64 {
	return n.re
}

// Imag returns the imaginary part of n, which is 0 for reals.
func (n Number) Imag() float64 {
	return n.im
}

// Float64 returns n as a float64. The second result is false if n is not
// real.
func (n Number) Float64() (float64, bool) {
	return n.re, n.kind == KindReal
}

// Complex128 returns n as a complex128. Reals have zero imaginary part.
func (n Number) Complex128() complex128 {
	return complex(n.re, n.im)
}

// Builtin returns the name of the function n refers to, if n is KindBuiltin.
func (n Number) Builtin() (string, bool) {
	return n.fn, n.kind == KindBuiltin
}

// String formats n so that parsing and evaluating the result gives n again.
// Integral reals print without a fraction, complex numbers print as "(3+4j)"
// or "4j", and non-finite values print as inf, -inf, or nan.
func (n Number) String() string {
	switch n.kind {
	case KindReal:
		return fmtfloat(n.re)
	case KindComplex:
		im := fmtfloat(n.im) + "j"
		if n.re == 0 && !math.Signbit(n.re) {
			return im
		}
		if !strings.HasPrefix(im, "-") {
			im = "+" + im
		}
		return "(" + fmtfloat(n.re) + im + ")"
	case KindBuiltin:
		return "<function " + n.fn + ">"
	default:
		return "%!(" + n.kind.String() + ")"
	}
}

// fmtfloat formats x in positional notation unless it is very large or very
// small.
func fmtfloat(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "nan"
	}
	if a := math.Abs(x); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// MarshalText encodes n in a form that UnmarshalText decodes exactly. A
// complex number with zero imaginary part is encoded as a real.
func (n Number) MarshalText() ([]byte, error) {
	switch n.kind {
	case KindReal:
		return strconv.AppendFloat(nil, n.re, 'g', -1, 64), nil
	case KindComplex:
		if n.im == 0 {
			return strconv.AppendFloat(nil, n.re, 'g', -1, 64), nil
		}
		return []byte(strconv.FormatComplex(n.Complex128(), 'g', -1, 128)), nil
	default:
		return nil, errors.New("calc: cannot encode " + n.String())
	}
}

// UnmarshalText decodes a real or complex number as produced by MarshalText.
// Out of range values decode to infinities.
func (n *Number) UnmarshalText(text []byte) error {
	s := string(text)
	x, err := strconv.ParseFloat(s, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		*n = RealNumber(x)
		return nil
	}
	c, err := strconv.ParseComplex(s, 128)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return err
	}
	*n = FromComplex(c)
	return nil
}

// MarshalJSON encodes finite reals as JSON numbers and everything else as a
// JSON string holding the MarshalText form.
func (n Number) MarshalJSON() ([]byte, error) {
	b, err := n.MarshalText()
	if err != nil {
		return nil, err
	}
	if (n.kind == KindReal || n.im == 0) && !math.IsInf(n.re, 0) && !math.IsNaN(n.re) {
		return b, nil
	}
	return strconv.AppendQuote(nil, string(b)), nil
}

// UnmarshalJSON decodes either form written by MarshalJSON.
func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		b = []byte(s)
	}
	return n.UnmarshalText(b)
}
