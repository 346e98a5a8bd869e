package calc

import (
	"math"
)

// unary applies a unary operator.
func unary(op nodeKind, x Number) (Number, error) {
	switch x.kind {
	case KindReal:
		if op == nodeNeg {
			return RealNumber(-x.re), nil
		}
		return x, nil
	case KindComplex:
		if op == nodeNeg {
			return ComplexNumber(-x.re, -x.im), nil
		}
		return x, nil
	}
	return Number{}, &OperandError{Op: op.symbol(), X: x.kind, Unary: true}
}

// binary applies a binary operator. Reals combine to reals except where
// exponentiation leaves the reals. If either operand is complex, the other is
// promoted.
func binary(op nodeKind, x, y Number) (Number, error) {
	if x.kind == KindBuiltin || y.kind == KindBuiltin {
		return Number{}, &OperandError{Op: op.symbol(), X: x.kind, Y: y.kind}
	}
	if x.kind == KindReal && y.kind == KindReal {
		return realop(op, x.re, y.re)
	}
	switch op {
	case nodeMod, nodeFloorDiv:
		return Number{}, &OperandError{Op: op.symbol(), X: x.kind, Y: y.kind}
	}
	r, err := complexop(op, x.Complex128(), y.Complex128())
	if err != nil {
		return Number{}, err
	}
	return FromComplex(r), nil
}

func realop(op nodeKind, x, y float64) (Number, error) {
	switch op {
	case nodeAdd:
		return RealNumber(x + y), nil
	case nodeSub:
		return RealNumber(x - y), nil
	case nodeMul:
		return RealNumber(x * y), nil
	case nodeDiv:
		if y == 0 {
			return Number{}, &DivisionByZeroError{Op: "/"}
		}
		return RealNumber(x / y), nil
	case nodeMod:
		if y == 0 {
			return Number{}, &DivisionByZeroError{Op: "%"}
		}
		return RealNumber(floormod(x, y)), nil
	case nodeFloorDiv:
		if y == 0 {
			return Number{}, &DivisionByZeroError{Op: "//"}
		}
		return RealNumber(floordiv(x, y)), nil
	case nodePow:
		return realpow(x, y)
	default:
		panic("calc: realop on " + op.String())
	}
}

func complexop(op nodeKind, x, y complex128) (complex128, error) {
	switch op {
	case nodeAdd:
		return x + y, nil
	case nodeSub:
		return x - y, nil
	case nodeMul:
		return x * y, nil
	case nodeDiv:
		if y == 0 {
			return 0, &DivisionByZeroError{Op: "/"}
		}
		return x / y, nil
	case nodePow:
		return complexpow(x, y)
	default:
		panic("calc: complexop on " + op.String())
	}
}

// floormod is x mod y with the sign of y.
func floormod(x, y float64) float64 {
	mod := math.Mod(x, y)
	if mod != 0 {
		if (y < 0) != (mod < 0) {
			mod += y
		}
	} else {
		mod = math.Copysign(0, y)
	}
	return mod
}

// floordiv is x/y rounded toward negative infinity, consistent with floormod
// so that floordiv(x, y)*y + floormod(x, y) is approximately x.
func floordiv(x, y float64) float64 {
	mod := math.Mod(x, y)
	div := (x - mod) / y
	if mod != 0 && (y < 0) != (mod < 0) {
		div--
	}
	if div == 0 {
		return math.Copysign(0, x/y)
	}
	fd := math.Floor(div)
	if div-fd > 0.5 {
		fd++
	}
	return fd
}

// realpow is x**y. A negative finite base with a non-integer exponent gives
// the principal complex root. Overflow gives an infinity.
func realpow(x, y float64) (Number, error) {
	switch {
	case y == 0:
		return RealNumber(1), nil
	case math.IsNaN(x), math.IsNaN(y), math.IsInf(x, 0), math.IsInf(y, 0):
		return RealNumber(math.Pow(x, y)), nil
	case x == 0 && y < 0:
		return Number{}, &DivisionByZeroError{Op: "**"}
	case x < 0 && y != math.Trunc(y):
		r, err := complexpow(complex(x, 0), complex(y, 0))
		if err != nil {
			return Number{}, err
		}
		return FromComplex(r), nil
	}
	return RealNumber(math.Pow(x, y)), nil
}

// complexpow is x**y for complex operands. Small integer exponents use
// repeated multiplication so that e.g. 1j**2 is exactly -1.
func complexpow(x, y complex128) (complex128, error) {
	if y == 0 {
		return 1, nil
	}
	if imag(y) == 0 && real(y) == math.Trunc(real(y)) && math.Abs(real(y)) <= 100 {
		n := int(real(y))
		if n >= 0 {
			return powu(x, n), nil
		}
		d := powu(x, -n)
		if d == 0 {
			return 0, &DivisionByZeroError{Op: "**"}
		}
		return 1 / d, nil
	}
	if x == 0 {
		if real(y) < 0 || imag(y) != 0 {
			return 0, &DivisionByZeroError{Op: "**"}
		}
		return 0, nil
	}
	vabs := math.Hypot(real(x), imag(x))
	l := math.Pow(vabs, real(y))
	at := math.Atan2(imag(x), real(x))
	phase := at * real(y)
	if imag(y) != 0 {
		l /= math.Exp(at * imag(y))
		phase += imag(y) * math.Log(vabs)
	}
	return complex(l*math.Cos(phase), l*math.Sin(phase)), nil
}

// powu is x**n by binary exponentiation.
func powu(x complex128, n int) complex128 {
	r := complex128(1)
	p := x
	for mask := 1; mask > 0 && n >= mask; mask <<= 1 {
		if n&mask != 0 {
			r *= p
		}
		p *= p
	}
	return r
}
