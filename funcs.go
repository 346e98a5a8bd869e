package calc

import (
	"errors"
	"math"
	"math/big"
	"math/cmplx"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function callable from expressions.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not modify args. Errors are reported to the
	// caller wrapped in a *FuncError.
	Call(args []Number) (Number, error)

	// CanCall returns whether the function can be called with n arguments.
	// The evaluator reports an *ArityError without calling the function
	// otherwise.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	// trig
	"sin":   Monadic(math.Sin),
	"cos":   Monadic(math.Cos),
	"tan":   Monadic(math.Tan),
	"asin":  Monadic(math.Asin),
	"acos":  Monadic(math.Acos),
	"atan":  Monadic(math.Atan),
	"atan2": Dyadic(math.Atan2),

	// hyperbolic
	"sinh":  Monadic(math.Sinh),
	"cosh":  Monadic(math.Cosh),
	"tanh":  Monadic(math.Tanh),
	"asinh": Monadic(math.Asinh),
	"acosh": Monadic(math.Acosh),
	"atanh": monadic{math.Atanh, true},

	// exponents and logarithms
	"exp":   realfn{exp},
	"exp2":  Monadic(math.Exp2),
	"expm1": Monadic(math.Expm1),
	"log":   funcOf{arity(1, 2), logfn},
	"log10": realfn{func(x float64) (float64, error) { return logb(x, 10) }},
	"log2":  realfn{func(x float64) (float64, error) { return logb(x, 2) }},
	"log1p": monadic{math.Log1p, true},
	"sqrt":  Monadic(math.Sqrt),
	"cbrt":  Monadic(math.Cbrt),
	"pow":   funcOf{arity(2), func(args []Number) (Number, error) { return binary(nodePow, args[0], args[1]) }},
	"hypot": Variadic(hypot),

	// rounding and miscellany
	"ceil":      Monadic(math.Ceil),
	"floor":     Monadic(math.Floor),
	"trunc":     Monadic(math.Trunc),
	"fabs":      Monadic(math.Abs),
	"fmod":      Dyadic(math.Mod),
	"copysign":  Dyadic(math.Copysign),
	"remainder": Dyadic(math.Remainder),
	"degrees":   Monadic(func(x float64) float64 { return x * (180 / math.Pi) }),
	"radians":   Monadic(func(x float64) float64 { return x * (math.Pi / 180) }),
	"factorial": realfn{factorial},
	"gcd":       Variadic(gcd),
	"lcm":       Variadic(lcm),
	"erf":       Monadic(math.Erf),
	"erfc":      Monadic(math.Erfc),
	"gamma":     realfn{gamma},
	"lgamma":    realfn{lgamma},
	"abs":       funcOf{arity(1), abs},
	"round":     funcOf{arity(1, 2), round},
	"isinf":     realfn{func(x float64) (float64, error) { return truth(math.IsInf(x, 0)), nil }},

	// complex
	"phase":    funcOf{arity(1), phase},
	"polar":    ComplexMonadic(func(z complex128) complex128 { return complex(cmplx.Abs(z), cmplx.Phase(z)) }),
	"rect":     funcOf{arity(2), rect},
	"isfinite": funcOf{arity(1), isfinite},
	"isnan":    funcOf{arity(1), isnan},
	"complex":  funcOf{arity(0, 1, 2), mkcomplex},
	"re":       funcOf{arity(1), re},
	"im":       funcOf{arity(1), im},
	"conj":     funcOf{arity(1), conj},
}

// realArg returns args[i] as a float64, or an *ArgTypeError if it is not
// real.
func realArg(args []Number, i int) (float64, error) {
	x, ok := args[i].Float64()
	if !ok {
		return 0, &ArgTypeError{Arg: i + 1, Want: KindReal, Got: args[i].kind}
	}
	return x, nil
}

// complexArg returns args[i] as a complex128. Reals are promoted.
func complexArg(args []Number, i int) (complex128, error) {
	if args[i].kind == KindBuiltin {
		return 0, &ArgTypeError{Arg: i + 1, Want: KindComplex, Got: args[i].kind}
	}
	return args[i].Complex128(), nil
}

// realArgs converts all of args to float64.
func realArgs(args []Number) ([]float64, error) {
	xs := make([]float64, len(args))
	for i := range args {
		x, err := realArg(args, i)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

// checked applies the error rules of the real math functions to the result r
// of a call with arguments xs: NaN from non-NaN arguments is a domain error,
// and an infinity from finite arguments is a range error, or a domain error
// if pole is true.
func checked(r float64, pole bool, xs ...float64) (Number, error) {
	switch {
	case math.IsNaN(r):
		for _, x := range xs {
			if math.IsNaN(x) {
				return RealNumber(r), nil
			}
		}
		return Number{}, domainError(xs)
	case math.IsInf(r, 0):
		for _, x := range xs {
			if math.IsInf(x, 0) || math.IsNaN(x) {
				return RealNumber(r), nil
			}
		}
		if pole {
			return Number{}, domainError(xs)
		}
		return Number{}, &RangeError{}
	}
	return RealNumber(r), nil
}

func domainError(xs []float64) *DomainError {
	if len(xs) == 1 {
		return &DomainError{X: RealNumber(xs[0]), Arg: 1}
	}
	return &DomainError{}
}

// arity returns a function reporting whether its argument is one of ns.
func arity(ns ...int) func(int) bool {
	return func(n int) bool {
		for _, k := range ns {
			if n == k {
				return true
			}
		}
		return false
	}
}

type funcOf struct {
	can func(int) bool
	f   func(args []Number) (Number, error)
}

func (f funcOf) Call(args []Number) (Number, error) {
	return f.f(args)
}

func (f funcOf) CanCall(n int) bool {
	return f.can(n)
}

type monadic struct {
	f func(float64) float64
	// pole is whether an infinite result from a finite argument means the
	// argument is a pole rather than that the result overflowed.
	pole bool
}

func (m monadic) Call(args []Number) (Number, error) {
	x, err := realArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return checked(m.f(x), m.pole, x)
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a real function of one variable into a Func. A NaN result
// from a non-NaN argument becomes a *DomainError, and an infinite result from
// a finite argument becomes a *RangeError. Complex arguments are rejected
// with an *ArgTypeError.
func Monadic(f func(float64) float64) Func {
	return monadic{f: f}
}

type dyadic struct {
	f func(x, y float64) float64
}

func (d dyadic) Call(args []Number) (Number, error) {
	x, err := realArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	y, err := realArg(args, 1)
	if err != nil {
		return Number{}, err
	}
	return checked(d.f(x, y), false, x, y)
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a real function of two variables into a Func, with the same
// error rules as Monadic.
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic{f}
}

type variadic struct {
	f func(xs []float64) (float64, error)
}

func (v variadic) Call(args []Number) (Number, error) {
	xs, err := realArgs(args)
	if err != nil {
		return Number{}, err
	}
	r, err := v.f(xs)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(r), nil
}

func (variadic) CanCall(n int) bool {
	return n >= 0
}

// Variadic wraps a real function of any number of variables into a Func.
func Variadic(f func(xs []float64) (float64, error)) Func {
	return variadic{f}
}

type complexMonadic struct {
	f func(complex128) complex128
}

func (c complexMonadic) Call(args []Number) (Number, error) {
	z, err := complexArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return FromComplex(c.f(z)), nil
}

func (complexMonadic) CanCall(n int) bool {
	return n == 1
}

// ComplexMonadic wraps a complex function of one variable into a Func. Real
// arguments are promoted, and the result is always complex.
func ComplexMonadic(f func(complex128) complex128) Func {
	return complexMonadic{f}
}

// realfn is a real function of one variable that reports its own errors.
type realfn struct {
	f func(float64) (float64, error)
}

func (r realfn) Call(args []Number) (Number, error) {
	x, err := realArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	y, err := r.f(x)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(y), nil
}

func (realfn) CanCall(n int) bool {
	return n == 1
}

// bigprec is the precision of the arbitrary precision exp and log family.
// Results are rounded to float64, so exact cases like log10(1000) come out
// exact.
const bigprec = 128

func bigf(x float64) *big.Float {
	return new(big.Float).SetPrec(bigprec).SetFloat64(x)
}

// bigcall calls f, turning a big.ErrNaN panic from an out-of-domain argument
// into a DomainError for x.
func bigcall(x float64, f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if !ok || !errors.As(e, &big.ErrNaN{}) {
			panic(r)
		}
		err = &DomainError{X: RealNumber(x), Arg: 1}
	}()
	f()
	return nil
}

func exp(x float64) (float64, error) {
	switch {
	case math.IsNaN(x), math.IsInf(x, 0):
		return math.Exp(x), nil
	case x == 0:
		return 1, nil
	case x > 710:
		return 0, &RangeError{X: RealNumber(x), Arg: 1}
	case x < -746:
		return 0, nil
	}
	r := new(big.Float).SetPrec(bigprec)
	if err := bigcall(x, func() { bigfloat.Exp(r, bigf(x)) }); err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	if math.IsInf(f, 0) {
		return 0, &RangeError{X: RealNumber(x), Arg: 1}
	}
	return f, nil
}

// ln computes the natural logarithm of x to bigprec bits. x must be positive
// and finite.
func ln(x float64) (*big.Float, error) {
	r := new(big.Float).SetPrec(bigprec)
	if x == 1 {
		return r, nil
	}
	err := bigcall(x, func() { bigfloat.Log(r, bigf(x)) })
	return r, err
}

func logfn(args []Number) (Number, error) {
	x, err := realArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	if len(args) == 1 {
		switch {
		case math.IsNaN(x), math.IsInf(x, 1):
			return RealNumber(x), nil
		case x <= 0:
			return Number{}, &DomainError{X: args[0], Arg: 1}
		}
		l, err := ln(x)
		if err != nil {
			return Number{}, err
		}
		r, _ := l.Float64()
		return RealNumber(r), nil
	}
	b, err := realArg(args, 1)
	if err != nil {
		return Number{}, err
	}
	r, err := logb(x, b)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(r), nil
}

// logb computes the base b logarithm of x. The quotient is formed at bigprec
// bits before rounding.
func logb(x, b float64) (float64, error) {
	switch {
	case math.IsNaN(x), math.IsNaN(b):
		return math.NaN(), nil
	case x <= 0:
		return 0, &DomainError{X: RealNumber(x), Arg: 1}
	case b <= 0, b == 1:
		return 0, &DomainError{X: RealNumber(b), Arg: 2}
	case math.IsInf(x, 1), math.IsInf(b, 1):
		return math.Log(x) / math.Log(b), nil
	}
	lx, err := ln(x)
	if err != nil {
		return 0, err
	}
	lb, err := ln(b)
	if err != nil {
		return 0, err
	}
	r, _ := new(big.Float).SetPrec(bigprec).Quo(lx, lb).Float64()
	return r, nil
}

func hypot(xs []float64) (float64, error) {
	r := 0.0
	for _, x := range xs {
		r = math.Hypot(r, x)
	}
	return r, nil
}

// integral reports whether x is an integer exactly representable as a
// float64.
func integral(x float64) bool {
	return x == math.Trunc(x) && math.Abs(x) <= 1<<53
}

func factorial(x float64) (float64, error) {
	if !integral(x) || x < 0 {
		return 0, &DomainError{X: RealNumber(x), Arg: 1}
	}
	if x > 170 {
		return 0, &RangeError{X: RealNumber(x), Arg: 1}
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r, nil
}

func gcd2(a, b float64) float64 {
	a, b = math.Abs(a), math.Abs(b)
	for b != 0 {
		a, b = b, math.Mod(a, b)
	}
	return a
}

func gcd(xs []float64) (float64, error) {
	r := 0.0
	for i, x := range xs {
		if !integral(x) {
			return 0, &DomainError{X: RealNumber(x), Arg: i + 1}
		}
		r = gcd2(r, x)
	}
	return r, nil
}

func lcm(xs []float64) (float64, error) {
	r := 1.0
	for i, x := range xs {
		if !integral(x) {
			return 0, &DomainError{X: RealNumber(x), Arg: i + 1}
		}
		if x == 0 || r == 0 {
			r = 0
			continue
		}
		r = math.Abs(r / gcd2(r, x) * x)
		if r > 1<<53 {
			return 0, &RangeError{}
		}
	}
	return r, nil
}

func gamma(x float64) (float64, error) {
	if x <= 0 && x == math.Trunc(x) {
		return 0, &DomainError{X: RealNumber(x), Arg: 1}
	}
	r, err := checked(math.Gamma(x), false, x)
	return r.re, err
}

func lgamma(x float64) (float64, error) {
	if x <= 0 && x == math.Trunc(x) {
		return 0, &DomainError{X: RealNumber(x), Arg: 1}
	}
	l, _ := math.Lgamma(x)
	r, err := checked(l, false, x)
	return r.re, err
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func abs(args []Number) (Number, error) {
	switch args[0].kind {
	case KindReal:
		return RealNumber(math.Abs(args[0].re)), nil
	case KindComplex:
		z := args[0].Complex128()
		return checked(cmplx.Abs(z), false, real(z), imag(z))
	}
	return Number{}, &ArgTypeError{Arg: 1, Want: KindComplex, Got: args[0].kind}
}

// round rounds half to even, to a number of decimal digits if given.
func round(args []Number) (Number, error) {
	x, err := realArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	if len(args) == 1 {
		return RealNumber(math.RoundToEven(x)), nil
	}
	nd, err := realArg(args, 1)
	if err != nil {
		return Number{}, err
	}
	if !integral(nd) {
		return Number{}, &DomainError{X: args[1], Arg: 2}
	}
	switch {
	case x == 0, math.IsInf(x, 0), math.IsNaN(x), nd > 323:
		return RealNumber(x), nil
	case nd >= 0:
		// Decimal formatting rounds the exact binary value correctly.
		r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', int(nd), 64), 64)
		return RealNumber(r), nil
	case nd < -308:
		return RealNumber(math.Copysign(0, x)), nil
	}
	p := math.Pow(10, -nd)
	return checked(math.RoundToEven(x/p)*p, false, x)
}

func phase(args []Number) (Number, error) {
	z, err := complexArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(cmplx.Phase(z)), nil
}

func rect(args []Number) (Number, error) {
	r, err := realArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	phi, err := realArg(args, 1)
	if err != nil {
		return Number{}, err
	}
	if phi == 0 {
		// Avoid inf*0 in the imaginary part.
		return ComplexNumber(r, phi), nil
	}
	s, c := math.Sincos(phi)
	return ComplexNumber(r*c, r*s), nil
}

func isfinite(args []Number) (Number, error) {
	z, err := complexArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(truth(!cmplx.IsInf(z) && !cmplx.IsNaN(z))), nil
}

func isnan(args []Number) (Number, error) {
	z, err := complexArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(truth(math.IsNaN(real(z)) || math.IsNaN(imag(z)))), nil
}

// mkcomplex is complex(x, y) = x + y*1j, where x and y may themselves be
// complex.
func mkcomplex(args []Number) (Number, error) {
	var x, y complex128
	var err error
	if len(args) > 0 {
		if x, err = complexArg(args, 0); err != nil {
			return Number{}, err
		}
	}
	if len(args) > 1 {
		if y, err = complexArg(args, 1); err != nil {
			return Number{}, err
		}
	}
	return ComplexNumber(real(x)-imag(y), imag(x)+real(y)), nil
}

func re(args []Number) (Number, error) {
	z, err := complexArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(real(z)), nil
}

func im(args []Number) (Number, error) {
	z, err := complexArg(args, 0)
	if err != nil {
		return Number{}, err
	}
	return RealNumber(imag(z)), nil
}

func conj(args []Number) (Number, error) {
	switch args[0].kind {
	case KindReal:
		return args[0], nil
	case KindComplex:
		return ComplexNumber(args[0].re, -args[0].im), nil
	}
	return Number{}, &ArgTypeError{Arg: 1, Want: KindComplex, Got: args[0].kind}
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument, if known.
	X Number
	// Arg is the 1-based index of the argument, or 0 if unknown.
	Arg int
}

func (err *DomainError) Error() string {
	r := "math domain error"
	if err.Arg > 0 {
		r += ": " + err.X.String() + " outside domain (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// RangeError is an error returned when a function result is too large to
// represent.
type RangeError struct {
	// X is the argument that caused the overflow, if known.
	X Number
	// Arg is the 1-based index of the argument, or 0 if unknown.
	Arg int
}

func (err *RangeError) Error() string {
	r := "math range error"
	if err.Arg > 0 {
		r += ": result overflows at " + err.X.String() + " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// ArityError is an error indicating a call with a number of arguments the
// function does not accept.
type ArityError struct {
	// Got is the number of arguments.
	Got int
}

func (err *ArityError) Error() string {
	return "cannot call with " + strconv.Itoa(err.Got) + " arguments"
}

// ArgTypeError is an error indicating an argument of the wrong kind, e.g. a
// complex argument to a real function.
type ArgTypeError struct {
	// Arg is the 1-based index of the argument.
	Arg int
	// Want is the kind the function accepts. KindComplex means reals are
	// accepted as well.
	Want Kind
	// Got is the kind of the argument.
	Got Kind
}

func (err *ArgTypeError) Error() string {
	return "argument " + strconv.Itoa(err.Arg) + " must be " + err.Want.String() + ", not " + err.Got.String()
}
