package calc_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestNumberString(t *testing.T) {
	cases := []struct {
		n    calc.Number
		want string
	}{
		{calc.RealNumber(0), "0"},
		{calc.RealNumber(4), "4"},
		{calc.RealNumber(-2.5), "-2.5"},
		{calc.RealNumber(0.1), "0.1"},
		{calc.RealNumber(1e20), "1e+20"},
		{calc.RealNumber(1e-7), "1e-07"},
		{calc.RealNumber(123456789012345), "123456789012345"},
		{calc.RealNumber(math.Inf(1)), "inf"},
		{calc.RealNumber(math.Inf(-1)), "-inf"},
		{calc.RealNumber(math.NaN()), "nan"},
		{calc.ComplexNumber(3, 4), "(3+4j)"},
		{calc.ComplexNumber(3, -4), "(3-4j)"},
		{calc.ComplexNumber(0, 4), "4j"},
		{calc.ComplexNumber(0, -1), "-1j"},
		{calc.ComplexNumber(math.Copysign(0, -1), 1), "(-0+1j)"},
		{calc.ComplexNumber(1, 0), "(1+0j)"},
		{calc.ComplexNumber(1, math.Inf(1)), "(1+infj)"},
		{calc.ComplexNumber(math.NaN(), math.NaN()), "(nan+nanj)"},
	}
	for _, c := range cases {
		if got := c.n.String(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}

func TestNumberAccessors(t *testing.T) {
	r := calc.RealNumber(2)
	if x, ok := r.Float64(); !ok || x != 2 {
		t.Errorf("real Float64: got %v, %t", x, ok)
	}
	if r.Complex128() != 2 || r.Imag() != 0 || r.Kind() != calc.KindReal {
		t.Errorf("wrong real %v", r)
	}
	z := calc.FromComplex(1 - 2i)
	if _, ok := z.Float64(); ok {
		t.Errorf("complex Float64 reported real")
	}
	if z.Real() != 1 || z.Imag() != -2 || z.Kind() != calc.KindComplex {
		t.Errorf("wrong complex %v", z)
	}
	if name, ok := z.Builtin(); ok || name != "" {
		t.Errorf("complex Builtin: got %q, %t", name, ok)
	}
}

func TestBuiltinNumber(t *testing.T) {
	f, err := calc.EvalString("sqrt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if name, ok := f.Builtin(); !ok || name != "sqrt" {
		t.Errorf("want builtin sqrt, got %q, %t", name, ok)
	}
	if f.String() != "<function sqrt>" {
		t.Errorf("wrong format %q", f)
	}
	if _, err := f.MarshalText(); err == nil {
		t.Error("builtin encoded as text")
	}
	if _, err := json.Marshal(f); err == nil {
		t.Error("builtin encoded as JSON")
	}
}

func TestNumberText(t *testing.T) {
	cases := []struct {
		n    calc.Number
		text string
	}{
		{calc.RealNumber(0.1), "0.1"},
		{calc.RealNumber(-3), "-3"},
		{calc.RealNumber(1e300), "1e+300"},
		{calc.RealNumber(math.Inf(-1)), "-Inf"},
		{calc.ComplexNumber(1, 2), "(1+2i)"},
		{calc.ComplexNumber(0.5, -0.25), "(0.5-0.25i)"},
		// Zero imaginary part is stored as a real.
		{calc.ComplexNumber(7, 0), "7"},
	}
	for _, c := range cases {
		b, err := c.n.MarshalText()
		if err != nil {
			t.Errorf("%v: %v", c.n, err)
			continue
		}
		if string(b) != c.text {
			t.Errorf("%v: want %q, got %q", c.n, c.text, b)
		}
		var n calc.Number
		if err := n.UnmarshalText(b); err != nil {
			t.Errorf("%v: decoding %q: %v", c.n, b, err)
			continue
		}
		if n.Complex128() != c.n.Complex128() {
			t.Errorf("%v: decoded as %v", c.n, n)
		}
	}

	var n calc.Number
	if err := n.UnmarshalText([]byte("1e999")); err != nil || n != calc.RealNumber(math.Inf(1)) {
		t.Errorf("1e999 decoded as %v, %v", n, err)
	}
	if err := n.UnmarshalText([]byte("x")); err == nil {
		t.Errorf("x decoded as %v", n)
	}
}

func TestNumberJSON(t *testing.T) {
	vars := map[string]calc.Number{
		"a": calc.RealNumber(1.5),
		"b": calc.ComplexNumber(0, 1),
		"c": calc.RealNumber(math.Inf(1)),
		"d": calc.ComplexNumber(2, 0),
	}
	b, err := json.Marshal(vars)
	if err != nil {
		t.Fatal(err)
	}
	const want = `{"a":1.5,"b":"(0+1i)","c":"+Inf","d":2}`
	if string(b) != want {
		t.Errorf("want %s, got %s", want, b)
	}
	var got map[string]calc.Number
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	for k, v := range vars {
		if got[k].Complex128() != v.Complex128() {
			t.Errorf("%s: want %v, got %v", k, v, got[k])
		}
	}
	if got["d"].Kind() != calc.KindReal {
		t.Errorf("d decoded as %v", got["d"].Kind())
	}
	if err := json.Unmarshal([]byte(`{"x":true}`), &got); err == nil {
		t.Error("decoded a boolean")
	}
}
