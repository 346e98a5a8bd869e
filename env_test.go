package calc_test

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/zephyrtronium/calc"
)

func names(vars []calc.Var) []string {
	r := make([]string, len(vars))
	for i, v := range vars {
		r[i] = v.Name
	}
	return r
}

func TestEnvOrder(t *testing.T) {
	env := calc.NewEnv(
		calc.SetVar("z", calc.RealNumber(1)),
		calc.SetVars(map[string]calc.Number{"b": calc.RealNumber(2), "a": calc.RealNumber(3)}),
	)
	if err := env.Set("m", calc.RealNumber(4)); err != nil {
		t.Fatal(err)
	}
	if err := env.Set("z", calc.RealNumber(5)); err != nil {
		t.Fatal(err)
	}
	want := []string{"z", "a", "b", "m"}
	if got := names(env.UserVars()); !slices.Equal(got, want) {
		t.Errorf("want order %v, got %v", want, got)
	}
	if v, _ := env.Lookup("z"); v != calc.RealNumber(5) {
		t.Errorf("z is %v after reassignment", v)
	}
	if !env.Delete("a") {
		t.Error("deleting a reported no variable")
	}
	if env.Delete("a") {
		t.Error("deleting a twice reported a variable")
	}
	want = []string{"z", "b", "m"}
	if got := names(env.UserVars()); !slices.Equal(got, want) {
		t.Errorf("want order %v after delete, got %v", want, got)
	}
}

func TestEnvShadowConstant(t *testing.T) {
	env := calc.NewEnv()
	if len(env.UserVars()) != 0 {
		t.Errorf("new env has variables %v", env.UserVars())
	}
	if v, ok := env.Lookup("pi"); !ok || v != calc.RealNumber(math.Pi) {
		t.Errorf("pi is %v, %t", v, ok)
	}
	env.Set("pi", calc.RealNumber(3))
	if r, err := calc.EvalString("pi * 2", env); err != nil || r != calc.RealNumber(6) {
		t.Errorf("shadowed pi*2 gave %v, %v", r, err)
	}
	if env.Delete("pi") != true {
		t.Error("could not delete shadowing pi")
	}
	if v, _ := env.Lookup("pi"); v != calc.RealNumber(math.Pi) {
		t.Errorf("pi is %v after deleting shadow", v)
	}
	if env.Delete("e") {
		t.Error("deleted constant e")
	}
}

func TestEnvSetBuiltin(t *testing.T) {
	env := calc.NewEnv()
	f, err := calc.EvalString("cos", env)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Set("c", f); !errors.Is(err, calc.ErrAssignBuiltin) {
		t.Errorf("want ErrAssignBuiltin, got %v", err)
	}
	e, _ := calc.ParseString("sin")
	if _, err := env.Assign("s", e); !errors.Is(err, calc.ErrAssignBuiltin) {
		t.Errorf("want ErrAssignBuiltin from Assign, got %v", err)
	}
	if len(env.UserVars()) != 0 {
		t.Errorf("failed assignments left %v", env.UserVars())
	}
}

func TestEnvAssign(t *testing.T) {
	env := calc.NewEnv(calc.SetVar("x", calc.RealNumber(2)))
	e, err := calc.ParseString("x**3 + 1")
	if err != nil {
		t.Fatal(err)
	}
	v, err := env.Assign("y", e)
	if err != nil || v != calc.RealNumber(9) {
		t.Fatalf("y = %v, %v", v, err)
	}
	if got, _ := env.Lookup("y"); got != v {
		t.Errorf("y stored as %v", got)
	}
	e, _ = calc.ParseString("x / 0")
	if _, err := env.Assign("y", e); err == nil {
		t.Error("no error assigning x/0")
	}
	if got, _ := env.Lookup("y"); got != v {
		t.Errorf("failed assignment changed y to %v", got)
	}
}

func TestEnvClone(t *testing.T) {
	a := calc.NewEnv(calc.SetVar("x", calc.RealNumber(1)))
	b := a.Clone(calc.SetVar("y", calc.RealNumber(2)))
	b.Set("x", calc.RealNumber(3))
	a.Set("z", calc.RealNumber(4))
	if got := names(a.UserVars()); !slices.Equal(got, []string{"x", "z"}) {
		t.Errorf("original has %v", got)
	}
	if got := names(b.UserVars()); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("clone has %v", got)
	}
	if v, _ := a.Lookup("x"); v != calc.RealNumber(1) {
		t.Errorf("clone modified original x to %v", v)
	}
}

func TestEnvFuncs(t *testing.T) {
	base := calc.NewEnv()
	env := base.Clone(calc.WithFuncs(map[string]calc.Func{
		"double": calc.Monadic(func(x float64) float64 { return 2 * x }),
		"sqrt":   nil,
	}))
	if _, ok := env.Func("double"); !ok {
		t.Error("no double in new env")
	}
	if _, ok := env.Func("sqrt"); ok {
		t.Error("sqrt still in new env")
	}
	if _, ok := base.Func("sqrt"); !ok {
		t.Error("removing sqrt from a clone removed it from the original")
	}
	if _, ok := base.Func("double"); ok {
		t.Error("adding double to a clone added it to the original")
	}
	if !slices.IsSorted(env.FuncNames()) {
		t.Errorf("function names not sorted: %v", env.FuncNames())
	}
	if slices.Contains(env.FuncNames(), "sqrt") || !slices.Contains(env.FuncNames(), "double") {
		t.Errorf("wrong function names %v", env.FuncNames())
	}
}

func TestEnvOptionPanics(t *testing.T) {
	f, _ := calc.EvalString("abs", nil)
	defer func() {
		if recover() == nil {
			t.Error("no panic setting a builtin through an option")
		}
	}()
	calc.NewEnv(calc.SetVar("f", f))
}

func TestZeroEnv(t *testing.T) {
	var env calc.Env
	if len(env.UserVars()) != 0 || env.Delete("x") {
		t.Error("zero Env has variables")
	}
	if v, ok := env.Lookup("tau"); !ok || v != calc.RealNumber(2*math.Pi) {
		t.Errorf("zero Env tau is %v, %t", v, ok)
	}
	if !slices.Equal(env.FuncNames(), calc.NewEnv().FuncNames()) {
		t.Error("zero Env has different functions")
	}
	if err := env.Set("x", calc.RealNumber(1)); err != nil {
		t.Fatal(err)
	}
	c := env.Clone()
	if got := names(c.UserVars()); !slices.Equal(got, []string{"x"}) {
		t.Errorf("clone of zero Env has %v", got)
	}
}
