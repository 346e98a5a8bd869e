package calc

import (
	"errors"
	"math"
	"slices"

	"github.com/elliotchance/orderedmap/v2"
)

// Env is an environment for evaluating expressions. It holds user variables,
// the constants, and the function table. Evaluation never modifies an Env;
// only Set, Assign, and Delete do. It is not safe to modify an Env
// concurrently with any other use. The zero Env is equivalent to NewEnv().
type Env struct {
	vars   *orderedmap.OrderedMap[string, Number]
	consts map[string]Number
	funcs  map[string]Func
}

// Var is a user variable and its value.
type Var struct {
	Name  string
	Value Number
}

// constants are the names available in every Env. A user variable of the same
// name shadows a constant.
var constants = map[string]Number{
	"pi":  RealNumber(math.Pi),
	"e":   RealNumber(math.E),
	"tau": RealNumber(2 * math.Pi),
	"inf": RealNumber(math.Inf(1)),
	"nan": RealNumber(math.NaN()),
	"i":   ComplexNumber(0, 1),
	"j":   ComplexNumber(0, 1),
}

// EnvOption is an option used when creating an Env.
type EnvOption interface {
	envOption()
}

type (
	varopt struct {
		name string
		val  Number
	}
	varsopt  map[string]Number
	funcsopt map[string]Func
)

func (varopt) envOption()   {}
func (varsopt) envOption()  {}
func (funcsopt) envOption() {}

// SetVar sets the value of a variable in the Env.
func SetVar(name string, val Number) EnvOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the Env. They are
// added in sorted order of name.
func SetVars(vars map[string]Number) EnvOption {
	return varsopt(vars)
}

// WithFuncs adds functions to the Env, replacing any of the same name. A nil
// Func removes the function of that name.
func WithFuncs(fns map[string]Func) EnvOption {
	return funcsopt(fns)
}

// NewEnv creates a new evaluation Env with the default constants and
// functions. Options that set variables panic if the value is a builtin.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{
		vars:   orderedmap.NewOrderedMap[string, Number](),
		consts: constants,
		funcs:  globalfuncs,
	}
	return env.Clone(opts...)
}

// Clone creates a copy of an Env and applies options to it. Changes to the
// variables of either Env do not affect the other.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		vars:   orderedmap.NewOrderedMap[string, Number](),
		consts: env.constmap(),
		funcs:  env.funcmap(),
	}
	if env.vars != nil {
		for el := env.vars.Front(); el != nil; el = el.Next() {
			n.vars.Set(el.Key, el.Value)
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.mustSet(opt.name, opt.val)
		case varsopt:
			names := make([]string, 0, len(opt))
			for k := range opt {
				names = append(names, k)
			}
			slices.Sort(names)
			for _, k := range names {
				n.mustSet(k, opt[k])
			}
		case funcsopt:
			fns := make(map[string]Func, len(n.funcs)+len(opt))
			for k, v := range n.funcs {
				fns[k] = v
			}
			for k, v := range opt {
				if v == nil {
					delete(fns, k)
					continue
				}
				fns[k] = v
			}
			n.funcs = fns
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// constmap returns the constants of env. A zero Env has the defaults.
func (env *Env) constmap() map[string]Number {
	if env.consts == nil {
		return constants
	}
	return env.consts
}

// funcmap returns the function table of env. A zero Env has the defaults.
func (env *Env) funcmap() map[string]Func {
	if env.funcs == nil {
		return globalfuncs
	}
	return env.funcs
}

func (env *Env) mustSet(name string, val Number) {
	if err := env.Set(name, val); err != nil {
		panic(err)
	}
}

// ErrAssignBuiltin is returned when assigning a function reference to a
// variable.
var ErrAssignBuiltin = errors.New("cannot assign a function to a variable")

// Set sets the value of a user variable. Setting an existing variable keeps
// its position in UserVars. It is an error to set a builtin value. Set does
// not validate the name; use IsIdentifier for that.
func (env *Env) Set(name string, val Number) error {
	if val.kind == KindBuiltin {
		return ErrAssignBuiltin
	}
	if env.vars == nil {
		env.vars = orderedmap.NewOrderedMap[string, Number]()
	}
	env.vars.Set(name, val)
	return nil
}

// Assign evaluates e and stores the result in the variable name. If
// evaluation fails, the Env is unchanged.
func (env *Env) Assign(name string, e *Expr) (Number, error) {
	v, err := e.Eval(env)
	if err != nil {
		return Number{}, err
	}
	if err := env.Set(name, v); err != nil {
		return Number{}, err
	}
	return v, nil
}

// Lookup returns the value of a user variable or constant.
func (env *Env) Lookup(name string) (Number, bool) {
	if env.vars != nil {
		if v, ok := env.vars.Get(name); ok {
			return v, true
		}
	}
	v, ok := env.constmap()[name]
	return v, ok
}

// Func returns the function of a given name.
func (env *Env) Func(name string) (Func, bool) {
	f, ok := env.funcmap()[name]
	return f, ok && f != nil
}

// FuncNames returns the names of all functions in the Env in sorted order.
func (env *Env) FuncNames() []string {
	fns := env.funcmap()
	r := make([]string, 0, len(fns))
	for k := range fns {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// Delete removes a user variable. It reports whether the variable existed.
// Constants cannot be deleted, but deleting a variable that shadows one
// reveals the constant again.
func (env *Env) Delete(name string) bool {
	if env.vars == nil {
		return false
	}
	return env.vars.Delete(name)
}

// UserVars returns the user variables in the order they were first set.
// Constants are not included unless a variable shadows one.
func (env *Env) UserVars() []Var {
	if env.vars == nil {
		return []Var{}
	}
	r := make([]Var, 0, env.vars.Len())
	for el := env.vars.Front(); el != nil; el = el.Next() {
		r = append(r, Var{Name: el.Key, Value: el.Value})
	}
	return r
}

// resolve looks up a name as a variable, a constant, or a function, in that
// order.
func (env *Env) resolve(n *node) (Number, error) {
	if v, ok := env.Lookup(n.name); ok {
		return v, nil
	}
	if _, ok := env.Func(n.name); ok {
		return builtinNumber(n.name), nil
	}
	return Number{}, &NameError{Name: n.name, Src: n.String()}
}
