package calc

import (
	"io"
	"strings"
)

// Eval evaluates the expression in env and returns the result. Evaluation
// does not modify env. If an error occurs, e.g. a missing name or an argument
// to a function outside the function's domain, the error implements
// EvalError. If env is nil, a new Env with only the default constants and
// functions is used.
func (e *Expr) Eval(env *Env) (Number, error) {
	if env == nil {
		env = NewEnv()
	}
	return e.n.eval(env)
}

// Eval is a shortcut for e.Eval(env).
func (env *Env) Eval(e *Expr) (Number, error) {
	return e.Eval(env)
}

// Eval is a shortcut to parse an expression and return its result. If env is
// nil, a new Env with only the default constants and functions is used.
func Eval(src io.RuneScanner, env *Env) (Number, error) {
	if env == nil {
		env = NewEnv()
	}
	a, err := Parse(src)
	if err != nil {
		return Number{}, err
	}
	return a.Eval(env)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, env *Env) (Number, error) {
	return Eval(strings.NewReader(src), env)
}

// eval computes the value of the node. Every node is checked against the
// allowed kinds before it is evaluated, so a tree built by any means other
// than Parse still cannot do anything but arithmetic and calls.
func (n *node) eval(env *Env) (Number, error) {
	if n == nil {
		return Number{}, &DisallowedError{Kind: "nil", Src: n.String()}
	}
	if !n.kind.allowed() {
		return Number{}, &DisallowedError{Kind: n.kind.String(), Src: n.String()}
	}
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		return env.resolve(n)
	case nodeCall:
		return n.call(env)
	case nodeNeg, nodePos:
		x, err := n.left.eval(env)
		if err != nil {
			return Number{}, err
		}
		r, err := unary(n.kind, x)
		if err != nil {
			return Number{}, locate(err, n)
		}
		return r, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodeFloorDiv, nodePow:
		x, err := n.left.eval(env)
		if err != nil {
			return Number{}, err
		}
		y, err := n.right.eval(env)
		if err != nil {
			return Number{}, err
		}
		r, err := binary(n.kind, x, y)
		if err != nil {
			return Number{}, locate(err, n)
		}
		return r, nil
	default:
		return Number{}, &DisallowedError{Kind: n.kind.String(), Src: n.String()}
	}
}

// call evaluates a call node. Only a name bound to a function can be called;
// any other name is unknown as a function, even if it names a variable.
// Arguments are evaluated left to right before the call.
func (n *node) call(env *Env) (Number, error) {
	if n.left != nil || n.name == "" {
		return Number{}, &CallTargetError{Target: n.left.String(), Src: n.String()}
	}
	f, ok := env.Func(n.name)
	if !ok {
		return Number{}, &NameError{Name: n.name, Src: n.String()}
	}
	args := make([]Number, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(env)
		if err != nil {
			return Number{}, err
		}
		args[i] = v
	}
	if !f.CanCall(len(args)) {
		return Number{}, &FuncError{Name: n.name, Err: &ArityError{Got: len(args)}, Src: n.String()}
	}
	r, err := f.Call(args)
	if err != nil {
		return Number{}, &FuncError{Name: n.name, Err: err, Src: n.String()}
	}
	return r, nil
}
