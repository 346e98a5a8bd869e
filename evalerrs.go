package calc

import "strconv"

// DisallowedError is an error indicating that the evaluator reached a tree
// node it does not handle. Parse never produces such trees.
type DisallowedError struct {
	// Kind names the node kind.
	Kind string
	// Src is the offending subexpression.
	Src string
}

func (err *DisallowedError) Error() string {
	return "disallowed expression: " + err.Kind
}

func (err *DisallowedError) Expr() string {
	return err.Src
}

// NameError is an error from a lookup for a name that is neither a variable,
// a constant, nor a function in the evaluation Env.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Src is the subexpression that used the name.
	Src string
}

func (err *NameError) Error() string {
	return "unknown identifier: " + strconv.Quote(err.Name)
}

func (err *NameError) Expr() string {
	return err.Src
}

// CallTargetError is an error indicating call syntax applied to a callee that
// is not an identifier, as in (1)(2) or f(x)(y).
type CallTargetError struct {
	// Target is the callee.
	Target string
	// Src is the call expression.
	Src string
}

func (err *CallTargetError) Error() string {
	return "cannot call " + err.Target + ": not a function name"
}

func (err *CallTargetError) Expr() string {
	return err.Src
}

// OperandError is an error indicating an operator applied to operands of a
// domain it does not support, e.g. % on complex numbers.
type OperandError struct {
	// Op is the operator.
	Op string
	// X and Y are the kinds of the operands. Y is meaningless if Unary.
	X, Y Kind
	// Unary is whether the operator is unary.
	Unary bool
	// Src is the operation.
	Src string
}

func (err *OperandError) Error() string {
	if err.Unary {
		return "unsupported operand type for unary " + err.Op + ": " + err.X.String()
	}
	return "unsupported operand types for " + err.Op + ": " + err.X.String() + " and " + err.Y.String()
}

func (err *OperandError) Expr() string {
	return err.Src
}

// DivisionByZeroError is an error indicating division, modulo, or floor
// division by zero, or zero raised to a negative power.
type DivisionByZeroError struct {
	// Op is the operator.
	Op string
	// Src is the operation.
	Src string
}

func (err *DivisionByZeroError) Error() string {
	if err.Op == "**" {
		return "zero raised to a negative or complex power"
	}
	return "division by zero"
}

func (err *DivisionByZeroError) Expr() string {
	return err.Src
}

// FuncError is an error returned by a function during a call. Its Err is
// typically a *DomainError, *RangeError, *ArityError, or *ArgTypeError.
type FuncError struct {
	// Name is the function name.
	Name string
	// Err is the error the function returned.
	Err error
	// Src is the call expression.
	Src string
}

func (err *FuncError) Error() string {
	return err.Name + ": " + err.Err.Error()
}

func (err *FuncError) Unwrap() error {
	return err.Err
}

func (err *FuncError) Expr() string {
	return err.Src
}

// EvalError is an error with the subexpression that caused it. Every error
// resulting from evaluating an expression implements EvalError.
type EvalError interface {
	error
	// Expr returns the failing subexpression, formatted as by Expr.String.
	Expr() string
}

var (
	_ EvalError = (*DisallowedError)(nil)
	_ EvalError = (*NameError)(nil)
	_ EvalError = (*CallTargetError)(nil)
	_ EvalError = (*OperandError)(nil)
	_ EvalError = (*DivisionByZeroError)(nil)
	_ EvalError = (*FuncError)(nil)
)

// locate fills in the subexpression of an arithmetic error.
func locate(err error, n *node) error {
	switch err := err.(type) {
	case *OperandError:
		if err.Src == "" {
			err.Src = n.String()
		}
	case *DivisionByZeroError:
		if err.Src == "" {
			err.Src = n.String()
		}
	}
	return err
}
