// Package calc implements a safe calculator for real and complex arithmetic.
//
// The syntax of expressions is ordinary infix arithmetic: + - * / % // and **,
// where ** is right-associative and binds tighter than unary minus, so "-2**2"
// is "-(2**2)". Numbers may carry an imaginary suffix, as in "3+4j". Function
// calls look like "atan2(y, x)".
//
// Parsing accepts only that grammar. Anything else a user might type at a
// calculator prompt, such as comparisons, attribute access, lambdas, or
// keyword arguments, is rejected with an InputError that names the construct.
// Evaluation walks the parsed tree against an Env holding variables,
// constants, and a fixed table of functions, and it never modifies the Env.
// Assignment is a separate step: evaluate, then Env.Set.
//
// An Env is not safe for concurrent use. Give each goroutine its own Clone.
//
package calc
