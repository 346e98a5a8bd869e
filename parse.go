package calc

import (
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Expr = num | name | Call | Neg | Pos | Add | Sub | Mul | Div | Mod | FloorDiv | Pow | '(' Expr ')'
// Call = Expr '(' [ Expr { ',' Expr } [ ',' ] ] ')'
// Neg = '-' Expr
// Pos = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Mod = Expr '%' Expr
// FloorDiv = Expr '//' Expr
// Pow = Expr '**' Expr

// Expr is a parsed expression that can be evaluated in an Env.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
}

// keywords maps reserved words to the construct they introduce. None of them
// can be used as a name.
var keywords = map[string]string{
	"lambda":   "lambda expression",
	"if":       "conditional expression",
	"else":     "conditional expression",
	"and":      "boolean operator",
	"or":       "boolean operator",
	"not":      "boolean operator",
	"in":       "comparison",
	"is":       "comparison",
	"for":      "comprehension",
	"async":    "comprehension",
	"await":    "await expression",
	"yield":    "yield expression",
	"import":   "import",
	"from":     "import",
	"True":     "boolean literal",
	"False":    "boolean literal",
	"None":     "None literal",
	"as":       "statement",
	"assert":   "statement",
	"break":    "statement",
	"class":    "statement",
	"continue": "statement",
	"def":      "statement",
	"del":      "statement",
	"elif":     "statement",
	"except":   "statement",
	"finally":  "statement",
	"global":   "statement",
	"nonlocal": "statement",
	"pass":     "statement",
	"raise":    "statement",
	"return":   "statement",
	"try":      "statement",
	"while":    "statement",
	"with":     "statement",
}

// constructs maps punctuation tokens to the construct they introduce.
var constructs = map[string]string{
	"==": "comparison",
	"!=": "comparison",
	"<":  "comparison",
	">":  "comparison",
	"<=": "comparison",
	">=": "comparison",
	"!":  "comparison",
	"&":  "bitwise operator",
	"|":  "bitwise operator",
	"^":  "bitwise operator",
	"~":  "bitwise operator",
	"<<": "bitwise operator",
	">>": "bitwise operator",
	"=":  "assignment",
	":=": "assignment",
	".":  "attribute access",
	"[":  "subscript",
	"]":  "subscript",
	"{":  "set or dict display",
	"}":  "set or dict display",
	";":  "multiple statements",
	":":  "slice or annotation",
	"->": "annotation",
	"@":  "matrix multiplication",
	"'":  "string literal",
	`"`:  "string literal",
}

// IsIdentifier reports whether name can be used as a variable name: it is a
// letter or underscore followed by letters, digits, and underscores, and it is
// not a reserved word.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if !isIdentRune(r) || i == 0 && unicode.IsDigit(r) {
			return false
		}
	}
	_, kw := keywords[name]
	return !kw
}

// Parse parses an expression so it can be evaluated in an Env. Parse reads
// src to EOF.
func Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		names: make(map[string]bool),
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	slices.Sort(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, emptyAt(scan.must())
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenNum, tokenIdent, tokenOpen:
			// Two terms in a row.
			if kw, ok := keywords[tok.text]; ok && tok.kind == tokenIdent {
				return nil, &ConstructError{Col: tok.pos, Construct: kw, Token: tok.text}
			}
			if tok.nl {
				return nil, &ConstructError{Col: tok.pos, Construct: "multiple statements", Token: tok.text}
			}
			return nil, &ConstructError{Col: tok.pos, Construct: "implicit multiplication", Token: tok.text}
		case tokenClose, tokenSep, tokenPunct, tokenEOF:
			// End of expression. The caller decides whether punctuation
			// here is meaningful.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		num, err := parsenum(tok)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeNum, num: num}
	case tokenIdent:
		if kw, ok := keywords[tok.text]; ok {
			return nil, &ConstructError{Col: tok.pos, Construct: kw, Token: tok.text}
		}
		n = &node{kind: nodeName, name: tok.text}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x**-y -> x**(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, emptyAt(scan.must())
		}
		// The operand has already taken any calls that follow it.
		return &node{kind: prec.op, left: rhs}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: "("}
			}
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end)
		}
		if rhs == nil {
			return nil, &ConstructError{Col: tok.pos, Construct: "tuple", Token: "()"}
		}
		n = rhs
	case tokenClose:
		// This might be the end of f(), so just let the caller decide what
		// to do.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenPunct:
		if tok.text == "[" {
			return nil, &ConstructError{Col: tok.pos, Construct: "list display", Token: tok.text}
		}
		return nil, punctError(tok)
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
	return parsepostfix(scan, p, n)
}

// parsepostfix parses any call argument lists following a primary term.
// Calls bind more tightly than every operator.
func parsepostfix(scan *lexer, p *parsectx, n *node) (*node, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOpen {
			scan.push(tok)
			if n.kind == nodeName {
				p.names[n.name] = true
			}
			return n, nil
		}
		args, err := parsearglist(scan, p)
		if err != nil {
			return nil, err
		}
		call := &node{kind: nodeCall, args: args}
		if n.kind == nodeName {
			// Grouping parentheses around a name don't matter: (f)(x) is f(x).
			call.name = n.name
		} else {
			call.left = n
		}
		n = call
	}
}

// parsearglist parses the arguments of a call up to and including the closing
// parenthesis. The open parenthesis is already consumed.
func parsearglist(scan *lexer, p *parsectx) ([]*node, error) {
	var args []*node
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenOp {
			switch tok.text {
			case "*":
				return nil, &ConstructError{Col: tok.pos, Construct: "starred argument", Token: tok.text}
			case "**":
				return nil, &ConstructError{Col: tok.pos, Construct: "keyword argument unpacking", Token: tok.text}
			}
		}
		scan.push(tok)
		arg, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: "("}
			}
			return nil, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			// f() and f(a,) are allowed.
			if arg != nil {
				args = append(args, arg)
			}
			return args, nil
		case tokenSep:
			if arg == nil {
				return nil, &SeparatorError{Col: end.pos, Sep: end.text}
			}
			args = append(args, arg)
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: "("}
		case tokenPunct:
			if end.text == "=" && arg != nil && arg.kind == nodeName {
				return nil, &ConstructError{Col: end.pos, Construct: "keyword argument", Token: arg.name + "="}
			}
			return nil, punctError(end)
		default:
			panic("calc: parseterm ended on non-end token " + end.String())
		}
	}
}

// parsenum converts a number token to its value.
func parsenum(tok lexToken) (Number, error) {
	text := strings.ReplaceAll(tok.text, "_", "")
	imag := false
	if k := len(text) - 1; text[k] == 'j' || text[k] == 'J' {
		imag = true
		text = text[:k]
	}
	x, err := strconv.ParseFloat(text, 64)
	// Literals too large for float64 are infinite.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
	}
	if imag {
		return ComplexNumber(0, x), nil
	}
	return RealNumber(x), nil
}

// emptyAt returns an error for an empty subexpression ended by tok.
func emptyAt(tok lexToken) error {
	if tok.kind == tokenPunct {
		return punctError(tok)
	}
	return &EmptyExpressionError{Col: tok.pos, End: tok.text}
}

// punctError returns an error describing the construct a punctuation token
// begins.
func punctError(tok lexToken) error {
	c, ok := constructs[tok.text]
	if !ok {
		c = "operator " + tok.text
	}
	return &ConstructError{Col: tok.pos, Construct: c, Token: tok.text}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression.
func itShouldNotHaveEndedThisWay(tok lexToken) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: "("}
	case tokenClose:
		return &BracketError{Col: tok.pos, Right: tok.text}
	case tokenSep:
		// A comma outside a call makes a tuple.
		return &ConstructError{Col: tok.pos, Construct: "tuple", Token: tok.text}
	case tokenPunct:
		return punctError(tok)
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
// Function names in calls are not included.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression with every
// term parenthesized. The result parses to the same expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "//":
		return operator{5, false, nodeFloorDiv}
	case "**":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodePos}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
