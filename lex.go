package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// nl is whether a line break separates the token from the previous one.
	nl bool
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer, real, or imaginary token.
	tokenNum
	// tokenIdent is a variable or function name, or a keyword.
	tokenIdent
	// tokenOp is an arithmetic operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is the function arguments separator.
	tokenSep
	// tokenPunct is a symbol that is recognized but not part of the grammar,
	// e.g. a comparison operator or a subscript bracket.
	tokenPunct
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token
//go:generate go mod tidy

// Operators contains the runes which begin arithmetic operators. * and /
// also begin the two-rune operators ** and //.
const Operators = "+-*/%"

// punct contains the runes lexed as tokenPunct. Each is rejected by the
// parser with a description of the construct it begins.
const punct = "<>=!&|^~.[]{};:@'\""

// punct2 lists the two-rune tokenPunct sequences.
var punct2 = []string{"==", "!=", "<=", ">=", "<<", ">>", ":=", "->"}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peek reports whether the next rune satisfies f without consuming it.
func (l *lexer) peek(f func(rune) bool) bool {
	r, err := l.readRune()
	if err != nil {
		return false
	}
	l.unreadRune()
	return f(r)
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	var tok lexToken
	for {
		tok.pos = l.rune
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case r == '\n':
			tok.nl = true
			continue
		case unicode.IsSpace(r):
			continue
		case r == '#':
			// Comment to end of line.
			if err := l.skipLine(); err != nil {
				return tok, err
			}
			tok.nl = true
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '.' && l.peek(isDigit):
			l.buf.WriteRune(r)
			if err := l.scanFrac(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			if (r == '*' || r == '/') && l.peek(func(s rune) bool { return s == r }) {
				l.readRune()
				tok.text += string(r)
			}
			tok.kind = tokenOp
			return tok, nil
		case strings.ContainsRune(punct, r):
			tok.text = string(r)
			for _, p := range punct2 {
				if p[0] == byte(r) && l.peek(func(s rune) bool { return s == rune(p[1]) }) {
					l.readRune()
					tok.text = p
					break
				}
			}
			tok.kind = tokenPunct
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

func (l *lexer) skipLine() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// numstate tracks the parts of a number literal seen so far.
type numstate struct {
	// dig and ed are whether digits have appeared in the mantissa and
	// exponent, respectively.
	dig, ed bool
	// dot and e are whether the decimal point and exponent marker have
	// appeared.
	dot, e bool
	// le is whether the last rune was the exponent marker, so that a sign is
	// allowed.
	le bool
	// us is whether the last rune was a digit group underscore, so that a
	// digit must follow.
	us bool
	// prevdig is whether the last rune was a digit.
	prevdig bool
}

func (l *lexer) scanNum() error {
	return l.scanNumFrom(numstate{})
}

// scanFrac scans a number that starts with a decimal point, which the caller
// has already written.
func (l *lexer) scanFrac() error {
	return l.scanNumFrom(numstate{dot: true})
}

func (l *lexer) scanNumFrom(s numstate) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if s.us && !isDigit(r) {
			l.buf.WriteRune(r)
			return l.error("number")
		}
		switch {
		case r == '+' || r == '-':
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !s.le {
				l.unreadRune()
				return s.check(l)
			}
			l.buf.WriteRune(r)
			s.le = false
			s.prevdig = false
			continue
		case isDigit(r):
			l.buf.WriteRune(r)
			if s.e {
				s.ed = true
			} else {
				s.dig = true
			}
			s.le, s.us, s.prevdig = false, false, true
			continue
		case r == '_':
			l.buf.WriteRune(r)
			if !s.prevdig {
				return l.error("number")
			}
			s.us, s.prevdig = true, false
			continue
		case r == '.':
			l.buf.WriteRune(r)
			if s.dot || s.e {
				return l.error("number")
			}
			s.dot, s.le, s.prevdig = true, false, false
			continue
		case r == 'e' || r == 'E':
			l.buf.WriteRune(r)
			if !s.dig || s.e {
				return l.error("number")
			}
			s.e, s.le, s.prevdig = true, true, false
			continue
		case r == 'j' || r == 'J':
			l.buf.WriteRune(r)
			if err := s.check(l); err != nil {
				return err
			}
			// Nothing that continues a number or name may follow the suffix.
			if l.peek(isIdentRune) {
				r, _ := l.readRune()
				l.buf.WriteRune(r)
				return l.error("number")
			}
			return nil
		case isIdentRune(r):
			l.buf.WriteRune(r)
			return l.error("number")
		default:
			l.unreadRune()
			return s.check(l)
		}
	}
	return s.check(l)
}

// check returns an error if the scanned number is incomplete.
func (s numstate) check(l *lexer) error {
	if (!s.dig && !s.ed) || (s.e && !s.ed) || s.us {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !isIdentRune(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
