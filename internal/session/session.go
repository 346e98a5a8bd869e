// Package session implements the calculator's command layer: assignments,
// history, colon commands, and saved state.
package session

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
)

// MaxHistory is the number of history entries a Session keeps.
const MaxHistory = 200

// Session is a calculator session. It is not safe for concurrent use.
type Session struct {
	env     *calc.Env
	history []string

	fs  afero.Fs
	log *zap.Logger
	out io.Writer

	result *color.Color
	fail   *color.Color
}

// Option configures a Session.
type Option func(*Session)

// WithFs sets the filesystem used by :save and :load. The default is the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Session) {
		s.fs = fs
	}
}

// WithLogger sets the session's logger. The default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithOutput sets where results and messages are written. The default is
// standard output.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithColor forces colored output on or off. By default, output is colored
// only when standard output is a terminal.
func WithColor(on bool) Option {
	return func(s *Session) {
		for _, c := range []*color.Color{s.result, s.fail} {
			if on {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithEnv sets the evaluation environment. The session modifies it through
// assignments and :load.
func WithEnv(env *calc.Env) Option {
	return func(s *Session) {
		s.env = env
	}
}

// New creates a new session.
func New(opts ...Option) *Session {
	s := &Session{
		env:    calc.NewEnv(),
		fs:     afero.NewOsFs(),
		log:    zap.NewNop(),
		out:    os.Stdout,
		result: color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Env returns the session's evaluation environment.
func (s *Session) Env() *calc.Env {
	return s.env
}

// History returns a copy of the session history, oldest first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

func (s *Session) addHistory(entry string) {
	s.history = append(s.history, entry)
	if len(s.history) > MaxHistory {
		s.history = append(s.history[:0], s.history[len(s.history)-MaxHistory:]...)
	}
}

// Eval evaluates an expression and records it in the history.
func (s *Session) Eval(src string) (calc.Number, error) {
	r, err := calc.EvalString(src, s.env)
	if err != nil {
		return calc.Number{}, err
	}
	s.addHistory(src + " = " + r.String())
	return r, nil
}

// ErrInvalidName is returned when assigning to a name that is not an
// identifier.
var ErrInvalidName = errors.New("invalid variable name")

// Assign evaluates src and stores the result in the variable name, recording
// the assignment in the history. Function names cannot be assigned.
func (s *Session) Assign(name, src string) (calc.Number, error) {
	if !calc.IsIdentifier(name) {
		return calc.Number{}, errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if _, ok := s.env.Func(name); ok {
		return calc.Number{}, errors.Errorf("cannot assign to function %s", name)
	}
	e, err := calc.ParseString(src)
	if err != nil {
		return calc.Number{}, err
	}
	v, err := s.env.Assign(name, e)
	if err != nil {
		return calc.Number{}, err
	}
	s.log.Debug("assigned", zap.String("name", name), zap.Stringer("value", v))
	s.addHistory(name + " = " + src + " -> " + v.String())
	return v, nil
}

// Exec runs one line of input. It reports whether the line asked to quit.
func (s *Session) Exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case strings.HasPrefix(line, ":"):
		return s.command(line[1:])
	case strings.HasPrefix(line, "let "):
		rest := line[len("let "):]
		if !strings.Contains(rest, "=") {
			s.println("Use: let name = expression")
			return false
		}
		s.assign(rest)
	case strings.Contains(line, "=") && !strings.HasPrefix(line, "=="):
		s.assign(line)
	default:
		r, err := s.Eval(line)
		if err != nil {
			s.errorln("Evaluation error:", err)
			return false
		}
		s.result.Fprintln(s.out, r)
	}
	return false
}

func (s *Session) assign(line string) {
	name, src, _ := strings.Cut(line, "=")
	name, src = strings.TrimSpace(name), strings.TrimSpace(src)
	v, err := s.Assign(name, src)
	if err != nil {
		s.errorln("Error:", err)
		return
	}
	s.result.Fprintf(s.out, "%s = %v\n", name, v)
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) errorln(a ...any) {
	s.fail.Fprintln(s.out, a...)
}
