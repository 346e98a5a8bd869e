package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/calc/internal/session"
)

func main() {
	var (
		state, inname, level string
		given                []string
		autosave, nocolor    bool
	)
	flag.StringVarP(&state, "state", "s", "", "state file to load at start, if it exists")
	flag.BoolVar(&autosave, "autosave", false, "save state to the --state file on exit")
	flag.StringVarP(&inname, "in", "i", "", "input file (default stdin if no args given)")
	flag.StringArrayVar(&given, "given", nil, "name=value variable definition (any number of times)")
	flag.BoolVar(&nocolor, "no-color", false, "disable colored output")
	flag.StringVar(&level, "log-level", "warn", "logging level (debug, info, warn, error)")
	flag.Parse()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(lvl)))
	defer logger.Sync()
	log := logger.Sugar()

	opts := []session.Option{session.WithLogger(logger)}
	if nocolor {
		opts = append(opts, session.WithColor(false))
	}
	s := session.New(opts...)
	if state != "" {
		err := s.Load(state)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist):
			log.Debugf("no state file %s", state)
		default:
			log.Fatal(err)
		}
	}
	if err := define(s, given); err != nil {
		log.Fatal(err)
	}
	if autosave && state != "" {
		defer func() {
			if err := s.Save(state); err != nil {
				log.Errorf("autosave: %v", err)
			}
		}()
	}

	for _, arg := range flag.Args() {
		if s.Exec(arg) {
			return
		}
	}
	in, prompt, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if in == nil {
		return
	}
	defer in.Close()
	if err := repl(s, in, prompt); err != nil {
		log.Error(err)
	}
}

// define assigns each name=value definition in the session.
func define(s *session.Session, defs []string) error {
	for _, d := range defs {
		name, val, ok := strings.Cut(d, "=")
		if !ok {
			return errors.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		name = strings.TrimSpace(name)
		if _, err := s.Assign(name, strings.TrimSpace(val)); err != nil {
			return errors.Wrapf(err, "setting %s", name)
		}
	}
	return nil
}

// infile opens the input. Prompts are shown only for a terminal on stdin.
func infile(inname string, std bool) (io.ReadCloser, bool, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		return f, false, err
	case inname == "-", std:
		return os.Stdin, isatty.IsTerminal(os.Stdin.Fd()), nil
	}
	return nil, false, nil
}

func repl(s *session.Session, in io.Reader, prompt bool) error {
	if prompt {
		fmt.Println("calc: type :help for commands")
	}
	sc := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Print("calc> ")
		}
		if !sc.Scan() {
			break
		}
		if s.Exec(sc.Text()) {
			return nil
		}
	}
	if prompt {
		fmt.Println("\nGoodbye!")
	}
	return errors.Wrap(sc.Err(), "reading input")
}
