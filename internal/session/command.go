package session

import (
	"strconv"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
)

const helpText = `Commands:
- Type any math expression, e.g. 2+2, sin(pi/4), 3+4j, (2+3)*4
- let <name> = <expression>  -> create variable (or <name> = <expression>)
- :vars        -> list user variables
- :history     -> show recent expressions
- :save <file> -> save variables & history to a file
- :load <file> -> load variables & history from a file
- :convert <amount> <from> <to> -> convert units (m, cm, mm, km, in, ft, yd, mi, C, F, K)
- :help        -> show this help
- :quit or :exit -> exit

Examples:
let r = 5
pi * r**2
:convert 10 ft m`

// shownHistory is the number of entries :history prints.
const shownHistory = 50

// command runs a colon command. line excludes the colon.
func (s *Session) command(line string) (quit bool) {
	parts, err := shlex.Split(line)
	if err != nil {
		s.errorln("Error:", err)
		return false
	}
	var cmd string
	var args []string
	if len(parts) > 0 {
		cmd, args = parts[0], parts[1:]
	}
	s.log.Debug("command", zap.String("cmd", cmd), zap.Strings("args", args))
	switch {
	case cmd == "quit", cmd == "exit":
		s.println("Bye!")
		return true
	case cmd == "help":
		s.println(helpText)
	case cmd == "vars":
		vars := s.env.UserVars()
		if len(vars) == 0 {
			s.println("(no user variables)")
			break
		}
		for _, v := range vars {
			s.println(v.Name, "=", v.Value)
		}
	case cmd == "history":
		h := s.history
		if len(h) > shownHistory {
			h = h[len(h)-shownHistory:]
		}
		for i, entry := range h {
			s.println(strconv.Itoa(i+1) + ": " + entry)
		}
	case cmd == "save" && len(args) > 0:
		if err := s.Save(args[0]); err != nil {
			s.errorln("Save failed:", err)
			break
		}
		s.println("Saved to", args[0])
	case cmd == "load" && len(args) > 0:
		if err := s.Load(args[0]); err != nil {
			s.errorln("Load failed:", err)
			break
		}
		s.println("Loaded from", args[0])
	case cmd == "convert" && len(args) == 3:
		amt, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			s.errorln("Conversion error:", err)
			break
		}
		r, err := Convert(amt, args[1], args[2])
		if err != nil {
			s.errorln("Conversion error:", err)
			break
		}
		s.result.Fprintln(s.out, calc.RealNumber(r))
	default:
		s.println("Unknown command. Type :help")
	}
	return false
}
