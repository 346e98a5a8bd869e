package session

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
)

func newTestSession(t *testing.T, opts ...Option) (*Session, *bytes.Buffer, afero.Fs) {
	t.Helper()
	var out bytes.Buffer
	fs := afero.NewMemMapFs()
	opts = append([]Option{WithFs(fs), WithOutput(&out), WithColor(false), WithLogger(zap.NewNop())}, opts...)
	return New(opts...), &out, fs
}

func TestExecOutput(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		out  string
	}{
		{"expr", []string{"2+2"}, "4\n"},
		{"blank", []string{"", "   "}, ""},
		{"complex", []string{"3+4j"}, "(3+4j)\n"},
		{"let", []string{"let r = 5", "pi*r**2"}, "r = 5\n78.53981633974483\n"},
		{"bare", []string{"x = 2**3", "x"}, "x = 8\n8\n"},
		{"letnoeq", []string{"let x"}, "Use: let name = expression\n"},
		{"evalerr", []string{"1/0"}, "Evaluation error: division by zero\n"},
		{"name", []string{"1x = 2"}, "Error: \"1x\": invalid variable name\n"},
		{"keyword", []string{"let lambda = 2"}, "Error: \"lambda\": invalid variable name\n"},
		{"func", []string{"sqrt = 2"}, "Error: cannot assign to function sqrt\n"},
		{"builtin", []string{"f = sqrt"}, "Error: cannot assign a function to a variable\n"},
		{"eqeq", []string{"== 1"}, "Evaluation error: "},
		{"novars", []string{":vars"}, "(no user variables)\n"},
		{"vars", []string{"b = 1", "a = 2j", ":vars"}, "b = 1\na = 2j\nb = 1\na = 2j\n"},
		{"unknown", []string{":frob"}, "Unknown command. Type :help\n"},
		{"empty", []string{":"}, "Unknown command. Type :help\n"},
		{"savenoarg", []string{":save"}, "Unknown command. Type :help\n"},
		{"convert", []string{":convert 1 km m"}, "1000\n"},
		{"converttemp", []string{":convert 100 C F"}, "212\n"},
		{"convertbad", []string{":convert 1 m C"}, "Conversion error: m to C: unsupported conversion\n"},
		{"convertnum", []string{":convert x m cm"}, "Conversion error: "},
		{"quote", []string{":convert '1"}, "Error: "},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, out, _ := newTestSession(t)
			for _, line := range c.in {
				assert.False(t, s.Exec(line))
			}
			assert.True(t, strings.HasPrefix(out.String(), c.out), "want prefix %q, got %q", c.out, out.String())
		})
	}
}

func TestExecQuit(t *testing.T) {
	for _, cmd := range []string{":quit", ":exit", "  :quit  "} {
		s, out, _ := newTestSession(t)
		assert.True(t, s.Exec(cmd))
		assert.Equal(t, "Bye!\n", out.String())
	}
}

func TestHelp(t *testing.T) {
	s, out, _ := newTestSession(t)
	s.Exec(":help")
	for _, cmd := range []string{":vars", ":history", ":save", ":load", ":convert", ":quit"} {
		assert.Contains(t, out.String(), cmd)
	}
}

func TestHistory(t *testing.T) {
	s, out, _ := newTestSession(t)
	s.Exec("1+1")
	s.Exec("let x = 3")
	s.Exec("1/0")
	s.Exec("x*2")
	assert.Equal(t, []string{"1+1 = 2", "x = 3 -> 3", "x*2 = 6"}, s.History())
	out.Reset()
	s.Exec(":history")
	assert.Equal(t, "1: 1+1 = 2\n2: x = 3 -> 3\n3: x*2 = 6\n", out.String())
}

func TestHistoryLimits(t *testing.T) {
	s, out, _ := newTestSession(t)
	for i := 0; i < MaxHistory+10; i++ {
		s.Exec(fmt.Sprint(i))
	}
	h := s.History()
	require.Len(t, h, MaxHistory)
	assert.Equal(t, "10 = 10", h[0])
	assert.Equal(t, fmt.Sprintf("%[1]d = %[1]d", MaxHistory+9), h[len(h)-1])

	out.Reset()
	s.Exec(":history")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, shownHistory)
	assert.Equal(t, fmt.Sprintf("1: %[1]d = %[1]d", MaxHistory+10-shownHistory), lines[0])
	assert.Equal(t, fmt.Sprintf("%[1]d: %[2]d = %[2]d", shownHistory, MaxHistory+9), lines[len(lines)-1])
}

func TestAssign(t *testing.T) {
	s, _, _ := newTestSession(t)
	v, err := s.Assign("x", "sqrt(16)")
	require.NoError(t, err)
	assert.Equal(t, calc.RealNumber(4), v)

	_, err = s.Assign("x", "x/0")
	require.Error(t, err)
	got, ok := s.Env().Lookup("x")
	require.True(t, ok)
	assert.Equal(t, calc.RealNumber(4), got)

	_, err = s.Assign("y", "1 +")
	var ie calc.InputError
	assert.ErrorAs(t, err, &ie)
	_, err = s.Assign("", "1")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestWithEnv(t *testing.T) {
	env := calc.NewEnv(calc.SetVar("k", calc.RealNumber(7)))
	s, out, _ := newTestSession(t, WithEnv(env))
	s.Exec("k*2")
	s.Exec("m = 1")
	assert.Equal(t, "14\nm = 1\n", out.String())
	_, ok := env.Lookup("m")
	assert.True(t, ok)
}

func TestSaveLoad(t *testing.T) {
	s, out, fs := newTestSession(t)
	s.Exec("let z = 2")
	s.Exec("a = 1.5")
	s.Exec("c = 1+2j")
	s.Exec("big = inf")
	s.Exec("real = complex(3, 0)")
	s.Exec(":save /state.json")
	assert.Contains(t, out.String(), "Saved to /state.json\n")

	b, err := afero.ReadFile(fs, "/state.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"vars": {"z": 2, "a": 1.5, "c": "(1+2i)", "big": "+Inf", "real": 3},
		"history": [
			"z = 2 -> 2",
			"a = 1.5 -> 1.5",
			"c = 1+2j -> (1+2j)",
			"big = inf -> inf",
			"real = complex(3, 0) -> (3+0j)"
		]
	}`, string(b))
	// Variables keep their order in the file.
	assert.Less(t, bytes.Index(b, []byte(`"z"`)), bytes.Index(b, []byte(`"a"`)))

	r, out, _ := newTestSession(t, WithFs(fs))
	r.Exec(":load /state.json")
	assert.Equal(t, "Loaded from /state.json\n", out.String())
	vars := r.Env().UserVars()
	require.Len(t, vars, 5)
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"z", "a", "c", "big", "real"}, names)
	assert.Equal(t, calc.ComplexNumber(1, 2), vars[2].Value)
	assert.True(t, math.IsInf(vars[3].Value.Real(), 1))
	// A complex number with zero imaginary part comes back real.
	assert.Equal(t, calc.RealNumber(3), vars[4].Value)
	assert.Equal(t, s.History(), r.History())
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		file string
		err  string
	}{
		{"missing", "", "reading state"},
		{"syntax", `{"vars": `, "decoding state"},
		{"notobject", `{"vars": [1]}`, "vars must be an object"},
		{"value", `{"vars": {"x": "one"}}`, "decoding x"},
		{"name", `{"vars": {"1x": 1}}`, "invalid variable name"},
		{"func", `{"vars": {"sin": 1}}`, "names a function"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, out, fs := newTestSession(t)
			s.Exec("keep = 1")
			if c.file != "" {
				require.NoError(t, afero.WriteFile(fs, "/s.json", []byte(c.file), 0644))
			}
			err := s.Load("/s.json")
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.err)
			assert.Equal(t, []string{"keep = 1 -> 1"}, s.History())
			assert.Len(t, s.Env().UserVars(), 1)

			out.Reset()
			s.Exec(":load /s.json")
			assert.True(t, strings.HasPrefix(out.String(), "Load failed: "))
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	s, _, fs := newTestSession(t)
	s.Exec("x = 1")
	require.NoError(t, afero.WriteFile(fs, "/s.json", []byte(`{}`), 0644))
	require.NoError(t, s.Load("/s.json"))
	assert.Empty(t, s.History())
	assert.Len(t, s.Env().UserVars(), 1)
}

func TestSaveFails(t *testing.T) {
	s, out, _ := newTestSession(t, WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	s.Exec(":save /s.json")
	assert.True(t, strings.HasPrefix(out.String(), "Save failed: writing state"))
}

func TestConvert(t *testing.T) {
	cases := []struct {
		amt      float64
		from, to string
		want     float64
	}{
		{1, "km", "m", 1000},
		{1, "in", "cm", 2.54},
		{1, "mi", "ft", 5280},
		{3, "ft", "yd", 1},
		{32, "F", "C", 0},
		{0, "K", "C", -273.15},
		{-40, "C", "F", -40},
		{5, "m", "m", 5},
	}
	for _, c := range cases {
		got, err := Convert(c.amt, c.from, c.to)
		require.NoError(t, err)
		assert.InDelta(t, c.want, got, 1e-9, "%g %s to %s", c.amt, c.from, c.to)
	}
	for _, pair := range [][2]string{{"m", "C"}, {"K", "ft"}, {"m", "furlong"}, {"c", "f"}} {
		_, err := Convert(1, pair[0], pair[1])
		assert.ErrorIs(t, err, ErrUnsupportedConversion)
	}
}
