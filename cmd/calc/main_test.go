package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/session"
)

func TestDefine(t *testing.T) {
	s := session.New(session.WithOutput(io.Discard), session.WithColor(false))
	require.NoError(t, define(s, []string{"x=2", " y = x**3 "}))
	v, ok := s.Env().Lookup("y")
	require.True(t, ok)
	assert.Equal(t, calc.RealNumber(8), v)

	cases := []struct {
		def string
		err string
	}{
		{"x", `"name=value"`},
		{"sin=2", "cannot assign to function sin"},
		{"1x=2", "invalid variable name"},
		{"lambda=1", "invalid variable name"},
		{"z=1/0", "division by zero"},
		{"f=sqrt", "cannot assign a function"},
	}
	for _, c := range cases {
		err := define(s, []string{c.def})
		if assert.Error(t, err, c.def) {
			assert.Contains(t, err.Error(), c.err, c.def)
		}
	}
	_, ok = s.Env().Func("sin")
	assert.True(t, ok)
	assert.Len(t, s.Env().UserVars(), 2)
}
