package session

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
)

// state is the saved form of a session.
type state struct {
	Vars    varList  `json:"vars"`
	History []string `json:"history"`
}

// varList encodes as a JSON object whose members keep the variables' order.
type varList []calc.Var

func (v varList) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(x.Name)
		if err != nil {
			return nil, err
		}
		val, err := x.Value.MarshalJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", x.Name)
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (v *varList) UnmarshalJSON(b []byte) error {
	d := json.NewDecoder(bytes.NewReader(b))
	t, err := d.Token()
	if err != nil {
		return err
	}
	if t == nil {
		*v = nil
		return nil
	}
	if t != json.Delim('{') {
		return errors.Errorf("vars must be an object, not %v", t)
	}
	var r varList
	for d.More() {
		t, err := d.Token()
		if err != nil {
			return err
		}
		name, _ := t.(string)
		var n calc.Number
		if err := d.Decode(&n); err != nil {
			return errors.Wrapf(err, "decoding %s", name)
		}
		r = append(r, calc.Var{Name: name, Value: n})
	}
	*v = r
	return nil
}

// Save writes the user variables and history to a JSON file.
func (s *Session) Save(name string) error {
	st := state{
		Vars:    s.env.UserVars(),
		History: s.History(),
	}
	if st.History == nil {
		st.History = []string{}
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}
	if err := afero.WriteFile(s.fs, name, b, 0644); err != nil {
		return errors.Wrap(err, "writing state")
	}
	s.log.Info("saved state", zap.String("file", name), zap.Int("vars", len(st.Vars)), zap.Int("history", len(st.History)))
	return nil
}

// Load reads a file written by Save. Each variable in it is set, and the
// history is replaced. If the file is invalid, the session is unchanged.
func (s *Session) Load(name string) error {
	b, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return errors.Wrap(err, "reading state")
	}
	var st state
	if err := json.Unmarshal(b, &st); err != nil {
		return errors.Wrapf(err, "decoding state from %s", name)
	}
	for _, v := range st.Vars {
		if !calc.IsIdentifier(v.Name) {
			return errors.Wrapf(ErrInvalidName, "%q in %s", v.Name, name)
		}
		if _, ok := s.env.Func(v.Name); ok {
			return errors.Errorf("%s in %s names a function", v.Name, name)
		}
	}
	// Check values before any are set.
	env := s.env.Clone()
	for _, v := range st.Vars {
		if err := env.Set(v.Name, v.Value); err != nil {
			return errors.Wrapf(err, "setting %s from %s", v.Name, name)
		}
	}
	for _, v := range st.Vars {
		if err := s.env.Set(v.Name, v.Value); err != nil {
			return errors.Wrapf(err, "setting %s from %s", v.Name, name)
		}
	}
	s.history = nil
	for _, h := range st.History {
		s.addHistory(h)
	}
	s.log.Info("loaded state", zap.String("file", name), zap.Int("vars", len(st.Vars)), zap.Int("history", len(st.History)))
	return nil
}
