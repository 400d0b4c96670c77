package hostir

import (
	"fmt"
	"github.com/cottand/affinesimp/internal/log"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"slices"
)

var loadLogger = log.Section("hostir.load")

// LoadError locates a problem in a program file
type LoadError struct {
	Line int
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

func LoadProgramFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open program")
	}
	defer f.Close()
	p, err := LoadProgram(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %s", path)
	}
	return p, nil
}

// LoadProgram decodes and validates a YAML program. Fields the format does
// not know about are rejected, and loops without a step count by one
func LoadProgram(r io.Reader) (*Program, error) {
	var p Program
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	for _, f := range p.Funcs {
		for i := range f.Loops {
			if f.Loops[i].Step == 0 {
				f.Loops[i].Step = 1
			}
		}
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid program")
	}
	loadLogger.Debug("loaded program", "funcs", len(p.Funcs))
	return &p, nil
}

func (p *Program) Validate() error {
	names := set.New[string](len(p.Funcs))
	for i, f := range p.Funcs {
		if f.Name == "" {
			return errors.Errorf("function %d has no name", i)
		}
		if !names.Insert(f.Name) {
			return errors.Errorf("function %s is defined twice", f.Name)
		}
		if err := f.Validate(); err != nil {
			return errors.Wrapf(err, "function %s", f.Name)
		}
	}
	return nil
}

// Validate checks that every operand of every operation is a parameter or an
// induction variable of f, and that every access map fits its operands
func (f *Func) Validate() error {
	defined := set.New[string](len(f.Params) + len(f.Loops))
	define := func(name string) error {
		if name == "" {
			return errors.New("value without a name")
		}
		if !defined.Insert(name) {
			return errors.Errorf("%s is defined twice", name)
		}
		return nil
	}
	for _, p := range f.Params {
		if err := define(p.Name); err != nil {
			return err
		}
		if p.Min > p.Max {
			return errors.Errorf("parameter %s has an empty range [%d, %d]", p.Name, p.Min, p.Max)
		}
	}
	for _, l := range f.Loops {
		if err := define(l.IV); err != nil {
			return err
		}
		if l.Step <= 0 {
			return errors.Errorf("loop %s has a non-positive step %d", l.IV, l.Step)
		}
	}
	for i, op := range f.Ops {
		if !slices.Contains(OpKinds, op.Kind) {
			return errors.Errorf("op %d has unknown kind %q", i, op.Kind)
		}
		if err := op.Access.Validate(); err != nil {
			return errors.Wrapf(err, "op %d", i)
		}
		for _, o := range op.Access.Operands {
			if !defined.Contains(string(o)) {
				return errors.Errorf("op %d uses undefined value %s", i, o)
			}
		}
	}
	return nil
}

func WriteProgram(w io.Writer, p *Program) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(p); err != nil {
		return errors.Wrap(err, "could not encode program")
	}
	return errors.Wrap(encoder.Close(), "could not flush program")
}
