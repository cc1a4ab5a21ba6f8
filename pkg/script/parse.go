package script

import (
	"fmt"
	"math"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Kind names a step type in a script.
type Kind string

const (
	KindWait     Kind = "wait"
	KindFrames   Kind = "frames"
	KindAnimate  Kind = "animate"
	KindSet      Kind = "set"
	KindLog      Kind = "log"
	KindUntil    Kind = "until"
	KindWhile    Kind = "while"
	KindSequence Kind = "sequence"
	KindRace     Kind = "race"
	KindAll      Kind = "all"
)

// Node is one parsed step. Only the fields relevant to Kind are set.
type Node struct {
	Kind     Kind
	Seconds  float64
	Frames   int
	Var      string
	To       float64
	Ease     string
	Op       string
	Value    float64
	Message  string
	Children []*Node
}

// Script is a parsed timeline description.
type Script struct {
	Name  string
	Vars  map[string]float64
	Steps []*Node
}

type document struct {
	Name  string             `yaml:"name"`
	Vars  map[string]float64 `yaml:"vars"`
	Steps []any              `yaml:"steps"`
}

type animateBody struct {
	Var  string  `mapstructure:"var"`
	To   float64 `mapstructure:"to"`
	Ease string  `mapstructure:"ease"`
}

type setBody struct {
	Var   string  `mapstructure:"var"`
	Value float64 `mapstructure:"value"`
}

type compareBody struct {
	Var   string  `mapstructure:"var"`
	Op    string  `mapstructure:"op"`
	Value float64 `mapstructure:"value"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML script and validates it. Every problem found is
// reported in a single *AggregateError.
func Parse(data []byte) (*Script, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	s := &Script{Name: doc.Name, Vars: doc.Vars}
	if s.Vars == nil {
		s.Vars = map[string]float64{}
	}

	p := &parser{}
	for i, raw := range doc.Steps {
		if n := p.node(fmt.Sprintf("steps[%d]", i), raw); n != nil {
			s.Steps = append(s.Steps, n)
		}
	}
	if len(p.errs) > 0 {
		return nil, &AggregateError{Errors: p.errs}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

type parser struct {
	errs []error
}

func (p *parser) fail(path string, err error) {
	p.errs = append(p.errs, &PathError{Path: path, Err: err})
}

func (p *parser) node(path string, raw any) *Node {
	m, ok := asMap(raw)
	if !ok || len(m) != 1 {
		p.fail(path, fmt.Errorf("%w: expected a mapping with exactly one key", ErrInvalidStep))
		return nil
	}

	var key string
	var body any
	for k, v := range m {
		key, body = k, v
	}
	path = path + "." + key
	n := &Node{Kind: Kind(key)}

	switch n.Kind {
	case KindWait:
		seconds, ok := toFloat(body)
		if !ok {
			p.fail(path, fmt.Errorf("%w: wait expects a number of seconds", ErrInvalidStep))
			return nil
		}
		n.Seconds = seconds

	case KindFrames:
		frames, ok := toInt(body)
		if !ok {
			p.fail(path, fmt.Errorf("%w: frames expects an integer", ErrInvalidStep))
			return nil
		}
		n.Frames = frames

	case KindLog:
		msg, ok := body.(string)
		if !ok {
			p.fail(path, fmt.Errorf("%w: log expects a message", ErrInvalidStep))
			return nil
		}
		n.Message = msg

	case KindAnimate:
		var b animateBody
		if !p.decode(path, body, &b) {
			return nil
		}
		n.Var, n.To, n.Ease = b.Var, b.To, b.Ease

	case KindSet:
		var b setBody
		if !p.decode(path, body, &b) {
			return nil
		}
		n.Var, n.Value = b.Var, b.Value

	case KindUntil, KindWhile:
		var b compareBody
		if !p.decode(path, body, &b) {
			return nil
		}
		n.Var, n.Op, n.Value = b.Var, b.Op, b.Value

	case KindSequence, KindRace, KindAll:
		list, ok := body.([]any)
		if !ok && body != nil {
			p.fail(path, fmt.Errorf("%w: %s expects a list of steps", ErrInvalidStep, key))
			return nil
		}
		for i, raw := range list {
			if child := p.node(fmt.Sprintf("%s[%d]", path, i), raw); child != nil {
				n.Children = append(n.Children, child)
			}
		}

	default:
		p.fail(path, fmt.Errorf("%w: %q", ErrUnknownKind, key))
		return nil
	}
	return n
}

// decode maps a step body onto out, rejecting unknown keys.
func (p *parser) decode(path string, body, out any) bool {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		p.fail(path, err)
		return false
	}
	if err := dec.Decode(body); err != nil {
		p.fail(path, fmt.Errorf("%w: %v", ErrInvalidStep, err))
		return false
	}
	return true
}

func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
