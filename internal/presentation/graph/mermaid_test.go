package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coroutines/pkg/script"
)

func TestGenerateMermaid(t *testing.T) {
	s, err := script.Parse([]byte(`
name: fade
vars: {opacity: 0}
steps:
  - sequence:
      - wait: 0.5
      - frames: 2
      - animate: {var: opacity, to: 1, ease: quad-out}
      - log: faded in
  - until: {var: opacity, op: ">=", value: 1}
`))
	require.NoError(t, err)

	expected := `graph TD
    start(("fade"))
    n0{{"sequence"}}
    n1[/"wait 0.5s"/]
    n0 --> n1
    n2[/"frames 2"/]
    n1 -- then --> n2
    n3[["animate opacity to 1 (quad-out)"]]
    n2 -- then --> n3
    n4>"log: faded in"]
    n3 -- then --> n4
    start --> n0
    n5{"until opacity >= 1"}
    start --> n5
`
	assert.Equal(t, expected, GenerateMermaid(s))
}

func TestGenerateMermaid_RaceAndEscaping(t *testing.T) {
	s := &script.Script{
		Vars: map[string]float64{"x": 0},
		Steps: []*script.Node{{
			Kind: script.KindRace,
			Children: []*script.Node{
				{Kind: script.KindLog, Message: `say "hi"`},
				{Kind: script.KindSet, Var: "x", Value: 2},
			},
		}},
	}

	expected := `graph TD
    start(("timeline"))
    n0{{"race"}}
    n1>"log: say 'hi'"]
    n0 -.-> n1
    n2["set x = 2"]
    n0 -.-> n2
    start --> n0
`
	assert.Equal(t, expected, GenerateMermaid(s))
}
