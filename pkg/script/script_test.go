package script_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coroutines "github.com/aretw0/coroutines"
	"github.com/aretw0/coroutines/pkg/clock"
	"github.com/aretw0/coroutines/pkg/script"
)

func runUntilEmpty(t *testing.T, tl *coroutines.Timeline, m *clock.Manual, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		if m != nil {
			m.Advance(0.25)
		}
		tl.Tick()
		if tl.Len() == 0 {
			return i
		}
	}
	t.Fatalf("timeline still has %d steps after %d ticks", tl.Len(), limit)
	return 0
}

func TestLoad_Fade(t *testing.T) {
	s, err := script.Load("testdata/fade.yaml")
	require.NoError(t, err)

	assert.Equal(t, "fade", s.Name)
	assert.Equal(t, map[string]float64{"opacity": 0, "x": 0}, s.Vars)
	require.Len(t, s.Steps, 2)

	seq := s.Steps[0]
	assert.Equal(t, script.KindSequence, seq.Kind)
	require.Len(t, seq.Children, 4)
	assert.Equal(t, 0.5, seq.Children[0].Seconds)
	assert.Equal(t, 2, seq.Children[1].Frames)
	assert.Equal(t, &script.Node{Kind: script.KindAnimate, Var: "opacity", To: 1, Ease: "quad-out"}, seq.Children[2])
	assert.Equal(t, "faded in", seq.Children[3].Message)

	assert.Equal(t, &script.Node{Kind: script.KindUntil, Var: "opacity", Op: ">=", Value: 1}, s.Steps[1])
}

func TestOutline(t *testing.T) {
	s, err := script.Load("testdata/fade.yaml")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "fade", []byte(s.Outline()))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := script.Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := script.Parse([]byte("steps: [wait: 1"))
	require.Error(t, err)
	assert.Nil(t, script.Problems(err))
}

func TestParse_ShapeErrors(t *testing.T) {
	doc := `
vars: {x: 0}
steps:
  - teleport: 3
  - wait: soon
  - frames: 1.5
  - animate: {var: x, to: 1, speed: 2}
  - {wait: 1, frames: 2}
  - sequence:
      - frames: 1
      - log: [not, a, message]
`
	_, err := script.Parse([]byte(doc))
	require.Error(t, err)

	problems := script.Problems(err)
	require.Len(t, problems, 6)
	assert.ErrorIs(t, problems[0], script.ErrUnknownKind)
	for _, p := range problems[1:] {
		assert.ErrorIs(t, p, script.ErrInvalidStep)
	}

	var pathErr *script.PathError
	require.ErrorAs(t, problems[5], &pathErr)
	assert.Equal(t, "steps[5].sequence[1].log", pathErr.Path)
	assert.Contains(t, err.Error(), "6 script errors")
}

func TestParse_ValidationErrors(t *testing.T) {
	doc := `
vars: {x: 0}
steps:
  - animate: {var: y, to: 1}
  - animate: {var: x, to: 1, ease: bounce}
  - until: {var: x, op: "=>", value: 1}
  - all:
      - set: {var: z, value: 1}
`
	_, err := script.Parse([]byte(doc))
	require.Error(t, err)

	problems := script.Problems(err)
	require.Len(t, problems, 4)
	assert.ErrorIs(t, problems[0], script.ErrUnknownVar)
	assert.ErrorIs(t, problems[1], script.ErrUnknownEase)
	assert.ErrorIs(t, problems[2], script.ErrInvalidOp)
	assert.ErrorIs(t, problems[3], script.ErrUnknownVar)
	assert.ErrorIs(t, err, script.ErrUnknownVar)
	assert.Contains(t, problems[3].Error(), "steps[3].all[0].set")
}

func TestCompile_ValidatesHandBuiltScripts(t *testing.T) {
	s := &script.Script{Steps: []*script.Node{{Kind: "jump"}}}
	_, err := s.Compile(nil, nil)
	assert.ErrorIs(t, err, script.ErrUnknownKind)
}

func TestCompile_RunsFade(t *testing.T) {
	s, err := script.Load("testdata/fade.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := clock.NewManual(0)

	prog, err := s.Compile(m.Clock(), logger)
	require.NoError(t, err)

	tl := coroutines.New(coroutines.WithClock(m.Clock()))
	handles := prog.Start(tl)
	assert.Len(t, handles, 2)

	runUntilEmpty(t, tl, m, 50)

	opacity, ok := prog.Vars.Get("opacity")
	require.True(t, ok)
	assert.Equal(t, 1.0, opacity)
	assert.Contains(t, buf.String(), "faded in")
	assert.Contains(t, buf.String(), "script=fade")
}

func TestCompile_RaceAndSet(t *testing.T) {
	doc := `
vars: {x: 0}
steps:
  - sequence:
      - race:
          - frames: 3
          - wait: 100
      - set: {var: x, value: 7}
`
	s, err := script.Parse([]byte(doc))
	require.NoError(t, err)

	m := clock.NewManual(0)
	prog, err := s.Compile(m.Clock(), nil)
	require.NoError(t, err)

	tl := coroutines.New()
	prog.Start(tl)

	// The clock never moves, so only the frame count can end the race.
	ticks := runUntilEmpty(t, tl, nil, 20)
	assert.Equal(t, 6, ticks)

	x, _ := prog.Vars.Get("x")
	assert.Equal(t, 7.0, x)
}

func TestCompile_Comparisons(t *testing.T) {
	tests := []struct {
		op    string
		value float64
		done  bool
	}{
		{"<", 3, true},
		{"<", 2, false},
		{"<=", 2, true},
		{">", 2, false},
		{">=", 2, true},
		{"==", 2, true},
		{"!=", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			s := &script.Script{
				Vars:  map[string]float64{"x": 2},
				Steps: []*script.Node{{Kind: script.KindUntil, Var: "x", Op: tt.op, Value: tt.value}},
			}
			prog, err := s.Compile(nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.done, prog.Steps[0].Advance())

			// while inverts the same comparison
			s.Steps[0].Kind = script.KindWhile
			prog, err = s.Compile(nil, nil)
			require.NoError(t, err)
			assert.Equal(t, !tt.done, prog.Steps[0].Advance())
		})
	}
}

func TestCompile_FreshProgramEachTime(t *testing.T) {
	s := &script.Script{
		Vars:  map[string]float64{"x": 1},
		Steps: []*script.Node{{Kind: script.KindSet, Var: "x", Value: 9}},
	}
	first, err := s.Compile(nil, nil)
	require.NoError(t, err)
	second, err := s.Compile(nil, nil)
	require.NoError(t, err)

	assert.True(t, first.Steps[0].Advance())

	x, _ := first.Vars.Get("x")
	assert.Equal(t, 9.0, x)
	x, _ = second.Vars.Get("x")
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 1.0, s.Vars["x"])
}

func TestProgram_Done(t *testing.T) {
	s := &script.Script{
		Vars: map[string]float64{"x": 0},
		Steps: []*script.Node{
			{Kind: script.KindFrames, Frames: 1},
			{Kind: script.KindFrames, Frames: 2},
		},
	}
	prog, err := s.Compile(nil, nil)
	require.NoError(t, err)

	done := prog.Done()
	assert.False(t, done.Advance())
	assert.False(t, done.Advance())
	assert.True(t, done.Advance())
}

func TestVars(t *testing.T) {
	v := script.NewVars(map[string]float64{"b": 2, "a": 1})
	assert.Equal(t, []string{"a", "b"}, v.Names())

	snap := v.Snapshot()
	v.Set("a", 10)
	assert.Equal(t, 1.0, snap["a"])

	_, ok := v.Get("c")
	assert.False(t, ok)

	target := v.Target("c")
	assert.Equal(t, 0.0, target.Get())
	target.Set(3)
	c, ok := v.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3.0, c)
}

func TestVars_ConcurrentSnapshots(t *testing.T) {
	v := script.NewVars(map[string]float64{"x": 0})
	target := v.Target("x")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			target.Set(float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			_ = v.Snapshot()
		}
	}()
	wg.Wait()

	x, _ := v.Get("x")
	assert.Equal(t, 999.0, x)
}
