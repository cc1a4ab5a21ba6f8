package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/coroutines/pkg/script"
)

// GenerateMermaid produces a Mermaid flowchart syntax string for a script.
// It applies semantic styling:
// - Script: ((Circle)), with an edge to every root step
// - Waits (wait, frames): [/Parallelogram/]
// - Animate: [[Subroutine]]
// - Conditions (until, while): {Rhombus}
// - Composites (sequence, race, all): {{Hexagon}}
// - Log: >Flag]
// - Default: [Rectangle]
// Sequence children are chained with "then" edges; race children hang off
// dotted edges.
func GenerateMermaid(s *script.Script) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	name := s.Name
	if name == "" {
		name = "timeline"
	}
	fmt.Fprintf(&sb, "    start((\"%s\"))\n", escape(name))

	g := &generator{sb: &sb}
	for _, n := range s.Steps {
		id := g.node(n)
		fmt.Fprintf(&sb, "    start --> %s\n", id)
	}
	return sb.String()
}

type generator struct {
	sb   *strings.Builder
	next int
}

func (g *generator) node(n *script.Node) string {
	id := "n" + strconv.Itoa(g.next)
	g.next++

	opener, closer := shape(n.Kind)
	fmt.Fprintf(g.sb, "    %s%s\"%s\"%s\n", id, opener, escape(label(n)), closer)

	prev := id
	for i, c := range n.Children {
		cid := g.node(c)
		switch {
		case n.Kind == script.KindSequence && i > 0:
			fmt.Fprintf(g.sb, "    %s -- then --> %s\n", prev, cid)
		case n.Kind == script.KindRace:
			fmt.Fprintf(g.sb, "    %s -.-> %s\n", id, cid)
		default:
			fmt.Fprintf(g.sb, "    %s --> %s\n", id, cid)
		}
		prev = cid
	}
	return id
}

func shape(k script.Kind) (opener, closer string) {
	switch k {
	case script.KindWait, script.KindFrames:
		return "[/", "/]"
	case script.KindAnimate:
		return "[[", "]]"
	case script.KindUntil, script.KindWhile:
		return "{", "}"
	case script.KindSequence, script.KindRace, script.KindAll:
		return "{{", "}}"
	case script.KindLog:
		return ">", "]"
	}
	return "[", "]"
}

func label(n *script.Node) string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	switch n.Kind {
	case script.KindWait:
		return "wait " + num(n.Seconds) + "s"
	case script.KindFrames:
		return "frames " + strconv.Itoa(n.Frames)
	case script.KindAnimate:
		ease := n.Ease
		if ease == "" {
			ease = "linear"
		}
		return fmt.Sprintf("animate %s to %s (%s)", n.Var, num(n.To), ease)
	case script.KindSet:
		return fmt.Sprintf("set %s = %s", n.Var, num(n.Value))
	case script.KindLog:
		return "log: " + n.Message
	case script.KindUntil, script.KindWhile:
		return fmt.Sprintf("%s %s %s %s", n.Kind, n.Var, n.Op, num(n.Value))
	}
	return string(n.Kind)
}

// escape keeps labels inside their double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
