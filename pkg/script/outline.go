package script

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Outline renders the script as a Markdown document.
func (s *Script) Outline() string {
	var b strings.Builder

	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	if len(s.Vars) > 0 {
		b.WriteString("| var | initial |\n|---|---|\n")
		for _, k := range slices.Sorted(maps.Keys(s.Vars)) {
			fmt.Fprintf(&b, "| %s | %s |\n", k, num(s.Vars[k]))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d root step(s), started together:\n\n", len(s.Steps))
	for _, n := range s.Steps {
		writeNode(&b, n, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	fmt.Fprintf(b, "%s- %s\n", strings.Repeat("  ", depth), describe(n))
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
}

func describe(n *Node) string {
	switch n.Kind {
	case KindWait:
		return fmt.Sprintf("wait %ss", num(n.Seconds))
	case KindFrames:
		return fmt.Sprintf("frames %d", n.Frames)
	case KindAnimate:
		ease := n.Ease
		if ease == "" {
			ease = "linear"
		}
		return fmt.Sprintf("animate `%s` to %s (%s)", n.Var, num(n.To), ease)
	case KindSet:
		return fmt.Sprintf("set `%s` = %s", n.Var, num(n.Value))
	case KindLog:
		return fmt.Sprintf("log %q", n.Message)
	case KindUntil:
		return fmt.Sprintf("until `%s %s %s`", n.Var, n.Op, num(n.Value))
	case KindWhile:
		return fmt.Sprintf("while `%s %s %s`", n.Var, n.Op, num(n.Value))
	case KindSequence:
		return "sequence (one after another)"
	case KindRace:
		return "race (until the first finishes)"
	case KindAll:
		return "all (until every one finishes)"
	}
	return string(n.Kind)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
