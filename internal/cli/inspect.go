package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/coroutines/internal/presentation/graph"
	"github.com/aretw0/coroutines/internal/presentation/tui"
	"github.com/aretw0/coroutines/pkg/script"
)

// Inspect writes the outline of the script at path to out. Unless raw is
// set the Markdown is rendered for the terminal, wrapped at width.
func Inspect(path string, out io.Writer, width int, raw bool) error {
	sc, err := script.Load(path)
	if err != nil {
		return err
	}

	md := sc.Outline()
	if raw {
		_, err := io.WriteString(out, md)
		return err
	}

	render, err := tui.NewRenderer(width)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	rendered, err := render(md)
	if err != nil {
		return fmt.Errorf("render outline: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// Mermaid writes the script at path to out as a Mermaid flowchart.
func Mermaid(path string, out io.Writer) error {
	sc, err := script.Load(path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, graph.GenerateMermaid(sc))
	return err
}
