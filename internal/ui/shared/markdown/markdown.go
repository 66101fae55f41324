// Package markdown renders list items as styled markdown.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer renders markdown at any width. glamour wraps at construction
// time, so one term renderer is kept per width seen.
type Renderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

// New creates a renderer. style should be "dark" or "light"; empty means
// "dark". WithAutoStyle is avoided because its terminal query leaks escape
// responses into the input stream.
func New(style string) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Style returns the glamour style name in use.
func (r *Renderer) Style() string {
	return r.style
}

func (r *Renderer) forWidth(width int) (*glamour.TermRenderer, error) {
	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(r.style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}

// Render transforms markdown into styled terminal output wrapped at width.
// Blank lines glamour adds around the document are removed.
func (r *Renderer) Render(text string, width int) (string, error) {
	tr, err := r.forWidth(max(width, 1))
	if err != nil {
		return "", err
	}
	out, err := tr.Render(text)
	if err != nil {
		return "", err
	}
	return trimBlankLines(out), nil
}

// trimBlankLines drops leading and trailing lines that are empty once
// styling is stripped. glamour pads blank lines to the wrap width.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	blank := func(l string) bool { return strings.TrimSpace(ansi.Strip(l)) == "" }

	start, end := 0, len(lines)
	for start < end && blank(lines[start]) {
		start++
	}
	for end > start && blank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
