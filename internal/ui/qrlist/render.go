package qrlist

import (
	"context"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/quickreturn/internal/cachemanager"
	"github.com/zjrosen/quickreturn/internal/log"
	"github.com/zjrosen/quickreturn/internal/ui/shared/markdown"
	"github.com/zjrosen/quickreturn/internal/ui/styles"
)

type renderKey string

type renderInput struct {
	kind  entryKind
	text  string
	width int
}

// renderer turns rows into styled lines. Rendering is deterministic for a
// (kind, width, text) triple, so results are cached; measuring a row for the
// height index and drawing it share the cache.
type renderer struct {
	mode  string
	md    *markdown.Renderer
	cache *cachemanager.ReadThroughCache[renderKey, []string, renderInput]
}

func newRenderer(mode, markdownStyle string) *renderer {
	r := &renderer{mode: mode}
	if mode == "markdown" {
		r.md = markdown.New(markdownStyle)
	}
	store := cachemanager.NewInMemoryCacheManager[renderKey, []string](
		"qrlist-rows", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	r.cache = cachemanager.NewReadThroughCache[renderKey, []string, renderInput](store, r.render, false)
	return r
}

func (r *renderer) lines(e entry, width int) []string {
	in := renderInput{kind: e.kind, text: e.text, width: width}
	key := renderKey(e.kind.String() + ":" + strconv.Itoa(width) + ":" + e.text)
	lines, err := r.cache.Get(context.Background(), key, in, 0)
	if err != nil {
		// render never fails; markdown errors fall back to plain text.
		return []string{e.text}
	}
	return lines
}

func (r *renderer) render(_ context.Context, in renderInput) ([]string, error) {
	width := max(in.width, 1)

	var body string
	switch in.kind {
	case kindHeader, kindFooter:
		body = styles.HeaderFooterStyle.Width(width).Render(wrap(in.text, width-1))
	default:
		body = r.renderItem(in.text, width)
	}

	lines := strings.Split(body, "\n")
	if in.kind == kindItem {
		lines = append(lines, styles.ItemSeparatorStyle.Render(strings.Repeat("─", width)))
	}
	return lines, nil
}

func (r *renderer) renderItem(text string, width int) string {
	if r.md != nil {
		out, err := r.md.Render(text, width)
		if err == nil && out != "" {
			return out
		}
		log.ErrorErr(log.CatUI, "markdown render failed, using plain text", err)
	}
	return styles.ItemStyle.Width(width).Render(wrap(text, width-1))
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// blankLines returns n empty rows of the given width.
func blankLines(n, width int) []string {
	line := styles.PlaceholderStyle.Render(strings.Repeat(" ", max(width, 0)))
	out := make([]string, n)
	for i := range out {
		out[i] = line
	}
	return out
}
