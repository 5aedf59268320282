package report

import (
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTML converts a Markdown report into an HTML fragment. Raw HTML in the
// report comes from uploaded cells and headers, so it is escaped and shown
// as text. Smartypants stays off so values like 1/2 or -- print as written.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          html.HrefTargetBlank,
		RenderNodeHook: escapeRawHTML,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func escapeRawHTML(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch n := node.(type) {
	case *ast.HTMLSpan:
		html.EscapeHTML(w, n.Literal)
		return ast.GoToNext, true
	case *ast.HTMLBlock:
		io.WriteString(w, "<p>")
		html.EscapeHTML(w, n.Literal)
		io.WriteString(w, "</p>\n")
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}
