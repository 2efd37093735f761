package analysis

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTML renders the report as a standalone HTML page. Section markers become
// headings and the preview and summary tables become HTML tables.
func (r *Report) HTML() []byte {
	var b strings.Builder
	for _, line := range strings.Split(r.Markdown(), "\n") {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			b.WriteString("\n## ")
			b.WriteString(strings.Trim(line, "[]"))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Listener dataset report",
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	return markdown.ToHTML([]byte(b.String()), p, renderer)
}
