package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hirelens/hirelens/internal/model"
)

// parseMarkdown maps top-level markdown blocks onto structural elements:
// headings become titles, list items stay individual, fenced code blocks
// are kept as "other" so no content is lost.
func parseMarkdown(resumeID string, content []byte) []model.Element {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var elements []model.Element
	add := func(kind model.ElementKind, txt string) {
		txt = strings.TrimSpace(txt)
		if txt == "" {
			return
		}
		elements = append(elements, model.Element{
			Kind:     kind,
			Text:     txt,
			ResumeID: resumeID,
			Position: len(elements),
		})
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			add(model.ElementTitle, string(n.Text(content)))
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				add(model.ElementListItem, extractText(item, content))
			}
		case *ast.FencedCodeBlock:
			var sb strings.Builder
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				sb.Write(line.Value(content))
			}
			add(model.ElementOther, sb.String())
		case *ast.Paragraph:
			txt := extractText(n, content)
			if isTableRow(txt) {
				add(model.ElementTable, txt)
			} else {
				add(model.ElementText, txt)
			}
		default:
			add(model.ElementOther, extractText(node, content))
		}
	}
	return elements
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
