package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParser is shared across loads; goldmark parsers are stateless.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// loadMarkdown parses a markdown file and flattens it to plain text.
// Headings, paragraphs, lists, code blocks and tables are kept as text lines;
// markup syntax is dropped so embeddings see prose, not formatting.
func loadMarkdown(path string) ([]Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if len(content) == 0 {
		return []Document{}, nil
	}

	reader := text.NewReader(content)
	doc := markdownParser.Parser().Parse(reader)

	var builder strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			ensureParagraphBreak(&builder)
			builder.WriteString(extractNodeText(node, content))
			builder.WriteString("\n")
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			ensureParagraphBreak(&builder)
			return ast.WalkContinue, nil

		case *ast.ListItem:
			ensureLineBreak(&builder)
			return ast.WalkContinue, nil

		case *ast.Text:
			builder.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				builder.WriteString("\n")
			}
			return ast.WalkContinue, nil

		case *ast.String:
			builder.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			ensureParagraphBreak(&builder)
			writeCodeLines(&builder, node.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			ensureParagraphBreak(&builder)
			writeCodeLines(&builder, node.Lines(), content)
			return ast.WalkSkipChildren, nil

		default:
			// Table extension nodes don't have exported types here; detect by kind name.
			kindName := n.Kind().String()
			if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
				ensureLineBreak(&builder)
				builder.WriteString(extractTableRowText(n, content))
				builder.WriteString("\n")
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return []Document{{Text: builder.String()}}, nil
}

// extractNodeText extracts the plain text content from a node and its children.
func extractNodeText(n ast.Node, content []byte) string {
	var builder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			builder.Write(v.Segment.Value(content))
		case *ast.String:
			builder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

// extractTableRowText extracts text from a table row, joining cells with pipes.
func extractTableRowText(row ast.Node, content []byte) string {
	var builder strings.Builder
	cellCount := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if strings.Contains(node.Kind().String(), "TableCell") {
			if cellCount > 0 {
				builder.WriteString(" | ")
			}
			builder.WriteString(extractNodeText(node, content))
			cellCount++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return builder.String()
}

func writeCodeLines(builder *strings.Builder, lines *text.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(content))
	}
}

func ensureLineBreak(builder *strings.Builder) {
	s := builder.String()
	if len(s) > 0 && !strings.HasSuffix(s, "\n") {
		builder.WriteString("\n")
	}
}

func ensureParagraphBreak(builder *strings.Builder) {
	s := builder.String()
	if len(s) == 0 {
		return
	}
	if !strings.HasSuffix(s, "\n\n") {
		if strings.HasSuffix(s, "\n") {
			builder.WriteString("\n")
		} else {
			builder.WriteString("\n\n")
		}
	}
}
