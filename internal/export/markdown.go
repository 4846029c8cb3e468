package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gosuda/kanban/internal/domain"
)

// ErrNoBoardTitle is returned when a markdown document has no level-1 heading.
var ErrNoBoardTitle = errors.New("export: markdown has no board title")

// cardSeparator splits a list item into card title and description.
const cardSeparator = ": "

// Document is a board read from markdown, before validation.
type Document struct {
	Title       string
	Description string
	Columns     []DocumentColumn
}

type DocumentColumn struct {
	Title string
	Cards []DocumentCard
}

type DocumentCard struct {
	Title       string
	Description string
}

// RenderMarkdown writes a snapshot as
//
//	# Board title
//
//	Board description
//
//	## Column
//
//	- Card title: card description
func RenderMarkdown(snap *domain.BoardSnapshot) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", oneLine(snap.Title))
	if snap.Description != nil && *snap.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", oneLine(*snap.Description))
	}

	for _, col := range snap.Columns {
		fmt.Fprintf(&b, "## %s\n\n", oneLine(col.Title))
		for _, card := range col.Cards {
			b.WriteString("- ")
			b.WriteString(oneLine(card.Title))
			if card.Description != "" {
				b.WriteString(cardSeparator)
				b.WriteString(oneLine(card.Description))
			}
			b.WriteString("\n")
		}
		if len(col.Cards) > 0 {
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

// ParseMarkdown reads the format written by RenderMarkdown. Paragraphs after
// the first column heading are ignored, as are nested lists.
func ParseMarkdown(source []byte) (*Document, error) {
	doc := &Document{}
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var (
		current  *DocumentColumn
		titleSet bool
		walkErr  error
	)

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := lineText(node, source)
			switch node.Level {
			case 1:
				if !titleSet {
					doc.Title = heading
					titleSet = true
				}
			case 2:
				doc.Columns = append(doc.Columns, DocumentColumn{Title: heading})
				current = &doc.Columns[len(doc.Columns)-1]
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			if titleSet && current == nil && doc.Description == "" {
				doc.Description = lineText(node, source)
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			if current == nil {
				walkErr = errors.New("export.ParseMarkdown: card listed before any column heading")
				return ast.WalkStop, nil
			}
			if node.FirstChild() != nil {
				current.Cards = append(current.Cards, parseCard(lineText(node.FirstChild(), source)))
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("export.ParseMarkdown: %w", err)
	}
	if walkErr != nil {
		return nil, walkErr
	}
	if !titleSet {
		return nil, ErrNoBoardTitle
	}

	return doc, nil
}

func parseCard(item string) DocumentCard {
	title, desc, _ := strings.Cut(item, cardSeparator)
	return DocumentCard{Title: strings.TrimSpace(title), Description: strings.TrimSpace(desc)}
}

// lineText joins the raw source lines of a block node.
func lineText(n ast.Node, source []byte) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := range lines.Len() {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
