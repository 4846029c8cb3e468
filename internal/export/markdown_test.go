package export_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/export"
)

func sampleSnapshot() *domain.BoardSnapshot {
	desc := "Q3 plan"
	todo := uuid.New()
	done := uuid.New()
	return &domain.BoardSnapshot{
		Board: domain.Board{ID: uuid.New(), Title: "Roadmap", Description: &desc},
		Columns: []domain.ColumnWithCards{
			{
				Column: domain.Column{ID: todo, Title: "Todo"},
				Cards: []domain.Card{
					{ID: uuid.New(), ColumnID: todo, Title: "Write docs", Description: "api and cli", Order: 0},
					{ID: uuid.New(), ColumnID: todo, Title: "Ship", Order: 1},
				},
			},
			{Column: domain.Column{ID: done, Title: "Done"}, Cards: []domain.Card{}},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	got := string(export.RenderMarkdown(sampleSnapshot()))

	want := "# Roadmap\n\n" +
		"Q3 plan\n\n" +
		"## Todo\n\n" +
		"- Write docs: api and cli\n" +
		"- Ship\n\n" +
		"## Done\n\n"
	assert.Equal(t, want, got)
}

func TestRenderMarkdown_FlattensNewlines(t *testing.T) {
	t.Parallel()

	snap := &domain.BoardSnapshot{
		Board: domain.Board{Title: "Ops"},
		Columns: []domain.ColumnWithCards{{
			Column: domain.Column{Title: "Now"},
			Cards:  []domain.Card{{Title: "Page", Description: "line one\nline two"}},
		}},
	}

	got := string(export.RenderMarkdown(snap))

	assert.Contains(t, got, "- Page: line one line two\n")
	assert.NotContains(t, got, "Ops\n\n\n", "nil description renders no paragraph")
}

func TestParseMarkdown_ReadsRenderedBoard(t *testing.T) {
	t.Parallel()

	doc, err := export.ParseMarkdown(export.RenderMarkdown(sampleSnapshot()))
	require.NoError(t, err)

	assert.Equal(t, "Roadmap", doc.Title)
	assert.Equal(t, "Q3 plan", doc.Description)
	require.Len(t, doc.Columns, 2)
	assert.Equal(t, "Todo", doc.Columns[0].Title)
	assert.Equal(t, []export.DocumentCard{
		{Title: "Write docs", Description: "api and cli"},
		{Title: "Ship"},
	}, doc.Columns[0].Cards)
	assert.Equal(t, "Done", doc.Columns[1].Title)
	assert.Empty(t, doc.Columns[1].Cards)
}

func TestParseMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, doc *export.Document)
		wantErr bool
	}{
		{
			name:  "no description",
			input: "# Board\n\n## A\n\n- one\n",
			check: func(t *testing.T, doc *export.Document) {
				assert.Empty(t, doc.Description)
				require.Len(t, doc.Columns, 1)
				assert.Len(t, doc.Columns[0].Cards, 1)
			},
		},
		{
			name:  "separator only splits once",
			input: "# Board\n\n## A\n\n- deploy: step one: step two\n",
			check: func(t *testing.T, doc *export.Document) {
				assert.Equal(t, export.DocumentCard{Title: "deploy", Description: "step one: step two"}, doc.Columns[0].Cards[0])
			},
		},
		{
			name:  "paragraph under column ignored",
			input: "# Board\n\n## A\n\nnotes here\n\n- one\n",
			check: func(t *testing.T, doc *export.Document) {
				assert.Empty(t, doc.Description)
				assert.Len(t, doc.Columns[0].Cards, 1)
			},
		},
		{
			name:  "star bullets and loose list",
			input: "# Board\n\n## A\n\n* one\n\n* two: d\n",
			check: func(t *testing.T, doc *export.Document) {
				require.Len(t, doc.Columns[0].Cards, 2)
				assert.Equal(t, "two", doc.Columns[0].Cards[1].Title)
				assert.Equal(t, "d", doc.Columns[0].Cards[1].Description)
			},
		},
		{
			name:    "missing title",
			input:   "## A\n\n- one\n",
			wantErr: true,
		},
		{
			name:    "card before column",
			input:   "# Board\n\n- stray\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := export.ParseMarkdown([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}
}

func TestParseMarkdown_MissingTitleSentinel(t *testing.T) {
	t.Parallel()

	_, err := export.ParseMarkdown([]byte("just text\n"))
	assert.ErrorIs(t, err, export.ErrNoBoardTitle)
}
