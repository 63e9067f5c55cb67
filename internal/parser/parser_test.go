package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse("r1", "resume.docx", []byte("whatever"))
	require.ErrorIs(t, err, appErr.ErrUnsupportedFormat)
}

func TestParseEmptyContent(t *testing.T) {
	_, err := Parse("r1", "resume.txt", []byte("   \n\n  "))
	require.ErrorIs(t, err, appErr.ErrParse)
}

func TestParseCorruptPDF(t *testing.T) {
	_, err := Parse("r1", "resume.pdf", []byte("this is not a pdf"))
	require.ErrorIs(t, err, appErr.ErrParse)
}

func TestParsePlainText(t *testing.T) {
	content := []byte(`JANE DOE

Experience
Worked at Acme as a backend engineer.
Shipped the billing system rewrite.

Skills
- Go
- SQL

Go | Python | SQL
`)
	elements, err := Parse("r1", "resume.txt", content)
	require.NoError(t, err)

	kinds := make([]model.ElementKind, 0, len(elements))
	texts := make([]string, 0, len(elements))
	for _, el := range elements {
		kinds = append(kinds, el.Kind)
		texts = append(texts, el.Text)
	}
	require.Equal(t, []model.ElementKind{
		model.ElementTitle,    // JANE DOE (all caps)
		model.ElementTitle,    // Experience (known section name)
		model.ElementText,     // merged paragraph
		model.ElementTitle,    // Skills
		model.ElementListItem, // Go
		model.ElementListItem, // SQL
		model.ElementTable,    // pipe separated row
	}, kinds)
	require.Equal(t, "Worked at Acme as a backend engineer. Shipped the billing system rewrite.", texts[2])
	require.Equal(t, "Go", texts[4])

	for i, el := range elements {
		require.Equal(t, i, el.Position)
		require.Equal(t, "r1", el.ResumeID)
	}
}

func TestParseSpanishSectionNames(t *testing.T) {
	content := []byte("Experiencia Laboral:\nDesarrollador backend en Acme.\n")
	elements, err := Parse("r1", "cv.txt", content)
	require.NoError(t, err)
	require.Equal(t, model.ElementTitle, elements[0].Kind)
	require.Equal(t, "Experiencia Laboral:", elements[0].Text)
}

func TestParseMarkdown(t *testing.T) {
	content := []byte(`# Experience

Senior engineer at Initech, 2019 to 2024.

## Skills

- Distributed systems
- Postgres

` + "```\nfmt.Println(\"hello\")\n```\n")
	elements, err := Parse("r1", "resume.md", content)
	require.NoError(t, err)

	kinds := make([]model.ElementKind, 0, len(elements))
	for _, el := range elements {
		kinds = append(kinds, el.Kind)
	}
	require.Equal(t, []model.ElementKind{
		model.ElementTitle,
		model.ElementText,
		model.ElementTitle,
		model.ElementListItem,
		model.ElementListItem,
		model.ElementOther,
	}, kinds)
	require.Equal(t, "Experience", elements[0].Text)
	require.Equal(t, "Distributed systems", elements[3].Text)
}

func TestIsTitleHeuristics(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Experience", true},
		{"EDUCATION", true},
		{"Technical Skills", true},
		{"Worked at Acme as a backend engineer for five years, shipping code.", false},
		{"ends with period.", false},
		{"lowercase start here", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, isTitle(tt.line), "line: %q", tt.line)
	}
}
