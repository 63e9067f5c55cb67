// Package parser turns raw résumé files into an ordered sequence of typed
// structural elements. Parsing is a pure function over the file bytes.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

// Parse dispatches on the file extension. Unknown extensions fail with
// ErrUnsupportedFormat, unreadable content with ErrParse. Elements that
// cannot be classified are tagged "other", never dropped.
func Parse(resumeID, fileName string, content []byte) ([]model.Element, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	var (
		elements []model.Element
		err      error
	)
	switch ext {
	case ".pdf":
		var text string
		text, err = extractPDFText(content)
		if err == nil {
			elements = classifyText(resumeID, text)
		}
	case ".md", ".markdown":
		elements = parseMarkdown(resumeID, content)
	case ".txt", ".text":
		elements = classifyText(resumeID, string(content))
	default:
		return nil, fmt.Errorf("%w: %q", appErr.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrParse, err)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: no text content in %s", appErr.ErrParse, fileName)
	}
	return elements, nil
}

// classifyText applies line heuristics to plain extracted text.
// Consecutive narrative lines merge into one paragraph element.
func classifyText(resumeID, text string) []model.Element {
	var elements []model.Element
	var paragraph []string

	add := func(kind model.ElementKind, content string) {
		elements = append(elements, model.Element{
			Kind:     kind,
			Text:     content,
			ResumeID: resumeID,
			Position: len(elements),
		})
	}
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		add(model.ElementText, strings.Join(paragraph, " "))
		paragraph = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		switch {
		case isListItem(trimmed):
			flush()
			add(model.ElementListItem, stripBullet(trimmed))
		case isTableRow(trimmed):
			flush()
			add(model.ElementTable, trimmed)
		case isTitle(trimmed):
			flush()
			add(model.ElementTitle, trimmed)
		case !hasLetters(trimmed):
			flush()
			add(model.ElementOther, trimmed)
		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	flush()
	return elements
}

// Section names commonly heading a résumé, in English and Spanish.
var sectionNames = map[string]bool{
	"experience": true, "work experience": true, "professional experience": true,
	"education": true, "skills": true, "technical skills": true,
	"projects": true, "certifications": true, "languages": true,
	"summary": true, "profile": true, "contact": true, "references": true,
	"achievements": true, "awards": true, "interests": true, "publications": true,
	"experiencia": true, "experiencia laboral": true, "experiencia profesional": true,
	"educacion": true, "educación": true, "formacion": true, "formación": true,
	"habilidades": true, "idiomas": true, "perfil": true, "resumen": true,
	"certificaciones": true, "proyectos": true, "referencias": true,
	"contacto": true, "logros": true,
}

const maxTitleLen = 60

func isTitle(line string) bool {
	if len(line) > maxTitleLen {
		return false
	}
	if strings.ContainsAny(string(line[len(line)-1]), ".!?,;") {
		return false
	}
	normalized := strings.ToLower(strings.TrimRight(line, ":"))
	if sectionNames[normalized] {
		return true
	}
	return isAllCaps(line) || isTitleCase(line)
}

func isListItem(line string) bool {
	for _, prefix := range []string{"- ", "* ", "• ", "· ", "◦ "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func stripBullet(line string) string {
	for _, prefix := range []string{"- ", "* ", "• ", "· ", "◦ "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return line
}

func isTableRow(line string) bool {
	return strings.Count(line, "|") >= 2 || strings.Count(line, "\t") >= 2
}

func isAllCaps(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters > 0
}

func isTitleCase(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 5 {
		return false
	}
	for _, word := range words {
		first := []rune(word)[0]
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

func hasLetters(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
