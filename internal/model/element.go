package model

type ElementKind string

const (
	ElementTitle    ElementKind = "title"
	ElementText     ElementKind = "narrative_text"
	ElementListItem ElementKind = "list_item"
	ElementTable    ElementKind = "table"
	ElementOther    ElementKind = "other"
)

// Element is one typed span of text produced by the parser. Elements keep
// the reading order of the source document and are immutable once built.
type Element struct {
	Kind     ElementKind `json:"kind"`
	Text     string      `json:"text"`
	ResumeID string      `json:"resume_id"`
	Position int         `json:"position"`
}
