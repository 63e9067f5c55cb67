package model

const (
	ResumeStateNormal  = 1
	ResumeStateDeleted = 2
)

// Resume is the registry entry for one ingested résumé document.
type Resume struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ContentHash string `json:"content_hash"`
	ChunkCount  int    `json:"chunk_count"`
	State       int    `json:"state"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}
