package model

// Chunk is a section-bounded span of résumé text, the retrieval unit.
// Section is empty for content that appears before the first title.
type Chunk struct {
	ResumeID string `json:"resume_id"`
	Position int    `json:"position"`
	Section  string `json:"section"`
	Content  string `json:"content"`
	// TokenCount is a heuristic estimate, kept for diagnostics.
	TokenCount int `json:"token_count"`
}

// EmbeddedChunk pairs a chunk with its embedding vector.
type EmbeddedChunk struct {
	Chunk
	ContentHash string    `json:"content_hash"`
	Embedding   []float32 `json:"-"`
}

// ScoredChunk is one retrieval hit. FileName carries the source résumé's
// upload name so the model can attribute claims.
type ScoredChunk struct {
	Chunk
	FileName string  `json:"file_name"`
	Score    float32 `json:"score"`
}

// CandidateChunks groups one résumé's best-scoring hits for the ranking
// flow, so every matching candidate is represented in the prompt.
type CandidateChunks struct {
	ResumeID  string        `json:"resume_id"`
	FileName  string        `json:"file_name"`
	BestScore float32       `json:"best_score"`
	Chunks    []ScoredChunk `json:"chunks"`
}
