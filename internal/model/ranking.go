package model

// RankedCandidate is one entry of the model's JSON answer to a ranking
// query, after parsing and affinity ordering.
type RankedCandidate struct {
	FileName            string `json:"file_name"`
	JobTitleFound       string `json:"job_title_found"`
	IsJobTitleMatch     bool   `json:"is_job_title_match"`
	Affinity            string `json:"affinity"`
	Summary             string `json:"summary"`
	RequirementAnalysis string `json:"key_requirements_analysis"`
}
