package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/hirelens/hirelens/internal/ai"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
	"github.com/hirelens/hirelens/internal/prompt"
)

// QueryService owns the read path: pick the retrieval strategy for the
// intent, gather chunks from the vector index, assemble the prompt and
// run it through the language model.
type QueryService struct {
	index     VectorIndex
	embedder  Embedder
	completer Completer
	assembler *prompt.Assembler
	cfg       config.RagConfig
}

func NewQueryService(index VectorIndex, embedder Embedder, completer Completer, assembler *prompt.Assembler, cfg config.RagConfig) *QueryService {
	return &QueryService{
		index:     index,
		embedder:  embedder,
		completer: completer,
		assembler: assembler,
		cfg:       cfg,
	}
}

// RankQuery carries the recruiter's structured role filters.
type RankQuery struct {
	JobTitle     string `json:"job_title"`
	MinYears     int    `json:"min_years"`
	Skills       string `json:"skills"`
	Requirements string `json:"requirements"`
}

func (q RankQuery) text() string {
	parts := []string{fmt.Sprintf("Looking for a %q with at least %d years of experience.", q.JobTitle, q.MinYears)}
	if q.Skills != "" {
		parts = append(parts, fmt.Sprintf("Must-have skills: %s.", q.Skills))
	}
	if q.Requirements != "" {
		parts = append(parts, fmt.Sprintf("Other important requirements: %s", q.Requirements))
	}
	return strings.Join(parts, " ")
}

// Rank searches the whole index with the job description, regroups hits
// so every matching candidate is represented by its own best chunks, and
// asks the model for a JSON ranking.
func (s *QueryService) Rank(ctx context.Context, query RankQuery) ([]model.RankedCandidate, error) {
	if strings.TrimSpace(query.JobTitle) == "" {
		return nil, appErr.ErrInvalid
	}
	queryText := query.text()
	hits, err := s.retrieve(ctx, queryText, s.cfg.RankTopK, nil)
	if err != nil {
		return nil, err
	}
	grouped := flattenGroups(groupByResume(hits))

	promptText, err := s.assembler.Assemble(model.IntentRank, queryText, grouped)
	if err != nil {
		return nil, err
	}
	raw, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrExternalService, err)
	}
	candidates, err := parseRanking(raw)
	if err != nil {
		return nil, err
	}
	if len(candidates) > s.cfg.MaxRankCandidates {
		candidates = candidates[:s.cfg.MaxRankCandidates]
	}
	return candidates, nil
}

// Chat answers a free-text question over a flat top-K search; one
// candidate dominating the results is intentional here.
func (s *QueryService) Chat(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", appErr.ErrInvalid
	}
	hits, err := s.retrieve(ctx, question, s.cfg.ChatTopK, nil)
	if err != nil {
		return "", err
	}
	promptText, err := s.assembler.Assemble(model.IntentChat, question, hits)
	if err != nil {
		return "", err
	}
	answer, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrExternalService, err)
	}
	return answer, nil
}

// Compare runs one filtered search per selected résumé so every
// candidate is represented regardless of relative scores. A failed
// per-candidate search degrades that candidate to an empty result set
// instead of aborting the comparison.
func (s *QueryService) Compare(ctx context.Context, criterion string, resumeIDs []string) (string, error) {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" || len(resumeIDs) < 2 || len(resumeIDs) > 3 {
		return "", appErr.ErrInvalid
	}
	if err := s.ensureIndexed(ctx); err != nil {
		return "", err
	}
	queryVec, err := s.embedQuery(ctx, criterion)
	if err != nil {
		return "", err
	}

	logger := logutil.GetLogger(ctx)
	var hits []model.ScoredChunk
	for _, resumeID := range resumeIDs {
		candidateHits, err := s.index.Search(ctx, queryVec, s.cfg.CompareTopK, []string{resumeID}, s.cfg.ScoreThreshold)
		if err != nil {
			logger.Warn("candidate search failed, degrading to empty",
				zap.String("resume_id", resumeID), zap.Error(err))
			continue
		}
		hits = append(hits, candidateHits...)
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("%w: no indexed content for selected candidates", appErr.ErrEmptyKnowledgeBase)
	}
	sortByScore(hits)

	promptText, err := s.assembler.Assemble(model.IntentCompare, criterion, hits)
	if err != nil {
		return "", err
	}
	answer, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrExternalService, err)
	}
	return answer, nil
}

func (s *QueryService) retrieve(ctx context.Context, queryText string, topK int, resumeIDs []string) ([]model.ScoredChunk, error) {
	if err := s.ensureIndexed(ctx); err != nil {
		return nil, err
	}
	queryVec, err := s.embedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}
	hits, err := s.index.Search(ctx, queryVec, topK, resumeIDs, s.cfg.ScoreThreshold)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: nothing relevant above threshold", appErr.ErrEmptyKnowledgeBase)
	}
	return hits, nil
}

// ensureIndexed fails fast before any model call when nothing has been
// ingested yet.
func (s *QueryService) ensureIndexed(ctx context.Context) error {
	count, err := s.index.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return appErr.ErrEmptyKnowledgeBase
	}
	return nil
}

func (s *QueryService) embedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embedder.Embed(ctx, text, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", appErr.ErrExternalService, err)
	}
	return vec, nil
}

// groupByResume buckets hits per résumé, candidates ordered by their best
// score, chunks within a candidate by score.
func groupByResume(hits []model.ScoredChunk) []model.CandidateChunks {
	byResume := map[string]*model.CandidateChunks{}
	var order []string
	for _, hit := range hits {
		group, ok := byResume[hit.ResumeID]
		if !ok {
			group = &model.CandidateChunks{ResumeID: hit.ResumeID, FileName: hit.FileName}
			byResume[hit.ResumeID] = group
			order = append(order, hit.ResumeID)
		}
		group.Chunks = append(group.Chunks, hit)
		if hit.Score > group.BestScore {
			group.BestScore = hit.Score
		}
	}
	groups := make([]model.CandidateChunks, 0, len(order))
	for _, id := range order {
		group := byResume[id]
		sortByScore(group.Chunks)
		groups = append(groups, *group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].BestScore != groups[j].BestScore {
			return groups[i].BestScore > groups[j].BestScore
		}
		return groups[i].ResumeID < groups[j].ResumeID
	})
	return groups
}

func flattenGroups(groups []model.CandidateChunks) []model.ScoredChunk {
	var flat []model.ScoredChunk
	for _, group := range groups {
		flat = append(flat, group.Chunks...)
	}
	return flat
}

func sortByScore(hits []model.ScoredChunk) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].ResumeID != hits[j].ResumeID {
			return hits[i].ResumeID < hits[j].ResumeID
		}
		return hits[i].Position < hits[j].Position
	})
}

var affinityRank = map[string]int{"High": 3, "Medium": 2, "Low": 1}

// parseRanking extracts the JSON array from the model output, tolerating
// code fences, then filters non-matches and orders by affinity.
func parseRanking(output string) ([]model.RankedCandidate, error) {
	clean := strings.TrimSpace(output)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	start := strings.Index(clean, "[")
	end := strings.LastIndex(clean, "]")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	var candidates []model.RankedCandidate
	if err := json.Unmarshal([]byte(clean), &candidates); err != nil {
		return nil, fmt.Errorf("%w: parse ranking response: %v", appErr.ErrExternalService, err)
	}
	matched := make([]model.RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.IsJobTitleMatch {
			matched = append(matched, candidate)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return affinityRank[matched[i].Affinity] > affinityRank[matched[j].Affinity]
	})
	return matched, nil
}
