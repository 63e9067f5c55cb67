package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
	"github.com/hirelens/hirelens/internal/prompt"
)

func testRagConfig() config.RagConfig {
	return config.RagConfig{
		RankTopK:          20,
		ChatTopK:          20,
		CompareTopK:       8,
		ScoreThreshold:    0.25,
		ContextMaxChars:   24000,
		MaxRankCandidates: 5,
	}
}

func newQueryServiceForTest(index *fakeIndex, completer *fakeCompleter, cfg config.RagConfig) *QueryService {
	return NewQueryService(index, &fakeEmbedder{}, completer, prompt.NewAssembler(cfg.ContextMaxChars), cfg)
}

func hit(resumeID, fileName, content string, position int, score float32) model.ScoredChunk {
	return model.ScoredChunk{
		Chunk:    model.Chunk{ResumeID: resumeID, Position: position, Content: content},
		FileName: fileName,
		Score:    score,
	}
}

func TestRankGroupsHitsByCandidate(t *testing.T) {
	index := newFakeIndex()
	// interleaved search order: alice's chunks must regroup before bob's
	index.searchFn = func(resumeIDs []string) ([]model.ScoredChunk, error) {
		return []model.ScoredChunk{
			hit("r-alice", "alice.pdf", "alice leads the platform team", 0, 0.92),
			hit("r-bob", "bob.pdf", "bob maintains the data pipeline", 0, 0.88),
			hit("r-alice", "alice.pdf", "alice mentors junior engineers", 3, 0.70),
		}, nil
	}
	index.chunks["r-alice"] = make([]model.EmbeddedChunk, 1)
	completer := &fakeCompleter{output: `[
		{"file_name":"bob.pdf","job_title_found":"Data Engineer","is_job_title_match":true,"affinity":"Medium","summary":"s","key_requirements_analysis":"a"},
		{"file_name":"alice.pdf","job_title_found":"Platform Lead","is_job_title_match":true,"affinity":"High","summary":"s","key_requirements_analysis":"a"},
		{"file_name":"carol.pdf","job_title_found":"Designer","is_job_title_match":false,"affinity":"High","summary":"s","key_requirements_analysis":"a"}
	]`}
	svc := newQueryServiceForTest(index, completer, testRagConfig())

	candidates, err := svc.Rank(context.Background(), RankQuery{JobTitle: "Backend Engineer", MinYears: 3})
	require.NoError(t, err)

	// non-matching title filtered, remainder ordered by affinity
	require.Len(t, candidates, 2)
	require.Equal(t, "alice.pdf", candidates[0].FileName)
	require.Equal(t, "bob.pdf", candidates[1].FileName)

	require.Len(t, completer.prompts, 1)
	promptText := completer.prompts[0]
	// all of alice's chunks appear before bob's in the assembled context
	require.Less(t,
		strings.Index(promptText, "alice mentors junior engineers"),
		strings.Index(promptText, "bob maintains the data pipeline"))
}

func TestRankTruncatesToMaxCandidates(t *testing.T) {
	index := newFakeIndex()
	index.searchFn = func(resumeIDs []string) ([]model.ScoredChunk, error) {
		return []model.ScoredChunk{hit("r1", "a.pdf", "content", 0, 0.9)}, nil
	}
	index.chunks["r1"] = make([]model.EmbeddedChunk, 1)
	completer := &fakeCompleter{output: `[
		{"file_name":"a.pdf","is_job_title_match":true,"affinity":"High"},
		{"file_name":"b.pdf","is_job_title_match":true,"affinity":"Medium"}
	]`}
	cfg := testRagConfig()
	cfg.MaxRankCandidates = 1
	svc := newQueryServiceForTest(index, completer, cfg)

	candidates, err := svc.Rank(context.Background(), RankQuery{JobTitle: "Engineer"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "a.pdf", candidates[0].FileName)
}

func TestRankRequiresJobTitle(t *testing.T) {
	svc := newQueryServiceForTest(newFakeIndex(), &fakeCompleter{}, testRagConfig())
	_, err := svc.Rank(context.Background(), RankQuery{JobTitle: "   "})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestChatEmptyIndexSkipsModelCall(t *testing.T) {
	index := newFakeIndex() // zero chunks
	completer := &fakeCompleter{output: "unused"}
	svc := newQueryServiceForTest(index, completer, testRagConfig())

	_, err := svc.Chat(context.Background(), "who knows Go?")
	require.ErrorIs(t, err, appErr.ErrEmptyKnowledgeBase)
	require.Empty(t, completer.prompts)
}

func TestChatNoHitsAboveThreshold(t *testing.T) {
	index := newFakeIndex()
	index.chunks["r1"] = make([]model.EmbeddedChunk, 2)
	index.searchFn = func(resumeIDs []string) ([]model.ScoredChunk, error) {
		return nil, nil
	}
	completer := &fakeCompleter{output: "unused"}
	svc := newQueryServiceForTest(index, completer, testRagConfig())

	_, err := svc.Chat(context.Background(), "who knows Cobol?")
	require.ErrorIs(t, err, appErr.ErrEmptyKnowledgeBase)
	require.Empty(t, completer.prompts)
}

func TestChatAnswers(t *testing.T) {
	index := newFakeIndex()
	index.chunks["r1"] = make([]model.EmbeddedChunk, 1)
	index.searchFn = func(resumeIDs []string) ([]model.ScoredChunk, error) {
		return []model.ScoredChunk{hit("r1", "a.pdf", "knows Go well", 0, 0.8)}, nil
	}
	completer := &fakeCompleter{output: "Alice knows Go [a.pdf]."}
	svc := newQueryServiceForTest(index, completer, testRagConfig())

	answer, err := svc.Chat(context.Background(), "who knows Go?")
	require.NoError(t, err)
	require.Equal(t, "Alice knows Go [a.pdf].", answer)
}

func TestCompareValidatesSelection(t *testing.T) {
	svc := newQueryServiceForTest(newFakeIndex(), &fakeCompleter{}, testRagConfig())

	_, err := svc.Compare(context.Background(), "leadership", []string{"r1"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Compare(context.Background(), "leadership", []string{"r1", "r2", "r3", "r4"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Compare(context.Background(), "  ", []string{"r1", "r2"})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestCompareDegradesFailedCandidate(t *testing.T) {
	index := newFakeIndex()
	index.chunks["r1"] = make([]model.EmbeddedChunk, 1)
	index.chunks["r2"] = make([]model.EmbeddedChunk, 1)
	index.searchFn = func(resumeIDs []string) ([]model.ScoredChunk, error) {
		require.Len(t, resumeIDs, 1)
		if resumeIDs[0] == "r2" {
			return nil, errors.New("index glitch")
		}
		return []model.ScoredChunk{hit(resumeIDs[0], resumeIDs[0]+".pdf", "content of "+resumeIDs[0], 0, 0.8)}, nil
	}
	completer := &fakeCompleter{output: "| table |"}
	svc := newQueryServiceForTest(index, completer, testRagConfig())

	answer, err := svc.Compare(context.Background(), "leadership", []string{"r1", "r2"})
	require.NoError(t, err)
	require.Equal(t, "| table |", answer)
	require.Contains(t, completer.prompts[0], "content of r1")
	require.NotContains(t, completer.prompts[0], "content of r2")
}

func TestCompareAllCandidatesEmpty(t *testing.T) {
	index := newFakeIndex()
	index.chunks["r1"] = make([]model.EmbeddedChunk, 1)
	index.searchFn = func(resumeIDs []string) ([]model.ScoredChunk, error) {
		return nil, nil
	}
	completer := &fakeCompleter{output: "unused"}
	svc := newQueryServiceForTest(index, completer, testRagConfig())

	_, err := svc.Compare(context.Background(), "leadership", []string{"r1", "r2"})
	require.ErrorIs(t, err, appErr.ErrEmptyKnowledgeBase)
	require.Empty(t, completer.prompts)
}

func TestParseRankingToleratesCodeFences(t *testing.T) {
	raw := "```json\n[{\"file_name\":\"a.pdf\",\"is_job_title_match\":true,\"affinity\":\"Low\"}]\n```"
	candidates, err := parseRanking(raw)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "a.pdf", candidates[0].FileName)
}

func TestParseRankingRejectsGarbage(t *testing.T) {
	_, err := parseRanking("I could not produce a ranking, sorry.")
	require.ErrorIs(t, err, appErr.ErrExternalService)
}

func TestGroupByResumeOrdering(t *testing.T) {
	hits := []model.ScoredChunk{
		hit("r-b", "b.pdf", "b1", 0, 0.9),
		hit("r-a", "a.pdf", "a1", 0, 0.9),
		hit("r-b", "b.pdf", "b2", 1, 0.5),
	}
	groups := groupByResume(hits)
	require.Len(t, groups, 2)
	// equal best scores break ties on resume id
	require.Equal(t, "r-a", groups[0].ResumeID)
	require.Equal(t, "r-b", groups[1].ResumeID)
	require.Len(t, groups[1].Chunks, 2)
}
