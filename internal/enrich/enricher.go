package enrich

import (
	"context"
	"log/slog"

	"youngtalents/pipeline-service/internal/model"
)

// Fixed degraded results used when the remote call fails. The summary text
// matches what the board UI shows for a failed analysis.
const (
	FallbackSummary  = "Falha na análise da IA. Verifique a chave da API."
	FallbackQuestion = "Fale um pouco sobre sua experiência."
)

// Analysis is the scoring result attached to a candidate.
type Analysis struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// Analyzer is the remote enrichment contract. Both calls are independently
// fallible.
type Analyzer interface {
	Analyze(ctx context.Context, cand model.Candidate, job model.Job) (Analysis, error)
	SuggestQuestions(ctx context.Context, cand model.Candidate, job model.Job) ([]string, error)
}

// CandidateSource is the slice of the candidate store the enricher needs.
type CandidateSource interface {
	Get(id string) (model.Candidate, bool)
	Update(id string, mutate func(*model.Candidate)) (model.Candidate, bool)
}

// JobSource pairs a candidate role with its opening.
type JobSource interface {
	ByTitle(title string) (model.Job, bool)
}

// Enricher runs analyses and writes the advisory score/summary back onto
// the candidate. Remote failures degrade to the fixed fallbacks; no error
// escapes to callers.
type Enricher struct {
	analyzer   Analyzer
	candidates CandidateSource
	jobs       JobSource
	log        *slog.Logger
}

// NewEnricher wires an Enricher. A nil logger falls back to slog.Default.
func NewEnricher(analyzer Analyzer, candidates CandidateSource, jobs JobSource, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{analyzer: analyzer, candidates: candidates, jobs: jobs, log: log}
}

// Analyze scores the candidate against their opening and stores the result.
// Returns false when the candidate id is unknown.
func (e *Enricher) Analyze(ctx context.Context, candidateID string) (Analysis, bool) {
	cand, ok := e.candidates.Get(candidateID)
	if !ok {
		return Analysis{}, false
	}
	job, _ := e.jobs.ByTitle(cand.Role)

	analysis, err := e.analyzer.Analyze(ctx, cand, job)
	if err != nil {
		e.log.Warn("candidate analysis failed", "candidateId", candidateID, "err", err)
		analysis = Analysis{Score: 0, Summary: FallbackSummary}
	}
	analysis.Score = clampScore(analysis.Score)

	e.candidates.Update(candidateID, func(c *model.Candidate) {
		score := analysis.Score
		c.AIScore = &score
		c.AISummary = analysis.Summary
	})
	return analysis, true
}

// Questions suggests interview questions for the candidate. Returns false
// when the candidate id is unknown; remote failures yield the single
// generic fallback question.
func (e *Enricher) Questions(ctx context.Context, candidateID string) ([]string, bool) {
	cand, ok := e.candidates.Get(candidateID)
	if !ok {
		return nil, false
	}
	job, _ := e.jobs.ByTitle(cand.Role)

	questions, err := e.analyzer.SuggestQuestions(ctx, cand, job)
	if err != nil || len(questions) == 0 {
		if err != nil {
			e.log.Warn("question generation failed", "candidateId", candidateID, "err", err)
		}
		return []string{FallbackQuestion}, true
	}
	return questions, true
}
