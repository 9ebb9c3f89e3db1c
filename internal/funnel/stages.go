// Package funnel defines the hiring funnel for the Young Talents pipeline.
//
// Stage order (board columns, left to right):
//
//	Inscrito ──► Considerado ──► Entrevista I ──► Testes realizados ──► Entrevista II ──► Selecionado
//	    │             │               │                  │                    │
//	    └─────────────┴───────────────┴──────────────────┴────────────────────┴──► Reprovado
//
// Reprovado is reachable from any stage and is not part of the linear
// forward sequence. The default policy allows skipping stages in either
// direction; StrictStepAllowed implements the optional sequential mode.
package funnel

import "fmt"

// Stage values mirror the funnel labels used by the board UI.
type Stage string

const (
	StageInscrito     Stage = "Inscrito"
	StageConsiderado  Stage = "Considerado"
	StageEntrevistaI  Stage = "Entrevista I"
	StageTestes       Stage = "Testes realizados"
	StageEntrevistaII Stage = "Entrevista II"
	StageSelecionado  Stage = "Selecionado"
	StageReprovado    Stage = "Reprovado"
)

// stageOrder fixes the board-column sequence. Reprovado comes last so it
// renders as the final column, but its position carries no ordering meaning.
var stageOrder = []Stage{
	StageInscrito,
	StageConsiderado,
	StageEntrevistaI,
	StageTestes,
	StageEntrevistaII,
	StageSelecionado,
	StageReprovado,
}

// Stages returns the registry in board order. Callers must not mutate the
// returned slice.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage converts a raw string to a Stage, returning an error for
// unknown values. Matching is exact — no trimming, no case folding.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	for _, known := range stageOrder {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown funnel stage %q", s)
}

// Ordinal returns the board-column index of s, or -1 for unknown values.
func Ordinal(s Stage) int {
	for i, known := range stageOrder {
		if s == known {
			return i
		}
	}
	return -1
}

// IsClosing reports whether s ends the process. Both closing stages require
// a written feedback before the move is applied.
func IsClosing(s Stage) bool {
	return s == StageSelecionado || s == StageReprovado
}

// StrictStepAllowed reports whether from → to is a single forward step.
// Reprovado is always reachable; everything else must advance exactly one
// column. Only consulted when the coordinator runs in strict-sequential mode.
func StrictStepAllowed(from, to Stage) bool {
	if to == StageReprovado {
		return from != StageReprovado
	}
	fi, ti := Ordinal(from), Ordinal(to)
	if fi < 0 || ti < 0 {
		return false
	}
	return ti == fi+1
}
