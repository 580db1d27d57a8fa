package intake

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/intake"
	"github.com/kavanaghbl/chambers-site/internal/llm"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/prompts"
)

// JSONCompleter is the slice of the LLM client the intake use cases need.
type JSONCompleter interface {
	Configured() bool
	CompleteJSON(ctx context.Context, system, user string, opts llm.CallOptions) (map[string]json.RawMessage, error)
}

// Outcome of a triage attempt. There is no error branch: triage is
// best-effort and the caller renders a conservative fallback whenever the
// session is still Unclassified.
type Outcome int

const (
	OutcomeAlreadyClassified Outcome = iota
	OutcomeClassified
	OutcomeUnavailable
)

// ======================================================
// TRIAGE (lightweight, visitor-facing)
// ======================================================

type ClassifyIntake struct {
	repo domain.Repository
	llm  JSONCompleter
}

func NewClassifyIntake(repo domain.Repository, completer JSONCompleter) *ClassifyIntake {
	return &ClassifyIntake{repo: repo, llm: completer}
}

// Execute runs the suitability triage once per session. It never returns
// an error: any failure leaves IsSuitable untouched and reports
// OutcomeUnavailable.
func (uc *ClassifyIntake) Execute(
	ctx context.Context,
	session *models.IntakeSession,
) Outcome {

	// Idempotence guard: once set, triage is authoritative.
	if session.IsSuitable != nil {
		return OutcomeAlreadyClassified
	}

	if uc.llm == nil || !uc.llm.Configured() {
		return OutcomeUnavailable
	}

	result, err := uc.llm.CompleteJSON(
		ctx,
		prompts.IntakeClassify,
		session.RawText,
		llm.CallOptions{
			Temperature: 0.1,
			MaxTokens:   100,
			Timeout:     10 * time.Second,
		},
	)
	if err != nil {
		zap.L().Debug("intake triage unavailable", zap.String("token", session.Token), zap.Error(err))
		return OutcomeUnavailable
	}

	if raw, ok := result["is_suitable"]; ok {
		var verdict *bool
		if err := json.Unmarshal(raw, &verdict); err == nil {
			session.IsSuitable = verdict
		}
	}

	// Record the raw triage result under its own key so a later full
	// analysis never collides with it.
	structured := session.StructuredMap()
	if b, err := json.Marshal(result); err == nil {
		structured["triage"] = b
	}
	if err := session.SetStructuredMap(structured); err != nil {
		return OutcomeUnavailable
	}

	if err := uc.repo.Update(ctx, session); err != nil {
		zap.L().Warn("intake triage save failed", zap.String("token", session.Token), zap.Error(err))
		return OutcomeUnavailable
	}

	return OutcomeClassified
}
