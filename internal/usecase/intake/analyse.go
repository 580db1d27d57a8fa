package intake

import (
	"context"
	"time"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/intake"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/llm"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/prompts"
)

// ======================================================
// FULL ANALYSIS (owner-triggered)
// ======================================================

// AnalyseIntake runs the heavier structured analysis. It rewrites
// StructuredOutput (keeping the triage record) and must never touch
// IsSuitable: triage stays authoritative. Failures propagate to the owner.
type AnalyseIntake struct {
	repo domain.Repository
	llm  JSONCompleter
}

func NewAnalyseIntake(repo domain.Repository, completer JSONCompleter) *AnalyseIntake {
	return &AnalyseIntake{repo: repo, llm: completer}
}

func (uc *AnalyseIntake) Execute(
	ctx context.Context,
	session *models.IntakeSession,
) error {

	if uc.llm == nil || !uc.llm.Configured() {
		return httperr.ErrBusiness("llm_not_configured")
	}

	result, err := uc.llm.CompleteJSON(
		ctx,
		prompts.IntakeAnalyse,
		session.RawText,
		llm.CallOptions{
			Temperature: 0.2,
			MaxTokens:   1500,
			Timeout:     30 * time.Second,
		},
	)
	if err != nil {
		return err
	}

	triage, hadTriage := session.StructuredMap()["triage"]

	// The analysis response must not shadow the triage record.
	delete(result, "triage")
	if hadTriage {
		result["triage"] = triage
	}

	if err := session.SetStructuredMap(result); err != nil {
		return err
	}

	return uc.repo.Update(ctx, session)
}
