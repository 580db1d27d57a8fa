package intake

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/llm"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

// --------------------------------------------------
// Fakes
// --------------------------------------------------

type fakeIntakeRepo struct {
	updated   int
	updateErr error
}

func (r *fakeIntakeRepo) Create(_ context.Context, _ *models.IntakeSession) error { return nil }

func (r *fakeIntakeRepo) GetByToken(_ context.Context, _ string) (*models.IntakeSession, error) {
	return nil, errors.New("not used")
}

func (r *fakeIntakeRepo) Update(_ context.Context, _ *models.IntakeSession) error {
	r.updated++
	return r.updateErr
}

func (r *fakeIntakeRepo) List(_ context.Context) ([]models.IntakeSession, error) {
	return nil, nil
}

func (r *fakeIntakeRepo) ListBookingsForIntake(_ context.Context, _ uint) ([]models.BookingSubmission, error) {
	return nil, nil
}

type fakeCompleter struct {
	configured bool
	result     map[string]json.RawMessage
	err        error
	calls      int
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, _ string, _ llm.CallOptions) (map[string]json.RawMessage, error) {
	f.calls++
	return f.result, f.err
}

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

func boolPtr(b bool) *bool { return &b }

// --------------------------------------------------
// Triage
// --------------------------------------------------

func TestClassifySetsSuitability(t *testing.T) {
	repo := &fakeIntakeRepo{}
	completer := &fakeCompleter{
		configured: true,
		result: map[string]json.RawMessage{
			"is_suitable": rawJSON("true"),
			"reason":      rawJSON(`"employment dispute"`),
		},
	}

	uc := NewClassifyIntake(repo, completer)
	session := &models.IntakeSession{Token: "tok", RawText: "I was dismissed without notice"}

	outcome := uc.Execute(context.Background(), session)
	if outcome != OutcomeClassified {
		t.Fatalf("expected OutcomeClassified, got %v", outcome)
	}
	if session.IsSuitable == nil || !*session.IsSuitable {
		t.Fatal("expected IsSuitable to be true")
	}
	if _, ok := session.StructuredMap()["triage"]; !ok {
		t.Fatal("triage result must be stored under the triage key")
	}
	if repo.updated != 1 {
		t.Fatalf("expected one save, got %d", repo.updated)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	repo := &fakeIntakeRepo{}
	completer := &fakeCompleter{configured: true}

	uc := NewClassifyIntake(repo, completer)
	session := &models.IntakeSession{Token: "tok", IsSuitable: boolPtr(false)}

	outcome := uc.Execute(context.Background(), session)
	if outcome != OutcomeAlreadyClassified {
		t.Fatalf("expected OutcomeAlreadyClassified, got %v", outcome)
	}
	if completer.calls != 0 {
		t.Fatal("a classified session must not be sent to the model again")
	}
	if *session.IsSuitable {
		t.Fatal("existing verdict must not change")
	}
}

func TestClassifyUnconfiguredIsSilent(t *testing.T) {
	uc := NewClassifyIntake(&fakeIntakeRepo{}, &fakeCompleter{configured: false})
	session := &models.IntakeSession{Token: "tok"}

	if outcome := uc.Execute(context.Background(), session); outcome != OutcomeUnavailable {
		t.Fatalf("expected OutcomeUnavailable, got %v", outcome)
	}
	if session.IsSuitable != nil {
		t.Fatal("IsSuitable must stay nil when the model is unavailable")
	}
}

func TestClassifyModelErrorIsSilent(t *testing.T) {
	completer := &fakeCompleter{configured: true, err: errors.New("timeout")}
	repo := &fakeIntakeRepo{}

	uc := NewClassifyIntake(repo, completer)
	session := &models.IntakeSession{Token: "tok"}

	if outcome := uc.Execute(context.Background(), session); outcome != OutcomeUnavailable {
		t.Fatalf("expected OutcomeUnavailable, got %v", outcome)
	}
	if session.IsSuitable != nil {
		t.Fatal("a failed call must leave IsSuitable nil")
	}
	if repo.updated != 0 {
		t.Fatal("a failed call must not save anything")
	}
}

// --------------------------------------------------
// Full analysis
// --------------------------------------------------

func TestAnalyseRequiresConfiguredModel(t *testing.T) {
	uc := NewAnalyseIntake(&fakeIntakeRepo{}, &fakeCompleter{configured: false})

	err := uc.Execute(context.Background(), &models.IntakeSession{Token: "tok"})
	if !httperr.IsBusiness(err, "llm_not_configured") {
		t.Fatalf("expected llm_not_configured, got %v", err)
	}
}

func TestAnalysePreservesTriageAndVerdict(t *testing.T) {
	repo := &fakeIntakeRepo{}
	completer := &fakeCompleter{
		configured: true,
		result: map[string]json.RawMessage{
			"summary": rawJSON(`"employment dispute over notice pay"`),
			"triage":  rawJSON(`"model tried to overwrite this"`),
		},
	}

	uc := NewAnalyseIntake(repo, completer)

	session := &models.IntakeSession{
		Token:      "tok",
		IsSuitable: boolPtr(true),
	}
	if err := session.SetStructuredMap(map[string]json.RawMessage{
		"triage": rawJSON(`{"is_suitable":true}`),
	}); err != nil {
		t.Fatal(err)
	}

	if err := uc.Execute(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	structured := session.StructuredMap()
	if string(structured["triage"]) != `{"is_suitable":true}` {
		t.Fatalf("triage record must survive analysis, got %s", structured["triage"])
	}
	if _, ok := structured["summary"]; !ok {
		t.Fatal("analysis result missing")
	}
	if session.IsSuitable == nil || !*session.IsSuitable {
		t.Fatal("analysis must never change IsSuitable")
	}
	if repo.updated != 1 {
		t.Fatalf("expected one save, got %d", repo.updated)
	}
}

func TestAnalysePropagatesModelError(t *testing.T) {
	completer := &fakeCompleter{configured: true, err: errors.New("upstream 500")}
	uc := NewAnalyseIntake(&fakeIntakeRepo{}, completer)

	session := &models.IntakeSession{Token: "tok"}
	if err := uc.Execute(context.Background(), session); err == nil {
		t.Fatal("expected the model error to propagate")
	}
}
