package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/autolane/dealer-ai-platform/internal/conversation"
	"github.com/autolane/dealer-ai-platform/internal/intent"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

type fakeRepo struct {
	leads    map[string]*Lead
	captures []Capture
	listErr  error
}

func (f *fakeRepo) Upsert(_ context.Context, c Capture) (*Lead, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	f.captures = append(f.captures, c)
	return &Lead{ID: "l1", DealerID: c.DealerID, SessionID: c.SessionID, Score: c.Score}, nil
}

func (f *fakeRepo) ListByDealer(_ context.Context, dealerID string, _ int) ([]Lead, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Lead
	for _, l := range f.leads {
		if l.DealerID == dealerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, dealerID, id string) (*Lead, error) {
	if l, ok := f.leads[id]; ok && l.DealerID == dealerID {
		return l, nil
	}
	return nil, ErrLeadNotFound
}

func leadRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/dealers/{dealerID}/leads", h.ListLeads)
	r.Get("/admin/dealers/{dealerID}/leads/{leadID}", h.GetLead)
	return r
}

func TestListLeadsEndpoint(t *testing.T) {
	repo := &fakeRepo{leads: map[string]*Lead{
		"l1": {ID: "l1", DealerID: "d1", SessionID: "s1", Score: 80},
		"l2": {ID: "l2", DealerID: "d2", SessionID: "s2", Score: 55},
	}}
	router := leadRouter(NewHandler(repo, logging.New("error")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dealers/d1/leads", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Leads []Lead `json:"leads"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if payload.Count != 1 || len(payload.Leads) != 1 || payload.Leads[0].DealerID != "d1" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestListLeadsEndpointBadLimit(t *testing.T) {
	router := leadRouter(NewHandler(&fakeRepo{}, logging.New("error")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dealers/d1/leads?limit=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetLeadEndpointNotFound(t *testing.T) {
	router := leadRouter(NewHandler(&fakeRepo{}, logging.New("error")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dealers/d1/leads/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecorderMapsLeadRecord(t *testing.T) {
	repo := &fakeRepo{}
	recorder := NewRecorder(repo)

	err := recorder.Record(context.Background(), conversation.LeadRecord{
		DealerID:    "d1",
		SessionID:   "s1",
		Name:        "Jo",
		Intent:      intent.IntentTestDrive,
		Score:       80,
		Handoff:     true,
		LastMessage: "can I book a test drive",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if len(repo.captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(repo.captures))
	}
	got := repo.captures[0]
	if got.Intent != "test_drive" || got.Score != 80 || !got.Handoff {
		t.Errorf("unexpected capture %+v", got)
	}
}
