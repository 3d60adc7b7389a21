package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fpang/social-content-toolkit/internal/store"
)

func TestTemplates_CRUD(t *testing.T) {
	f := newFixture(t)

	seeded := decodeBody[[]store.Template](t, f.do(t, http.MethodGet, "/api/templates", ""))

	rec := f.do(t, http.MethodPost, "/api/templates", `{"id":"ignored","name":"Launch","prompt":"Announce {product}","category":"Marketing"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeBody[store.Template](t, rec)
	if created.ID == "ignored" || !strings.HasPrefix(created.ID, "t-") || created.Name != "Launch" {
		t.Errorf("created = %+v", created)
	}

	list := decodeBody[[]store.Template](t, f.do(t, http.MethodGet, "/api/templates", ""))
	if len(list) != len(seeded)+1 {
		t.Errorf("templates = %d, want %d", len(list), len(seeded)+1)
	}

	rec = f.do(t, http.MethodDelete, "/api/templates/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if msg := decodeBody[messageResponse](t, rec).Message; msg != "Template deleted successfully." {
		t.Errorf("message = %q", msg)
	}

	rec = f.do(t, http.MethodDelete, "/api/templates/"+created.ID, "")
	if rec.Code != http.StatusNotFound || errorMessage(t, rec) != "Template not found." {
		t.Errorf("second delete: status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTemplates_MissingFields(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodPost, "/api/templates", `{"name":"Launch"}`)
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "Missing required fields for template." {
		t.Errorf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBlacklist_Flow(t *testing.T) {
	f := newFixture(t)
	f.store.RecordGeneration(context.Background(), "jane doe", "caption", 1)

	rec := f.do(t, http.MethodPost, "/api/blacklist", `{"username":"jane doe"}`)
	if rec.Code != http.StatusCreated || decodeBody[messageResponse](t, rec).Message != "User blocked successfully." {
		t.Fatalf("block: status = %d body=%s", rec.Code, rec.Body.String())
	}

	names := decodeBody[[]string](t, f.do(t, http.MethodGet, "/api/blacklist", ""))
	if diff := cmp.Diff([]string{"jane doe"}, names); diff != "" {
		t.Errorf("blacklist mismatch (-want +got):\n%s", diff)
	}
	users := decodeBody[[]store.User](t, f.do(t, http.MethodGet, "/api/users", ""))
	if len(users) != 1 || users[0].Status != store.StatusBanned {
		t.Errorf("users = %+v", users)
	}

	rec = f.do(t, http.MethodDelete, "/api/blacklist/jane%20doe", "")
	if rec.Code != http.StatusOK || decodeBody[messageResponse](t, rec).Message != "User unblocked successfully." {
		t.Fatalf("unblock: status = %d body=%s", rec.Code, rec.Body.String())
	}
	users = decodeBody[[]store.User](t, f.do(t, http.MethodGet, "/api/users", ""))
	if users[0].Status != store.StatusActive {
		t.Errorf("status after unblock = %q", users[0].Status)
	}
}

func TestBlacklist_MissingUsername(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodPost, "/api/blacklist", `{"username":"  "}`)
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "Username is required." {
		t.Errorf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUsers_EmptyList(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/users", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
}
