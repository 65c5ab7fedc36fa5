package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"solecraft/constants"

	"github.com/go-chi/chi/v5"
)

// setupApp wires the package globals the way main does and returns the
// router, so handler tests exercise the same middleware stack.
func setupApp(t *testing.T, cfg Config) chi.Router {
	t.Helper()

	if cfg.AppID == "" {
		cfg.AppID = "test-app"
	}
	if cfg.AdminStateFile == "" {
		cfg.AdminStateFile = filepath.Join(t.TempDir(), "admin_state.json")
	}
	appConfig = cfg

	var err error
	store, err = OpenStore(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}

	identityService = NewIdentityService(store.DB(), cfg.BootstrapToken)
	identityService.SignInAnonymous()
	adminGate = NewAdminGate(cfg, identityService, NewStateFile(cfg.AdminStateFile))

	listingCache, err = NewListingCache(16, time.Minute)
	if err != nil {
		t.Fatalf("NewListingCache: %v", err)
	}
	submissionService = NewSubmissionService(store, cfg.CollectionPath(), listingCache, nil)
	pageRouter = NewPageRouter()

	return initRouter()
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		DatabasePath: filepath.Join(t.TempDir(), "site.db"),
		AdminSecret:  "PizzaWhite70",
	}
}

func postForm(r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func getPage(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStaticPagesRender(t *testing.T) {
	r := setupApp(t, testConfig(t))

	pages := map[string]string{
		"/":        "Shoes with a story",
		"/gallery": "Koi Pond AF1",
		"/pricing": "Full Canvas",
		"/about":   "About the studio",
		"/custom":  "Custom design request",
		"/contact": "Contact",
	}
	for path, want := range pages {
		rec := getPage(r, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("GET %s missing %q", path, want)
		}
	}
}

func TestContactSubmitEmptyMessage(t *testing.T) {
	r := setupApp(t, testConfig(t))

	rec := postForm(r, "/contact", url.Values{
		"name":  {"Riley Ortega"},
		"email": {"riley@example.com"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected inline re-render, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Please check the form") {
		t.Error("validation error text not shown inline")
	}
	// Form state is preserved for resubmission.
	if !strings.Contains(body, `value="Riley Ortega"`) {
		t.Error("submitted name not preserved on re-render")
	}

	if got := len(submissionService.ListRecentSubmissions(context.Background())); got != 0 {
		t.Fatalf("record written despite validation failure (%d records)", got)
	}
}

func TestContactSubmitSuccess(t *testing.T) {
	r := setupApp(t, testConfig(t))

	rec := postForm(r, "/contact", url.Values{
		"name":    {"Riley Ortega"},
		"email":   {"riley@example.com"},
		"message": {"Do you work on boots?"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /contact = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Message received") {
		t.Error("success confirmation not shown")
	}

	records := submissionService.ListRecentSubmissions(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Kind != KindContactMessage || records[0].Status != constants.SUBMISSION_STATUS_NEW {
		t.Errorf("record = kind %q status %q", records[0].Kind, records[0].Status)
	}
}

func TestCustomSubmitSuccess(t *testing.T) {
	r := setupApp(t, testConfig(t))

	rec := postForm(r, "/custom", url.Values{
		"name":              {"Riley Ortega"},
		"email":             {"riley@example.com"},
		"shoeModel":         {"Chuck 70"},
		"designDescription": {"Marinara drips on white canvas"},
		"budgetRange":       {constants.BUDGET_RANGES[2]},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /custom = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your request was received") {
		t.Error("success confirmation not shown")
	}
}

func TestContactSubmitWithoutBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabasePath = ""
	r := setupApp(t, cfg)

	rec := postForm(r, "/contact", url.Values{
		"name":    {"Riley"},
		"email":   {"riley@example.com"},
		"message": {"hello"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /contact = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "couldn't save your request") {
		t.Error("store-unavailable text not shown inline")
	}
}

func TestAdminGateFlow(t *testing.T) {
	r := setupApp(t, testConfig(t))

	// Seed one submission to list.
	postForm(r, "/contact", url.Values{
		"name":    {"Riley Ortega"},
		"email":   {"riley@example.com"},
		"message": {"Do you work on boots?"},
	})

	rec := getPage(r, "/admin")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Admin sign in") {
		t.Fatalf("logged-out /admin should render the login prompt (code %d)", rec.Code)
	}

	rec = postForm(r, "/admin/login", url.Values{"password": {"pizzawhite70"}})
	if !strings.Contains(rec.Body.String(), "Wrong password") {
		t.Error("wrong secret should re-render login with inline error")
	}
	if adminGate.IsAdmin() {
		t.Fatal("gate logged in by wrong secret")
	}

	rec = postForm(r, "/admin/login", url.Values{"password": {"PizzaWhite70"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("successful login should redirect, got %d", rec.Code)
	}

	rec = getPage(r, "/admin")
	body := rec.Body.String()
	if !strings.Contains(body, "Submissions") {
		t.Fatal("admin listing not rendered after login")
	}
	if !strings.Contains(body, "Do you work on boots?") {
		t.Error("stored submission missing from listing")
	}

	rec = postForm(r, "/admin/logout", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout should redirect, got %d", rec.Code)
	}
	rec = getPage(r, "/admin")
	if !strings.Contains(rec.Body.String(), "Admin sign in") {
		t.Error("gate not logged out after logout")
	}
}

func TestSubmissionRateLimit(t *testing.T) {
	r := setupApp(t, testConfig(t))

	form := url.Values{
		"name":    {"Riley"},
		"email":   {"riley@example.com"},
		"message": {"hello"},
	}

	var last int
	for i := 0; i < 11; i++ {
		last = postForm(r, "/contact", form).Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("11th submission = %d, want %d", last, http.StatusTooManyRequests)
	}
}
