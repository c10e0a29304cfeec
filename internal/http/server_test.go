package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
)

type fakeWriter struct {
	appended []core.Activity
	failWith error
}

func (f *fakeWriter) Append(ctx context.Context, a core.Activity) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.appended = append(f.appended, a)
	return int64(len(f.appended)), nil
}

type fakeLister struct {
	items    []core.Activity
	failWith error
}

func (f *fakeLister) ListActivities(ctx context.Context, filter ledger.ActivityFilter) ([]core.Activity, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.items, nil
}

type fakeSummary struct {
	summary  core.MonthSummary
	failWith error
}

func (f *fakeSummary) ReadMonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	if f.failWith != nil {
		return core.MonthSummary{}, f.failWith
	}
	s := f.summary
	s.Year, s.Month = year, month
	return s, nil
}

func newTestServer(t *testing.T) (*Server, *fakeWriter, *fakeSummary) {
	t.Helper()
	w := &fakeWriter{}
	l := &fakeLister{}
	sr := &fakeSummary{}
	srv := NewServer(":0", w, l, sr)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, w, sr
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Record activity", "electricity", "transport", "water", "diet"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index body missing %q", want)
		}
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateActivityValidationAndSuccess(t *testing.T) {
	srv, writer, _ := newTestServer(t)

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid quantity
	rr = postForm(srv, "/activities", url.Values{
		"date": {"2024-03-10"}, "category": {"electricity"}, "quantity": {"abc"},
	})
	if rr.Code != 422 {
		t.Fatalf("invalid quantity: expected 422, got %d", rr.Code)
	}

	// Unknown category
	rr = postForm(srv, "/activities", url.Values{
		"date": {"2024-03-10"}, "category": {"flying"}, "quantity": {"10"},
	})
	if rr.Code != 422 {
		t.Fatalf("unknown category: expected 422, got %d", rr.Code)
	}

	// Invalid date
	rr = postForm(srv, "/activities", url.Values{
		"date": {"2024-13-45"}, "category": {"electricity"}, "quantity": {"10"},
	})
	if rr.Code != 422 {
		t.Fatalf("invalid date: expected 422, got %d", rr.Code)
	}

	// Over ceiling
	rr = postForm(srv, "/activities", url.Values{
		"date": {"2024-03-10"}, "category": {"electricity"}, "quantity": {"100000"},
	})
	if rr.Code != 422 {
		t.Fatalf("over ceiling: expected 422, got %d", rr.Code)
	}

	if len(writer.appended) != 0 {
		t.Fatalf("rejected requests must not persist, stored %d", len(writer.appended))
	}

	// Success
	rr = postForm(srv, "/activities", url.Values{
		"date": {"2024-03-10"}, "category": {"transport"}, "mode": {"bus"}, "quantity": {"30"},
	})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "activity:created") {
		t.Fatalf("expected activity:created trigger, got %q", rr.Header().Get("HX-Trigger"))
	}
	if len(writer.appended) != 1 {
		t.Fatalf("expected 1 stored activity, got %d", len(writer.appended))
	}
	got := writer.appended[0]
	if got.Emission.Grams != 2670 { // 30 km by bus at 0.089 kg/km
		t.Fatalf("expected 2670 g, got %d", got.Emission.Grams)
	}
}

func TestCreateActivityDefaultsTransportMode(t *testing.T) {
	srv, writer, _ := newTestServer(t)

	rr := postForm(srv, "/activities", url.Values{
		"date": {"2024-03-10"}, "category": {"transport"}, "quantity": {"100"},
	})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	got := writer.appended[0]
	if got.Mode != "car" {
		t.Fatalf("expected default mode car, got %q", got.Mode)
	}
	if got.Emission.Grams != 21000 {
		t.Fatalf("expected 21000 g, got %d", got.Emission.Grams)
	}
}

func TestCreateActivityStorageError(t *testing.T) {
	srv, writer, _ := newTestServer(t)
	writer.failWith = context.DeadlineExceeded

	rr := postForm(srv, "/activities", url.Values{
		"date": {"2024-03-10"}, "category": {"water"}, "quantity": {"100"},
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("storage failure: expected 500, got %d", rr.Code)
	}
}

func TestMonthSummaryPartial(t *testing.T) {
	srv, _, sr := newTestServer(t)
	sr.summary = core.MonthSummary{
		Total: core.Emission{Grams: 58_000},
		ByCategory: []core.CategoryEmission{
			{Category: core.Electricity, Emission: core.Emission{Grams: 37_000}},
			{Category: core.Transport, Emission: core.Emission{Grams: 21_000}},
		},
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/month-summary?year=2024&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"58 kg", "electricity", "37 kg", "transport", "21 kg"} {
		if !strings.Contains(body, want) {
			t.Fatalf("summary body missing %q: %s", want, body)
		}
	}
}

func TestMonthSummaryErrorRendersPlaceholder(t *testing.T) {
	srv, _, sr := newTestServer(t)
	sr.failWith = context.DeadlineExceeded

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/month-summary?year=2024&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Error loading summary") {
		t.Fatalf("expected error placeholder: %s", rr.Body.String())
	}
}

func TestHistoryPartial(t *testing.T) {
	w := &fakeWriter{}
	q := core.Quantity{Milli: 30_000}
	em, _ := core.Compute(core.Transport, "bus", q)
	l := &fakeLister{items: []core.Activity{{
		ID: 1, Date: core.NewDate(2024, 3, 10), Category: core.Transport,
		Mode: "bus", Quantity: q, Emission: em,
	}}}
	srv := NewServer(":0", w, l, &fakeSummary{})
	defer srv.Shutdown(context.Background())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/history?year=2024&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("history status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"2024-03-10", "transport", "bus", "30 km", "2.67 kg"} {
		if !strings.Contains(body, want) {
			t.Fatalf("history body missing %q: %s", want, body)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Fatalf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRateLimitOnPost(t *testing.T) {
	srv, _, _ := newTestServer(t)

	form := url.Values{"date": {"2024-03-10"}, "category": {"water"}, "quantity": {"1"}}
	var last int
	for i := 0; i < 61; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:1234"
		srv.Handler.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("61st POST should be limited, got %d", last)
	}
}
