package interactome

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParamsQuery(t *testing.T) {
	p := Params{Seeds: []string{"TP53", " ", "BRCA1"}}
	q := p.Query(2)

	if diff := cmp.Diff([]string{"TP53", "BRCA1"}, q["seed"]); diff != "" {
		t.Errorf("seeds mismatch (-want +got):\n%s", diff)
	}
	if got := q.Get("sources"); got != "string_ppi,encori_rbp_by_target" {
		t.Errorf("sources = %q", got)
	}
	if q.Get("min_size") != "3" || q.Get("cid") != "2" {
		t.Errorf("query = %v", q)
	}

	p.Sources = []string{"string_ppi"}
	p.MinSize = 5
	q = p.Query(0)
	if q.Get("sources") != "string_ppi" || q.Get("min_size") != "5" {
		t.Errorf("query = %v", q)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"ok", Params{Seeds: []string{"TP53"}}, false},
		{"no seeds", Params{}, true},
		{"min size too large", Params{Seeds: []string{"TP53"}, MinSize: 51}, true},
		{"top hubs too small", Params{Seeds: []string{"TP53"}, TopHubs: 2}, true},
		{"top hubs ok", Params{Seeds: []string{"TP53"}, TopHubs: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"not found", 404, `{"detail":"Not Found"}`, IsNotFound},
		{"rate limited", 429, ``, IsRateLimited},
		{"out of range", 400, `{"detail":"cid out of range. cid=4, community_count=3"}`, IsOutOfRange},
		{"auth", 401, ``, func(err error) bool { return errors.Is(err, ErrAuthError) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL), WithPoliteDelay(0))
			err := c.Health(context.Background())
			if err == nil || !tt.check(err) {
				t.Errorf("Health() error = %v", err)
			}
		})
	}
}

func TestClientSendsAPIKey(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("x-api-key")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL+"/"), WithAPIKey("secret"), WithPoliteDelay(0))
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if got != "secret" {
		t.Errorf("x-api-key = %q, want secret", got)
	}
}

func TestPoliteDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithPoliteDelay(50*time.Millisecond))
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := c.Health(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	// The first request passes immediately; the next two wait.
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("three requests took %v, want at least ~100ms", elapsed)
	}
}

func TestErrorDetailFallsBackToBody(t *testing.T) {
	got := errorDetail(strings.NewReader("plain failure"), 500)
	if got != "plain failure" {
		t.Errorf("errorDetail() = %q", got)
	}
	if got := errorDetail(strings.NewReader(""), 502); got != "HTTP 502" {
		t.Errorf("errorDetail() = %q", got)
	}
}
