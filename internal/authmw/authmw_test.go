package authmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func serve(h http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/retrain", http.NoBody)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBearerToken_ValidToken(t *testing.T) {
	t.Parallel()

	h := BearerToken("secret-token-123", Options{})(okHandler)
	if rec := serve(h, "Bearer secret-token-123"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestBearerToken_Malformed(t *testing.T) {
	t.Parallel()

	h := BearerToken("secret", Options{})(okHandler)

	tests := []struct {
		name  string
		value string
	}{
		{"missing", ""},
		{"Basic auth", "Basic dXNlcjpwYXNz"},
		{"lowercase bearer", "bearer secret"},
		{"no prefix", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(h, tt.value)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if got := rec.Header().Get("WWW-Authenticate"); got != realm {
				t.Errorf("WWW-Authenticate = %q, want %q", got, realm)
			}
		})
	}
}

func TestBearerToken_InvalidToken(t *testing.T) {
	t.Parallel()

	h := BearerToken("correct-token", Options{})(okHandler)

	for _, tok := range []string{"wrong-token", "correct", "correct-token-extra", ""} {
		rec := serve(h, "Bearer "+tok)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want %d", tok, rec.Code, http.StatusUnauthorized)
		}
		if got := rec.Header().Get("WWW-Authenticate"); !strings.Contains(got, "invalid_token") {
			t.Errorf("token %q: WWW-Authenticate = %q", tok, got)
		}
	}
}

func TestBearerToken_EmptyTokenHidesRoute(t *testing.T) {
	t.Parallel()

	var called bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})
	h := BearerToken("", Options{})(inner)

	// even a bearer header with an empty token must not pass
	for _, auth := range []string{"", "Bearer ", "Bearer anything"} {
		if rec := serve(h, auth); rec.Code != http.StatusNotFound {
			t.Errorf("auth %q: status = %d, want %d", auth, rec.Code, http.StatusNotFound)
		}
	}
	if called {
		t.Error("inner handler called with auth disabled")
	}
}

func TestBearerToken_OnReject(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var reasons []string
	opts := Options{OnReject: func(_ *http.Request, reason string) {
		mu.Lock()
		reasons = append(reasons, reason)
		mu.Unlock()
	}}

	serve(BearerToken("tok", opts)(okHandler), "")
	serve(BearerToken("tok", opts)(okHandler), "Bearer nope")
	serve(BearerToken("tok", opts)(okHandler), "Bearer tok")
	serve(BearerToken("", opts)(okHandler), "Bearer tok")

	want := []string{ReasonMissing, ReasonInvalid, ReasonDisabled}
	if strings.Join(reasons, ",") != strings.Join(want, ",") {
		t.Errorf("reasons = %v, want %v", reasons, want)
	}
}

func TestBearerToken_PassesRequestThrough(t *testing.T) {
	t.Parallel()

	var called bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	})

	rec := serve(BearerToken("tok", Options{})(inner), "Bearer tok")
	if !called {
		t.Error("inner handler was not called")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
}
