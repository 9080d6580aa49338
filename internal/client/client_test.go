package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form-encoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "farmer" || r.PostForm.Get("password") != "secret123" {
			t.Errorf("credentials = %q / %q", r.PostForm.Get("username"), r.PostForm.Get("password"))
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-abc",
			"token_type":   "bearer",
		})
	}))
	defer srv.Close()

	session := NewSession()
	c := New(srv.URL, session)

	token, err := c.Login(context.Background(), "farmer", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token.AccessToken != "tok-abc" || token.TokenType != "bearer" {
		t.Errorf("token = %+v", token)
	}
	if session.Token() != "tok-abc" {
		t.Errorf("session token = %q, want %q", session.Token(), "tok-abc")
	}
	if !c.IsAuthenticated() {
		t.Error("client should be authenticated after login")
	}
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	_, err := c.Login(context.Background(), "farmer", "wrong")

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
	if authErr.Message != "Login failed" {
		t.Errorf("message = %q", authErr.Message)
	}
	if c.IsAuthenticated() {
		t.Error("failed login must not leave a token behind")
	}
}

func TestRegisterSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var profile Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Username already registered"})
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	_, err := c.Register(context.Background(), Profile{Username: "farmer", Email: "f@x.io", Password: "pw"})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if valErr.Detail != "Username already registered" {
		t.Errorf("detail = %q", valErr.Detail)
	}
}

func TestAnalyzeRequiresToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	_, err := c.Analyze(context.Background(), []byte{1, 2, 3}, "leaf.jpg")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("error = %v, want ErrUnauthenticated", err)
	}
	if calls != 0 {
		t.Errorf("unauthenticated analyze made %d network calls, want 0", calls)
	}
}

func TestAnalyzeSendsMultipartWithBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("Authorization = %q", got)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q, want multipart", r.Header.Get("Content-Type"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "leaf.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"disease_name":   "Tomato___Early_blight",
			"confidence":     0.92,
			"recommendation": "Remove lower infected leaves",
			"timestamp":      "2026-08-01T10:00:00Z",
			"image_hash":     "deadbeef",
		})
	}))
	defer srv.Close()

	session := NewSession()
	session.Set("tok-abc")
	c := New(srv.URL, session)

	raw, err := c.Analyze(context.Background(), []byte("fake-image"), "leaf.jpg")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if raw.DiseaseName != "Tomato___Early_blight" || raw.Confidence != 0.92 {
		t.Errorf("raw scan = %+v", raw)
	}
}

func TestAnalyze401ClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	session := NewSession()
	session.Set("stale-token")
	c := New(srv.URL, session)

	_, err := c.Analyze(context.Background(), []byte("img"), "leaf.jpg")
	var anErr *AnalysisError
	if !errors.As(err, &anErr) {
		t.Fatalf("error = %v, want *AnalysisError", err)
	}
	if anErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", anErr.StatusCode)
	}
	if anErr.Detail != "Could not validate credentials" {
		t.Errorf("detail = %q", anErr.Detail)
	}
	if session.Authenticated() {
		t.Error("401 must clear the session token")
	}
}

func TestGetHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scans" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 2, "disease_name": "Tomato___healthy", "confidence": 0.99},
			{"id": 1, "disease_name": "Tomato___Late_blight", "confidence": 0.84},
		})
	}))
	defer srv.Close()

	session := NewSession()
	session.Set("tok")
	c := New(srv.URL, session)

	scans, err := c.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("got %d scans, want 2", len(scans))
	}
	// Backend order is preserved, never re-sorted.
	if scans[0].ID != 2 || scans[1].ID != 1 {
		t.Errorf("order = [%d, %d], want [2, 1]", scans[0].ID, scans[1].ID)
	}
}

func TestGetHistory401ClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	session := NewSession()
	session.Set("stale")
	c := New(srv.URL, session)

	_, err := c.GetHistory(context.Background())
	var histErr *HistoryFetchError
	if !errors.As(err, &histErr) {
		t.Fatalf("error = %v, want *HistoryFetchError", err)
	}
	if !histErr.IsAuthFailure() {
		t.Error("401 should report as auth failure")
	}
	if session.Authenticated() {
		t.Error("401 must clear the session token")
	}
}

func TestFileSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	s := NewFileSession(path)
	if s.Authenticated() {
		t.Fatal("fresh file session should hold no token")
	}
	s.Set("persisted-token")

	reloaded := NewFileSession(path)
	if reloaded.Token() != "persisted-token" {
		t.Errorf("reloaded token = %q", reloaded.Token())
	}

	reloaded.Clear()
	if NewFileSession(path).Authenticated() {
		t.Error("cleared session should not reload a token")
	}
}

func TestLogout(t *testing.T) {
	session := NewSession()
	session.Set("tok")
	c := New("http://127.0.0.1:0", session)
	c.Logout()
	if c.IsAuthenticated() {
		t.Error("logout should clear the token")
	}
}
