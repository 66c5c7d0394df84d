package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPGetBlockedWhenNoHosts(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: nil})
	_, err := h.Get(context.Background(), "https://example.com")
	if err == nil || err.Error() != "http not enabled" {
		t.Errorf("expected 'http not enabled', got %v", err)
	}
}

func TestHTTPGetBlockedForUnallowedHost(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"allowed.com"}})
	_, err := h.Get(context.Background(), "https://evil.com")
	if err == nil || err.Error() != "host not allowed: evil.com" {
		t.Errorf("expected 'host not allowed', got %v", err)
	}
}

func TestHTTPGetBypassQueryParam(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"allowed.com"}})
	_, err := h.Get(context.Background(), "https://evil.com/?x=allowed.com")
	if err == nil || err.Error() != "host not allowed: evil.com" {
		t.Errorf("query param bypass should be blocked, got %v", err)
	}
}

func TestHTTPGetBypassSubdomainSuffix(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"allowed.com"}})
	_, err := h.Get(context.Background(), "https://allowed.com.evil.com/")
	if err == nil || err.Error() != "host not allowed: allowed.com.evil.com" {
		t.Errorf("subdomain suffix bypass should be blocked, got %v", err)
	}
}

func TestHTTPGetAllowsExactHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"127.0.0.1"}})
	resp, err := h.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("expected status 200, got %d", resp.Status)
	}
	if resp.Body != `{"ok": true}` {
		t.Errorf("unexpected body: %q", resp.Body)
	}
}

func TestHTTPDoSendsHeadersAndBody(t *testing.T) {
	var gotMethod, gotHeader, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Token")
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		gotBody = string(b)
		w.WriteHeader(201)
	}))
	defer server.Close()

	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"127.0.0.1"}})
	resp, err := h.Do(context.Background(), "post", server.URL, map[string]string{"X-Token": "abc"}, `{"a":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 201 {
		t.Errorf("expected status 201, got %d", resp.Status)
	}
	if gotMethod != "POST" {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotHeader != "abc" {
		t.Errorf("expected X-Token header, got %q", gotHeader)
	}
	if gotBody != `{"a":1}` {
		t.Errorf("expected body to arrive, got %q", gotBody)
	}
}

func TestHTTPDoRejectsUnknownMethod(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"example.com"}})
	_, err := h.Do(context.Background(), "BREW", "https://example.com", nil, "")
	if err == nil || !strings.Contains(err.Error(), "unsupported method") {
		t.Errorf("expected unsupported method error, got %v", err)
	}
}

func TestHTTPGetAllowsSubdomain(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"example.com"}})
	_, err := h.Get(context.Background(), "https://api.example.com/test")
	// Fails with a connection error, never the allowlist one.
	if err != nil && err.Error() == "host not allowed: api.example.com" {
		t.Error("subdomain should be allowed")
	}
}

func TestHTTPGetMissingURL(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"example.com"}})
	_, err := h.Get(context.Background(), "")
	if err == nil || err.Error() != "url required" {
		t.Errorf("expected 'url required', got %v", err)
	}
}

func TestHTTPGetInvalidURL(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"example.com"}})
	_, err := h.Get(context.Background(), "://invalid")
	if err == nil || err.Error() != "invalid url" {
		t.Errorf("expected 'invalid url', got %v", err)
	}
}

func TestHTTPGetURLTooLong(t *testing.T) {
	h := NewHTTP(HTTPConfig{
		AllowedHosts: []string{"example.com"},
		MaxURLLength: 100,
	})

	longURL := "https://example.com/" + strings.Repeat("a", 200)
	_, err := h.Get(context.Background(), longURL)
	if err == nil || err.Error() != "url exceeds max length" {
		t.Errorf("expected 'url exceeds max length', got %v", err)
	}
}

func TestHTTPGetDefaultMaxURLLength(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"example.com"}})

	longURL := "https://example.com/" + strings.Repeat("a", 10*1024)
	_, err := h.Get(context.Background(), longURL)
	if err == nil || err.Error() != "url exceeds max length" {
		t.Errorf("expected 'url exceeds max length', got %v", err)
	}
}

func TestHTTPIPv6Normalization(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"::1"}})

	tests := []struct {
		host    string
		allowed bool
	}{
		{"::1", true},
		{"0:0:0:0:0:0:0:1", true},
		{"::2", false},
		{"example.com", false},
	}
	for _, tc := range tests {
		if got := h.isHostAllowed(tc.host); got != tc.allowed {
			t.Errorf("isHostAllowed(%q) = %v, want %v", tc.host, got, tc.allowed)
		}
	}
}

func TestHTTPIPNoSubdomainBypass(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"example.com"}})

	for _, host := range []string{"::1", "127.0.0.1", "192.168.1.1", "2001:db8::1"} {
		if h.isHostAllowed(host) {
			t.Errorf("IP %q should not match domain allowlist", host)
		}
	}
}

func TestHTTPIPv4Matching(t *testing.T) {
	h := NewHTTP(HTTPConfig{AllowedHosts: []string{"192.168.1.1"}})

	tests := []struct {
		host    string
		allowed bool
	}{
		{"192.168.1.1", true},
		{"192.168.1.2", false},
		{"example.com", false},
	}
	for _, tc := range tests {
		if got := h.isHostAllowed(tc.host); got != tc.allowed {
			t.Errorf("isHostAllowed(%q) = %v, want %v", tc.host, got, tc.allowed)
		}
	}
}
