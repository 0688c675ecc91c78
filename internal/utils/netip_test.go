package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"10.0.0.1:8080":   "10.0.0.1",
		"10.0.0.1":        "10.0.0.1",
		"[::1]:443":       "::1",
		"[::1]":           "::1",
		"ablemap.kr:8080": "ablemap.kr",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")

	if got := ClientIP(req, false); got != "127.0.0.1" {
		t.Errorf("untrusted: got %q", got)
	}
	if got := ClientIP(req, true); got != "203.0.113.7" {
		t.Errorf("trusted xff: got %q", got)
	}

	req.Header.Set("CF-Connecting-IP", "198.51.100.4")
	if got := ClientIP(req, true); got != "198.51.100.4" {
		t.Errorf("cloudflare header: got %q", got)
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.4 ", "not-an-ip", "fd00::/8"})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"192.168.1.4", true},
		{"192.168.1.5", false},
		{"::ffff:10.0.0.1", true},
		{"fd12::1", true},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher([]string{"", "nope"}).IsEmpty() {
		t.Error("matcher with no valid entries should be empty")
	}
}
