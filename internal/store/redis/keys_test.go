package redis

import (
	"strings"
	"testing"
)

func TestSubjectKey(t *testing.T) {
	tests := []struct {
		name       string
		credential string
	}{
		{name: "simple token", credential: "abc"},
		{name: "jwt-like token", credential: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"},
		{name: "empty", credential: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := SubjectKey(tt.credential)
			if !strings.HasPrefix(key, KeyPrefixSubject) {
				t.Errorf("SubjectKey() = %v, missing prefix", key)
			}
			if len(key) != len(KeyPrefixSubject)+64 {
				t.Errorf("SubjectKey() length = %d, want prefix + 64 hex chars", len(key))
			}
			if tt.credential != "" && strings.Contains(key, tt.credential) {
				t.Errorf("SubjectKey() leaks the credential")
			}
			if SubjectKey(tt.credential) != key {
				t.Errorf("SubjectKey() is not deterministic")
			}
		})
	}

	if SubjectKey("a") == SubjectKey("b") {
		t.Error("distinct credentials must not share a key")
	}
}
