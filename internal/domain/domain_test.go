package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageError(t *testing.T) {
	if err := NewStorageError("add member", nil); err != nil {
		t.Fatalf("NewStorageError(nil) = %v, want nil", err)
	}

	cause := errors.New("connection reset")
	err := fmt.Errorf("bookmark: %w", NewStorageError("add member", cause))

	if !IsStorage(err) {
		t.Error("IsStorage should see through wrapping")
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if IsStorage(ErrDuplicateBookmark) {
		t.Error("sentinel errors are not storage errors")
	}

	var se *StorageError
	if !errors.As(err, &se) || se.Op != "add member" {
		t.Errorf("errors.As = %+v", se)
	}
	if got, want := se.Error(), "storage: add member: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBookmarkHasMember(t *testing.T) {
	b := &Bookmark{PlaceID: "p100", UserIDs: []int64{1, 2}}

	tests := []struct {
		user int64
		want bool
	}{
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		if got := b.HasMember(tt.user); got != tt.want {
			t.Errorf("HasMember(%d) = %v, want %v", tt.user, got, tt.want)
		}
	}
}

func TestBookmarkClone(t *testing.T) {
	b := &Bookmark{ID: 7, PlaceID: "p100", UserIDs: []int64{1, 2}}
	cp := b.Clone()

	cp.UserIDs[0] = 99
	cp.PlaceName = "changed"

	if b.UserIDs[0] != 1 {
		t.Error("Clone must not share the member slice")
	}
	if b.PlaceName != "" {
		t.Error("Clone must not alias the source record")
	}
	if cp.ID != 7 || cp.PlaceID != "p100" {
		t.Errorf("Clone lost fields: %+v", cp)
	}
}
