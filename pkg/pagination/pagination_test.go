package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default %d, got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default %d, got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max %d, got %d", MaxLimit, got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestTrimPage(t *testing.T) {
	items := []int{1, 2, 3, 4}
	page, hasMore := TrimPage(items, 3)
	if !hasMore {
		t.Fatal("expected more pages")
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page))
	}

	page, hasMore = TrimPage(items, 10)
	if hasMore {
		t.Fatal("did not expect more pages")
	}
	if len(page) != 4 {
		t.Fatalf("expected 4 items, got %d", len(page))
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		ID:        uuid.New(),
	}

	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out == nil {
		t.Fatal("expected cursor")
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	cur, err := ParseCursor("   ")
	if err != nil || cur != nil {
		t.Fatalf("expected nil cursor for empty value, got %v %v", cur, err)
	}

	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
