package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 50: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d)=%d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatal("buffer should add one row")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 12, 29, 14, 30, 0, 123, time.UTC)
	id := uuid.New()

	parsed, err := ParseCursor(EncodeCursor(Cursor{At: at, ID: id}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.At.Equal(at) || parsed.ID != id {
		t.Fatalf("cursor mismatch %+v", parsed)
	}
}

func TestParseCursorEdgeCases(t *testing.T) {
	if c, err := ParseCursor("  "); c != nil || err != nil {
		t.Fatalf("blank cursor should be first page, got %v %v", c, err)
	}
	if _, err := ParseCursor("%%%"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := ParseCursor("bm8tc2VwYXJhdG9y"); err == nil {
		t.Fatal("expected format error")
	}
}

func TestTrim(t *testing.T) {
	rows := []int{1, 2, 3}
	cursorOf := func(v int) Cursor {
		return Cursor{At: time.Date(2024, 12, v, 0, 0, 0, 0, time.UTC), ID: uuid.Nil}
	}

	kept, next := Trim(rows, 2, cursorOf)
	if len(kept) != 2 || next == "" {
		t.Fatalf("expected two rows and a cursor, got %v %q", kept, next)
	}
	c, err := ParseCursor(next)
	if err != nil || c.At.Day() != 2 {
		t.Fatalf("cursor should point at last kept row, got %+v err=%v", c, err)
	}

	kept, next = Trim(rows, 5, cursorOf)
	if len(kept) != 3 || next != "" {
		t.Fatalf("expected full page without cursor, got %v %q", kept, next)
	}
}
