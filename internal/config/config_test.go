package config

import "testing"

func TestParseTimestampUnixSeconds(t *testing.T) {
	got, err := ParseTimestamp("1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1700000000 {
		t.Fatalf("got %d", got)
	}
}

func TestParseTimestampRFC3339(t *testing.T) {
	got, err := ParseTimestamp("2023-11-14T22:13:20Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1700000000 {
		t.Fatalf("got %d", got)
	}
}

func TestParseTimestampBlank(t *testing.T) {
	for _, input := range []string{"", "  ", "\t"} {
		if _, err := ParseTimestamp(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestParseTimestampTrimsWhitespace(t *testing.T) {
	got, err := ParseTimestamp(" 1700000000 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1700000000 {
		t.Fatalf("got %d", got)
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}
