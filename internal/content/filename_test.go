package content

import (
	"strings"
	"testing"
	"time"
)

func TestInlineImageNameUniqueness(t *testing.T) {
	// simulate 10k extractions inside one instant: the timestamp
	// contributes nothing, the token must carry uniqueness alone
	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		name := inlineImageName("executionNotes", now, "png")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate filename after %d names: %s", i, name)
		}
		seen[name] = struct{}{}
	}
}

func TestInlineImageNameShape(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	name := inlineImageName("tradePlan", now, "svg+xml")
	if !strings.HasPrefix(name, "tradePlan_") {
		t.Fatalf("section missing from %q", name)
	}
	if strings.ContainsAny(name, "/\\+ ") {
		t.Fatalf("unsafe characters in %q", name)
	}
	if !strings.HasSuffix(name, ".svg_xml") {
		t.Fatalf("subtype not sanitized in %q", name)
	}
}

func TestUploadImageName(t *testing.T) {
	entryDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)

	name := uploadImageName(entryDate, now, "My Chart (1).PNG")
	if !strings.HasPrefix(name, "20240115_") {
		t.Fatalf("entry date missing from %q", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension not lowercased in %q", name)
	}
	if strings.ContainsAny(name, "() ") {
		t.Fatalf("original name not sanitized in %q", name)
	}

	// no usable original name
	name = uploadImageName(entryDate, now, "...")
	if !strings.Contains(name, "_chart") {
		t.Fatalf("fallback base missing from %q", name)
	}
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"executionNotes": "executionNotes",
		"a b/c":          "a_b_c",
		"__x__":          "x",
		"":               "",
		"résumé":         "r_sum",
	}
	for in, want := range cases {
		if got := safeName(in); got != want {
			t.Fatalf("safeName(%q) = %q, want %q", in, got, want)
		}
	}
}
