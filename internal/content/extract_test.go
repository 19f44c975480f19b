package content

import (
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type stubPut struct {
	Name string
	Data []byte
}

// stubStore records puts and can be told to fail the n-th one.
type stubStore struct {
	mu     sync.Mutex
	puts   []stubPut
	failOn int // 1-based put index that fails; 0 = never
}

func (s *stubStore) Put(data []byte, name string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, stubPut{Name: name, Data: data})
	if s.failOn > 0 && len(s.puts) == s.failOn {
		return "", "", errors.New("disk full")
	}
	return "/uploads/images/" + name, "images/" + name, nil
}

var testDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestExtractInlineImages(t *testing.T) {
	store := &stubStore{}
	in := `<p>Hi</p><img src="data:image/png;base64,iVBORw0KGgo=" alt="first"><div><img class="c" src="data:image/jpeg;base64,/9j/4AAQ" alt="second"></div>`

	res, err := ExtractInlineImages(in, testDate, "executionNotes", store)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(res.Images))
	}
	if res.Skipped != 0 {
		t.Fatalf("expected no skips, got %d", res.Skipped)
	}
	if strings.Contains(res.HTML, "data:image/") {
		t.Fatalf("data uri left in output: %q", res.HTML)
	}
	if !strings.HasPrefix(res.HTML, "<p>Hi</p>") {
		t.Fatalf("bytes before first match altered: %q", res.HTML)
	}
	for _, want := range []string{`alt="first"`, `alt="second"`, `class="c"`, "</div>"} {
		if !strings.Contains(res.HTML, want) {
			t.Fatalf("attribute or markup outside data uri altered, missing %s: %q", want, res.HTML)
		}
	}

	for i, img := range res.Images {
		if img.Position != i {
			t.Fatalf("image %d has position %d", i, img.Position)
		}
		if img.Section != "executionNotes" {
			t.Fatalf("image %d has section %q", i, img.Section)
		}
		if !strings.Contains(res.HTML, "/uploads/images/"+img.Filename) {
			t.Fatalf("rewritten url for %q missing: %q", img.Filename, res.HTML)
		}
	}
	if !strings.HasSuffix(res.Images[0].Filename, ".png") {
		t.Fatalf("expected png extension, got %q", res.Images[0].Filename)
	}
	if !strings.HasSuffix(res.Images[1].Filename, ".jpeg") {
		t.Fatalf("expected jpeg extension, got %q", res.Images[1].Filename)
	}

	wantBytes, _ := base64.StdEncoding.DecodeString("iVBORw0KGgo=")
	if string(store.puts[0].Data) != string(wantBytes) {
		t.Fatalf("stored bytes do not match decoded payload")
	}
}

func TestExtractNoImages(t *testing.T) {
	store := &stubStore{}
	in := `<p>nothing to see</p><img src="/uploads/images/existing.png" alt="x">`
	res, err := ExtractInlineImages(in, testDate, "learnings", store)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.HTML != in {
		t.Fatalf("input altered without any inline image: %q", res.HTML)
	}
	if len(res.Images) != 0 || len(store.puts) != 0 {
		t.Fatalf("unexpected extraction: %+v", res.Images)
	}
}

func TestExtractMalformedBase64Skipped(t *testing.T) {
	store := &stubStore{}
	in := `<img src="data:image/png;base64,!!!not-base64!!!" alt="bad"><img src="data:image/gif;base64,R0lGODlh" alt="good">`
	res, err := ExtractInlineImages(in, testDate, "tradePlan", store)
	if err != nil {
		t.Fatalf("extract must not fail on a bad payload: %v", err)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skip, got %d", res.Skipped)
	}
	if len(res.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(res.Images))
	}
	if res.Images[0].Position != 0 {
		t.Fatalf("surviving image position = %d", res.Images[0].Position)
	}
	// the malformed tag is left untouched
	if !strings.Contains(res.HTML, "data:image/png;base64,!!!not-base64!!!") {
		t.Fatalf("malformed tag was altered: %q", res.HTML)
	}
	if strings.Contains(res.HTML, "data:image/gif") {
		t.Fatalf("valid image not extracted: %q", res.HTML)
	}
}

func TestExtractStorageFailureAborts(t *testing.T) {
	store := &stubStore{failOn: 2}
	in := `<img src="data:image/png;base64,iVBORw0KGgo="><img src="data:image/png;base64,iVBORw0KGgo=">`
	_, err := ExtractInlineImages(in, testDate, "macroContext", store)
	if err == nil {
		t.Fatal("expected storage error")
	}
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StorageError, got %T: %v", err, err)
	}
}

func TestExtractWhitespaceInPayload(t *testing.T) {
	store := &stubStore{}
	in := `<img src="data:image/png;base64,iVBO Rw0KGgo=">`
	res, err := ExtractInlineImages(in, testDate, "notes", store)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Images) != 1 {
		t.Fatalf("payload with spaces not decoded: %+v", res)
	}
}
