package content

import (
	"encoding/base64"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// inlineImageRe matches an img tag with an inline base64 source.
// Group 1 spans the whole data URI (the only bytes that get replaced),
// group 2 the image subtype, group 3 the payload.
var inlineImageRe = regexp.MustCompile(
	`<img[^>]+src="(data:image/([A-Za-z0-9.+-]+);base64,([^"]*))"[^>]*>`)

type dataURISpan struct {
	start   int // group 1 start
	end     int // group 1 end
	subtype string
	payload string
}

func findInlineImageSpans(html string) []dataURISpan {
	idx := inlineImageRe.FindAllStringSubmatchIndex(html, -1)
	if len(idx) == 0 {
		return nil
	}
	spans := make([]dataURISpan, 0, len(idx))
	for _, m := range idx {
		spans = append(spans, dataURISpan{
			start:   m[2],
			end:     m[3],
			subtype: html[m[4]:m[5]],
			payload: html[m[6]:m[7]],
		})
	}
	return spans
}

// ExtractResult is the rewritten fragment plus the manifest rows for the
// images pulled out of it.
type ExtractResult struct {
	HTML    string
	Images  []ExtractedImage
	Skipped int
}

// ExtractInlineImages finds every base64-embedded image in the fragment,
// persists the decoded bytes through store and splices the store's public
// URL over the data URI, leaving every other byte of the input untouched.
//
// Spans are collected up front and the output assembled in one pass, so
// the scan never races its own replacements. A payload that does not
// decode is logged and its tag left as-is; a store failure aborts the
// whole call.
func ExtractInlineImages(html string, entryDate time.Time, section string, store ImageStore) (ExtractResult, error) {
	spans := findInlineImageSpans(html)
	if len(spans) == 0 {
		return ExtractResult{HTML: html}, nil
	}

	res := ExtractResult{}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(html[last:sp.start])
		last = sp.end

		data, err := decodeBase64Payload(sp.payload)
		if err != nil {
			derr := &DecodeError{Section: section, Position: len(res.Images), Err: err}
			slog.Warn("skip inline image", "section", section, "err", derr)
			res.Skipped++
			// keep the original data URI in place
			b.WriteString(html[sp.start:sp.end])
			continue
		}

		name := inlineImageName(section, time.Now(), sp.subtype)
		publicURL, relPath, err := store.Put(data, name)
		if err != nil {
			return ExtractResult{}, &StorageError{Filename: name, Err: err}
		}
		b.WriteString(publicURL)

		res.Images = append(res.Images, ExtractedImage{
			Filename: name,
			RelPath:  relPath,
			Section:  section,
			Position: len(res.Images),
		})
	}
	b.WriteString(html[last:])
	res.HTML = b.String()
	return res, nil
}

// stripInlineDataURIs blanks any data:image src left behind by
// extraction (malformed payloads it refused to decode). The persisted
// record must never carry embedded binary, so the tag stays but its
// source is emptied.
func stripInlineDataURIs(html string) string {
	spans := findInlineImageSpans(html)
	if len(spans) == 0 {
		return html
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(html[last:sp.start])
		last = sp.end
	}
	b.WriteString(html[last:])
	return b.String()
}

func decodeBase64Payload(payload string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	return base64.StdEncoding.DecodeString(cleaned)
}
