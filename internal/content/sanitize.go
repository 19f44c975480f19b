package content

import (
	_ "embed"
	"fmt"
	"html"
	"strings"

	"github.com/naoina/toml"
	"github.com/sym01/htmlsanitizer"
)

//go:embed allowlist.toml
var allowListToml []byte

var allowList = mustUnmarshalAllowList(allowListToml)

func mustUnmarshalAllowList(cnf []byte) *htmlsanitizer.AllowList {
	v := &htmlsanitizer.AllowList{}
	if err := toml.Unmarshal(cnf, v); err != nil {
		panic("unmarshal allowlist.toml: " + err.Error())
	}
	return v
}

// Sanitizer reduces untrusted editor HTML to the allow-listed subset.
// It is total: malformed markup degrades to escaped text, it never
// returns an error. Safe for concurrent use.
type Sanitizer struct {
	impl *htmlsanitizer.HTMLSanitizer
}

func NewSanitizer() *Sanitizer {
	impl := htmlsanitizer.NewHTMLSanitizer()
	impl.AllowList = allowList.Clone()
	return &Sanitizer{impl: impl}
}

// Sanitize strips every tag, attribute and URL scheme outside the
// allow-list. Inline base64 image sources do not survive this pass, so
// it must run after extraction (or use SanitizeKeepingInlineImages).
// Idempotent.
func (s *Sanitizer) Sanitize(src string) string {
	out, err := s.impl.Sanitize([]byte(src))
	if err != nil {
		return html.EscapeString(src)
	}
	return strings.TrimSpace(string(out))
}

// SanitizeKeepingInlineImages behaves like Sanitize but preserves
// data:image/...;base64 img sources so the extractor can consume them
// next. The payloads are shielded behind placeholder URLs for the
// duration of the pass; huge base64 blobs never travel through the
// sanitizer itself.
func (s *Sanitizer) SanitizeKeepingInlineImages(src string) string {
	spans := findInlineImageSpans(src)
	if len(spans) == 0 {
		return s.Sanitize(src)
	}

	nonce := randomToken()
	var b strings.Builder
	payloads := make([]string, 0, len(spans))
	last := 0
	for k, sp := range spans {
		b.WriteString(src[last:sp.start])
		b.WriteString(placeholderURL(nonce, k))
		payloads = append(payloads, src[sp.start:sp.end])
		last = sp.end
	}
	b.WriteString(src[last:])

	out := s.Sanitize(b.String())
	for k, payload := range payloads {
		out = strings.Replace(out, placeholderURL(nonce, k), payload, 1)
	}
	return out
}

// placeholderURL is shaped like the rooted store URLs that replace data
// URIs after extraction, so it is guaranteed to survive the allow-list's
// URL policy.
func placeholderURL(nonce string, k int) string {
	return fmt.Sprintf("/inline-image-%s-%d", nonce, k)
}
