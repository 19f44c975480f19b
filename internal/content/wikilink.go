package content

import (
	"html"
	"regexp"
	"strings"
)

var wikilinkRe = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)

// ResolveWikilinks replaces every ![[filename]] token whose filename
// appears in the manifest with a displayable image block pointing at the
// stored file. Tokens with no matching image stay verbatim, so a broken
// reference is visible to the reader instead of vanishing. Render-time
// only; stored content is never mutated.
func ResolveWikilinks(text string, images []ExtractedImage, uploadsURL string) string {
	if text == "" || !strings.Contains(text, "![[") {
		return text
	}
	byName := make(map[string]ExtractedImage, len(images))
	for _, img := range images {
		byName[img.Filename] = img
	}

	idx := wikilinkRe.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range idx {
		img, ok := byName[text[m[2]:m[3]]]
		if !ok {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(imageBlock(img, uploadsURL))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func imageBlock(img ExtractedImage, uploadsURL string) string {
	url := strings.TrimRight(uploadsURL, "/") + "/" + img.RelPath
	alt := img.Caption
	if alt == "" {
		alt = "Trading chart"
	}
	var b strings.Builder
	b.WriteString(`<div class="journal-image"><img src="`)
	b.WriteString(html.EscapeString(url))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(alt))
	b.WriteString(`" class="journal-image-img">`)
	if img.Caption != "" {
		b.WriteString(`<p class="journal-image-caption">`)
		b.WriteString(html.EscapeString(img.Caption))
		b.WriteString(`</p>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
