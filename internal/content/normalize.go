package content

import (
	"log/slog"
	"strings"
	"time"
)

var allowedUploadTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
}

// Normalizer runs the full ingestion pipeline over one entry submission:
// per-field sanitize, inline image extraction, a second sanitize pass,
// and direct-upload handling.
type Normalizer struct {
	store ImageStore
	san   *Sanitizer
}

func NewNormalizer(store ImageStore) *Normalizer {
	return &Normalizer{store: store, san: NewSanitizer()}
}

// Normalize processes fields in submission order. A value with no '<' is
// treated as plain text and stored trimmed. HTML values go through
// sanitize, extract, sanitize: the first pass keeps inline base64 images
// alive for the extractor, the second guarantees nothing outside the
// allow-list survives regardless of what extraction spliced in.
//
// Direct uploads outside the png/jpeg allow-list are skipped and
// reported, never fatal. Any image store failure aborts the whole call;
// files written earlier in the same call stay behind as orphans, which
// the caller must not reference.
func (n *Normalizer) Normalize(fields []Field, uploads []Upload, captions string, entryDate time.Time) (NormalizedEntry, error) {
	out := NormalizedEntry{Fields: make([]Field, 0, len(fields))}

	for _, f := range fields {
		if !strings.Contains(f.Value, "<") {
			out.Fields = append(out.Fields, Field{Key: f.Key, Value: strings.TrimSpace(f.Value)})
			continue
		}

		cleaned := n.san.SanitizeKeepingInlineImages(f.Value)
		res, err := ExtractInlineImages(cleaned, entryDate, f.Key, n.store)
		if err != nil {
			return NormalizedEntry{}, err
		}
		value := res.HTML
		if res.Skipped > 0 {
			value = stripInlineDataURIs(value)
		}
		out.Fields = append(out.Fields, Field{Key: f.Key, Value: n.san.Sanitize(value)})
		out.Images = append(out.Images, res.Images...)
		out.SkippedInline += res.Skipped
	}

	captionList := splitCaptions(captions)
	for i, up := range uploads {
		if len(up.Data) == 0 {
			continue
		}
		if _, ok := allowedUploadTypes[strings.ToLower(up.ContentType)]; !ok {
			slog.Warn("skip upload", "name", up.Name, "content_type", up.ContentType, "err", ErrUnsupportedMedia)
			out.SkippedUploads = append(out.SkippedUploads, up.Name)
			continue
		}

		name := uploadImageName(entryDate, time.Now(), up.Name)
		_, relPath, err := n.store.Put(up.Data, name)
		if err != nil {
			return NormalizedEntry{}, &StorageError{Filename: name, Err: err}
		}

		caption := ""
		if i < len(captionList) {
			caption = captionList[i]
		}
		out.Images = append(out.Images, ExtractedImage{
			Filename: name,
			RelPath:  relPath,
			Section:  SectionChartUpload,
			Position: i,
			Caption:  caption,
		})
	}

	return out, nil
}

func splitCaptions(blob string) []string {
	if blob == "" {
		return nil
	}
	parts := strings.Split(blob, "\n")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
