package content

// Field is one named rich-text (or plain-text) slot of a journal entry
// submission. Order of fields is the submission order and is preserved
// through normalization.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ExtractedImage describes one image owned by an entry, either pulled out
// of inline base64 markup or submitted as a direct upload.
type ExtractedImage struct {
	Filename string `json:"filename"`
	RelPath  string `json:"relPath"`
	Section  string `json:"section"`
	Position int    `json:"position"`
	Caption  string `json:"caption"`
}

// Upload is a directly attached file from a multipart submission.
type Upload struct {
	Data        []byte
	Name        string
	ContentType string
	Caption     string
}

// ImageStore persists raw image bytes under a caller-chosen filename and
// returns the public URL plus the store-relative path of the written
// file. Put is all-or-nothing per file and must be safe for concurrent
// writes of distinct names.
type ImageStore interface {
	Put(data []byte, name string) (publicURL string, relPath string, err error)
}

// SectionChartUpload marks images attached as separate files rather than
// extracted from rich text. On re-save these are fully replaced, while
// inline-extracted images accumulate.
const SectionChartUpload = "chart_upload"

// NormalizedEntry is a submission after sanitization and image
// extraction, ready to hand to persistence.
type NormalizedEntry struct {
	Fields         []Field
	Images         []ExtractedImage
	SkippedInline  int
	SkippedUploads []string
}
