package content

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMedia rejects direct uploads outside the image allow-list.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// DecodeError reports a base64 payload that could not be decoded. It is
// logged and the offending tag is skipped; it never fails a save.
type DecodeError struct {
	Section  string
	Position int
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode inline image %d in %q: %v", e.Position, e.Section, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StorageError reports an image store write failure. It is fatal to the
// whole normalization call: the caller must not persist the entry. Files
// already written in the same call are orphaned and left in place.
type StorageError struct {
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store image %q: %v", e.Filename, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
