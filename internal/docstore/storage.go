package docstore

import (
	"strings"

	"pdfqa/internal/domain"
)

// PreviewWords is the number of leading words kept as a document preview.
const PreviewWords = 300

// Storage keeps extracted documents addressable by an opaque id.
// Implementations must be safe for concurrent use and must never hand out
// the same id twice.
type Storage interface {
	Put(name, text string) (domain.Document, error)
	Get(id string) (domain.Document, error)
	Len() int
}

// Preview returns the first n whitespace-delimited words of text joined by
// single spaces.
func Preview(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
