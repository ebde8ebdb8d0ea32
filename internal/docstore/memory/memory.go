package memory

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pdfqa/internal/docstore"
	"pdfqa/internal/domain"
)

// Storage is an unbounded in-process document registry. Entries live until
// the process exits; there is no eviction.
type Storage struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	newID func() string
}

func NewStorage() *Storage {
	return &Storage{docs: make(map[string]domain.Document), newID: uuid.NewString}
}

func (s *Storage) Put(name, text string) (domain.Document, error) {
	doc := domain.Document{
		Name:    name,
		Text:    text,
		Preview: docstore.Preview(text, docstore.PreviewWords),
		Words:   len(strings.Fields(text)),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// uuid v4 collisions are not expected; a few redraws keep the
	// no-duplicate guarantee unconditional.
	for attempt := 0; attempt < 4; attempt++ {
		id := s.newID()
		if _, taken := s.docs[id]; taken {
			continue
		}
		doc.ID = id
		s.docs[id] = doc
		return doc, nil
	}
	return domain.Document{}, errors.New("could not allocate a unique document id")
}

func (s *Storage) Get(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, domain.NotFound("document " + id + " not found")
	}
	return doc, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
