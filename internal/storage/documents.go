package storage

import "context"

// DocumentSlot binds one document key so callers can treat it as a single
// whole-document blob.
type DocumentSlot struct {
	store *Store
	key   string
}

// Slot returns the document slot for key
func (s *Store) Slot(key string) *DocumentSlot {
	return &DocumentSlot{store: s, key: key}
}

// Load returns the stored document, or nil if there is none
func (d *DocumentSlot) Load(ctx context.Context) ([]byte, error) {
	return d.store.GetDocument(ctx, d.key)
}

// Save replaces the stored document
func (d *DocumentSlot) Save(ctx context.Context, doc []byte) error {
	return d.store.PutDocument(ctx, d.key, doc)
}

// Clear removes the stored document
func (d *DocumentSlot) Clear(ctx context.Context) error {
	return d.store.DeleteDocument(ctx, d.key)
}
