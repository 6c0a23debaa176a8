package testsupport

import (
	"testing"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
)

// MustOpenStore opens a matchstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...matchstore.Option) *matchstore.Store {
	t.Helper()

	store, err := matchstore.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("matchstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
