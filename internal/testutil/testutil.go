// Package testutil provides shared test helpers for setting up note vaults.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/ansuz/internal/vault"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestVault creates a temporary notes directory with a vault.Store.
func TestVault(t *testing.T) (string, *vault.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := vault.New(dir, DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
