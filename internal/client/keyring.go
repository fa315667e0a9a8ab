package client

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// KeyringName is the filename of the installed release keyring.
const KeyringName = "cmsl.gpg"

// embeddedKeyring holds the vendor release signing key shipped inside
// the paqman binary. It seeds the keyring directory on first run so
// verification needs no network fetch of key material.
//
//go:embed keyrings/cmsl.gpg
var embeddedKeyring []byte

// extractKeyring writes the embedded release keyring to dir unless a
// keyring is already installed there.
func extractKeyring(dir string) error {
	path := filepath.Join(dir, KeyringName)
	if fileExists(path) {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create keyring directory: %w", err)
	}
	if err := os.WriteFile(path, embeddedKeyring, 0o644); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}
