package client

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier authenticates release artifacts against the installed
// keyring and published checksum manifests.
type Verifier struct {
	keyringDir string
}

// NewVerifier creates a verifier that loads keyrings from keyringDir.
func NewVerifier(keyringDir string) *Verifier {
	return &Verifier{keyringDir: keyringDir}
}

// Verify authenticates the archive at archivePath. A published
// signature must verify against the keyring; the checksum manifest is
// consulted only when no signature exists. An empty path marks an
// artifact that was not published.
func (v *Verifier) Verify(archivePath, signaturePath, checksumPath string) (VerificationMethod, error) {
	if signaturePath != "" {
		if err := v.verifyGPG(archivePath, signaturePath); err != nil {
			return VerificationNone, fmt.Errorf("gpg verification: %w", err)
		}
		return VerificationGPG, nil
	}

	if checksumPath != "" {
		if err := v.verifySHA256(archivePath, checksumPath); err != nil {
			return VerificationNone, fmt.Errorf("checksum verification: %w", err)
		}
		return VerificationSHA256, nil
	}

	return VerificationNone, fmt.Errorf("no signature or checksum available for %s", filepath.Base(archivePath))
}

// verifyGPG checks a detached signature, accepting both armored and
// binary signature encodings.
func (v *Verifier) verifyGPG(archivePath, signaturePath string) error {
	keyring, err := v.loadKeyring()
	if err != nil {
		return err
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = archive.Close() }()

	sig, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer func() { _ = sig.Close() }()

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, archive, sig, nil); err == nil {
		return nil
	}

	if _, err := archive.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind archive: %w", err)
	}
	if _, err := sig.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind signature: %w", err)
	}

	if _, err := openpgp.CheckDetachedSignature(keyring, archive, sig, nil); err != nil {
		return fmt.Errorf("signature does not match: %w", err)
	}
	return nil
}

// loadKeyring reads the release keyring, accepting both armored and
// binary keyring encodings.
func (v *Verifier) loadKeyring() (openpgp.EntityList, error) {
	f, err := os.Open(filepath.Join(v.keyringDir, KeyringName))
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer func() { _ = f.Close() }()

	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err == nil {
		return keyring, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind keyring: %w", err)
	}
	keyring, err = openpgp.ReadKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("parse keyring: %w", err)
	}
	return keyring, nil
}

func (v *Verifier) verifySHA256(archivePath, checksumPath string) error {
	want, err := findChecksum(checksumPath, filepath.Base(archivePath))
	if err != nil {
		return err
	}

	got, err := fileSHA256(archivePath)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, want) {
		return fmt.Errorf("checksum mismatch for %s: have %s, want %s", filepath.Base(archivePath), got, want)
	}
	return nil
}

// findChecksum scans sha256sum-format manifest lines for an entry
// matching name, either exactly or by basename.
func findChecksum(checksumPath, name string) (string, error) {
	f, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		entry := strings.TrimPrefix(fields[1], "*")
		if entry == name || filepath.Base(entry) == name {
			return fields[0], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read checksum manifest: %w", err)
	}

	return "", fmt.Errorf("no checksum entry for %s", name)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
