// SPDX-License-Identifier: MPL-2.0

package checksum

import (
	_ "crypto/sha256" // registers the hash used by digest.SHA256
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"
)

// HexLength is the length of a hex-encoded SHA-256 digest.
const HexLength = 64

// ErrInvalidDigest is the sentinel error wrapped by InvalidDigestError.
var ErrInvalidDigest = errors.New("invalid digest")

type (
	// Digest is a lowercase hex-encoded SHA-256 digest of a file's content.
	Digest string

	// InvalidDigestError is returned when a Digest is not 64 lowercase hex characters.
	InvalidDigestError struct {
		Value Digest
	}
)

// File hashes the full content of the file at path.
// The file is streamed, so large game archives are never held in memory.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	d, err := digest.SHA256.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return Digest(d.Encoded()), nil
}

// Bytes hashes an in-memory buffer.
func Bytes(data []byte) Digest {
	return Digest(digest.SHA256.FromBytes(data).Encoded())
}

// String returns the hex form of the digest.
func (d Digest) String() string { return string(d) }

// IsValid returns whether the Digest is a well-formed SHA-256 hex digest.
func (d Digest) IsValid() (bool, []error) {
	if len(d) != HexLength || strings.Trim(string(d), "0123456789abcdef") != "" {
		return false, []error{&InvalidDigestError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDigestError.
func (e *InvalidDigestError) Error() string {
	return fmt.Sprintf("invalid digest %q: must be %d lowercase hex characters", e.Value, HexLength)
}

// Unwrap returns ErrInvalidDigest for errors.Is() compatibility.
func (e *InvalidDigestError) Unwrap() error { return ErrInvalidDigest }
