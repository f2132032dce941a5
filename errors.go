package itemencryptor

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNoPassword is returned when an empty password is supplied to an
	// operation that derives a key. It is raised before any cryptographic
	// work is attempted.
	ErrNoPassword = errors.New("password cannot be empty")

	// ErrBadData is the coarse class for malformed containers: an
	// unrecognized version tag or a buffer too short to hold the fields
	// its version requires.
	ErrBadData = errors.New("data is not a recognized encrypted container")

	// ErrIncorrectVersion is returned when a key's scheme version does
	// not match the version tag of the item it is asked to decrypt.
	ErrIncorrectVersion = errors.New("key version does not match item version")

	// ErrDecryptionFailed covers every cryptographic failure on the
	// decrypt path: authentication tag mismatch, invalid padding, or any
	// other sign that this key could not have produced this ciphertext.
	// The cause is deliberately not distinguished.
	ErrDecryptionFailed = errors.New("decryption failed: wrong password or corrupted data")

	// ErrStreamingUnsupported is returned when the streaming transform is
	// requested for a format whose authenticated construction requires
	// the whole message at once.
	ErrStreamingUnsupported = errors.New("format does not support streaming")

	// ErrImproperKeyMaterial is the coarse class wrapped by every
	// KeyMaterialError.
	ErrImproperKeyMaterial = errors.New("improper key material")

	// ErrKeyNotFound is returned by a KeyStore when no key is stored
	// under the requested tag.
	ErrKeyNotFound = errors.New("no key stored under tag")
)

// KeyMaterialError reports a seed, salt, or IV whose length does not
// match the scheme's requirement. The field name lets callers diagnose
// which input was malformed.
type KeyMaterialError struct {
	Field    string // "seed", "salt", or "iv"
	Expected int    // Required length in bytes
	Got      int    // Actual length in bytes
}

func (e *KeyMaterialError) Error() string {
	return fmt.Sprintf("improper key material: %s must be %d bytes, got %d", e.Field, e.Expected, e.Got)
}

func (e *KeyMaterialError) Unwrap() error {
	return ErrImproperKeyMaterial
}

// FormatError reports a structural problem with a serialized container.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bad container data: %s", e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrBadData
}

// IsKeyMaterialError checks if an error is a key material error.
func IsKeyMaterialError(err error) bool {
	var ke *KeyMaterialError
	return errors.As(err, &ke)
}

// IsFormatError checks if an error is a container format error.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
