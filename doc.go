// Package itemencryptor provides password- and key-based symmetric
// encryption of opaque byte payloads into a versioned, self-describing
// container format, and back.
//
// # Overview
//
// A payload is encrypted with a key derived from a password, and the
// result is wrapped in an EncryptedItem: a compact binary envelope that
// carries everything except the password needed to decrypt it later.
// Two format versions are supported side by side, so data written under
// either can always be read back with a key of the matching version.
//
// # Supported Formats
//
//   - FormatV1 (legacy): PBKDF2-HMAC-SHA256 key stretching with AES-256
//     in CBC mode and PKCS#7 padding, streamed through a bounded buffer
//   - FormatV2 (current): PBKDF2-HMAC-SHA512 key stretching with the
//     ChaCha20-Poly1305 authenticated stream construction
//
// # Basic Usage
//
//	item, err := itemencryptor.EncryptData(payload, "correct horse", itemencryptor.FormatV2)
//	if err != nil {
//	    panic(err)
//	}
//
//	// Persist or transmit the container.
//	raw := item.Bytes()
//
//	// Later, with only the password:
//	parsed, err := itemencryptor.ParseEncryptedItem(raw)
//	if err != nil {
//	    panic(err)
//	}
//	payload, err = itemencryptor.DecryptData(parsed, "correct horse")
//
// # Container Format
//
// Every serialized item has the shape
//
//	[version tag: 3 bytes][iv][ciphertext][salt]
//
// The tag width is fixed across versions so the version can be sniffed
// before anything else about the structure is known; the IV and salt
// widths follow from the version. For FormatV2 the IV slot carries the
// AEAD nonce and the salt slot carries the authentication tag: the
// envelope shape is reused, not redefined.
//
// # Key Derivation
//
// Keys are stretched from a trimmed, NFD-normalized password and a
// treated salt. The salt treatment folds an ordered list of context
// keywords into a random seed by chained keyed hashing, binding the key
// to a specific identity context when callers want that. The seed, salt,
// and IV are not secret: shipping them inside the container is what
// lets a password alone reconstitute the key.
//
// # Error Handling
//
// Validation and format problems surface distinctly (ErrNoPassword,
// KeyMaterialError, FormatError wrapping ErrBadData,
// ErrIncorrectVersion). Every cryptographic failure on the decrypt path
// collapses into the single ErrDecryptionFailed, so callers cannot be
// turned into a padding or tag oracle. Present it to users uniformly as
// "wrong password or corrupted data".
//
// # Concurrency
//
// Scheme, EncryptionKey, and EncryptedItem are immutable values, and no
// package state is shared between calls, so every operation is safe to
// invoke concurrently.
package itemencryptor
