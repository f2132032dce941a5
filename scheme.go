package itemencryptor

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// Format identifies one supported encryption format version.
type Format uint8

const (
	// FormatV1 is the legacy format: PBKDF2-HMAC-SHA256 key derivation
	// with AES-256 in CBC mode and PKCS#7 padding.
	FormatV1 Format = iota + 1
	// FormatV2 is the current format: PBKDF2-HMAC-SHA512 key derivation
	// with the ChaCha20-Poly1305 authenticated stream construction.
	FormatV2

	// FormatDefault is the format used when callers don't ask for a
	// specific one.
	FormatDefault = FormatV2
)

// FormatTagSize is the fixed width of the version tag that prefixes
// every serialized EncryptedItem. The tag width never changes between
// versions, so version sniffing works before anything else about the
// container is known.
const FormatTagSize = 3

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatV1:
		return "v1 (aes-256-cbc)"
	case FormatV2:
		return "v2 (chacha20-poly1305)"
	default:
		return "unknown"
	}
}

// Tag returns the fixed byte sequence that identifies this format on
// the wire. Tag values are disjoint across formats.
func (f Format) Tag() [FormatTagSize]byte {
	switch f {
	case FormatV1:
		return [FormatTagSize]byte{'I', 'E', 0x01}
	case FormatV2:
		return [FormatTagSize]byte{'I', 'E', 0x02}
	default:
		return [FormatTagSize]byte{}
	}
}

// FormatFromTag attempts to recognize a known format from the first
// FormatTagSize bytes of a buffer. It returns false, rather than an
// error, when the prefix is too short or matches no known format.
func FormatFromTag(prefix []byte) (Format, bool) {
	if len(prefix) < FormatTagSize {
		return 0, false
	}
	for _, f := range []Format{FormatV1, FormatV2} {
		tag := f.Tag()
		if prefix[0] == tag[0] && prefix[1] == tag[1] && prefix[2] == tag[2] {
			return f, true
		}
	}
	return 0, false
}

// Scheme bundles every cryptographic parameter for one format version.
// All parameters are pure functions of the Format, so Scheme values are
// immutable, comparable, and safe to share across goroutines.
type Scheme struct {
	Format Format
}

// NewScheme returns the Scheme for the given format, or an error if the
// format is not a known version.
func NewScheme(format Format) (Scheme, error) {
	switch format {
	case FormatV1, FormatV2:
		return Scheme{Format: format}, nil
	default:
		return Scheme{}, &FormatError{Reason: "unknown format version"}
	}
}

// DerivedKeyLength returns the symmetric key size in bytes.
func (s Scheme) DerivedKeyLength() int {
	switch s.Format {
	case FormatV1, FormatV2:
		return 32
	default:
		return 0
	}
}

// SeedSize returns the size of the random seed that is combined with
// context keywords to produce the stretched salt. For FormatV2 the seed
// doubles as the AEAD nonce.
func (s Scheme) SeedSize() int {
	switch s.Format {
	case FormatV1:
		return 32
	case FormatV2:
		return 12
	default:
		return 0
	}
}

// StretchedSaltSize returns the size of the treated salt fed to the
// password stretching function. It equals the digest size of the
// scheme's pseudorandom function.
func (s Scheme) StretchedSaltSize() int {
	switch s.Format {
	case FormatV1:
		return sha256.Size
	case FormatV2:
		return sha512.Size
	default:
		return 0
	}
}

// InitializationVectorSize returns the IV size in bytes. For FormatV2
// this is the ChaCha20-Poly1305 nonce size.
func (s Scheme) InitializationVectorSize() int {
	switch s.Format {
	case FormatV1:
		return 16
	case FormatV2:
		return 12
	default:
		return 0
	}
}

// SaltFieldSize returns the width of the trailing salt field in the
// serialized container. For FormatV1 this carries the stretched salt;
// for FormatV2 the same slot carries the Poly1305 authentication tag.
func (s Scheme) SaltFieldSize() int {
	switch s.Format {
	case FormatV1:
		return sha256.Size
	case FormatV2:
		return 16
	default:
		return 0
	}
}

// Iterations returns the password stretching iteration count.
func (s Scheme) Iterations() int {
	switch s.Format {
	case FormatV1:
		return 10_000
	case FormatV2:
		return 210_000
	default:
		return 0
	}
}

// BufferSize returns the chunk size used by the streaming transform.
// Always a multiple of the cipher block size.
func (s Scheme) BufferSize() int {
	switch s.Format {
	case FormatV1, FormatV2:
		return 4096
	default:
		return 0
	}
}

// prf returns the hash constructor used for salt treatment and PBKDF2.
func (s Scheme) prf() func() hash.Hash {
	switch s.Format {
	case FormatV2:
		return sha512.New
	default:
		return sha256.New
	}
}

// seedIsNonce reports whether the scheme reuses the key-derivation seed
// as the cipher nonce. True for the authenticated stream construction,
// where the IV slot of the container carries the seed.
func (s Scheme) seedIsNonce() bool {
	return s.Format == FormatV2
}

// minItemSize returns the smallest serialized container this scheme can
// produce: tag, IV, and salt fields with an empty ciphertext.
func (s Scheme) minItemSize() int {
	return FormatTagSize + s.InitializationVectorSize() + s.SaltFieldSize()
}
