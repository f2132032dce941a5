package itemencryptor

import (
	"bytes"
	"crypto/sha256"
)

// EncryptedItem is the versioned envelope produced by encryption.
//
// Serialized form, fixed per version:
//
//	[version tag: 3 bytes][iv][ciphertext][salt]
//
// The IV and salt widths depend on the version, which is why the tag is
// always the first fixed-width field. For FormatV1 the IV and salt
// slots hold a literal CBC IV and the PBKDF2-stretched salt. For
// FormatV2 the same slots hold the AEAD nonce and the authentication
// tag; the envelope shape never changes, only the meaning of the slots.
type EncryptedItem struct {
	Format     Format
	IV         []byte
	Ciphertext []byte
	Salt       []byte
}

// Bytes serializes the item as tag || iv || ciphertext || salt.
func (it EncryptedItem) Bytes() []byte {
	tag := it.Format.Tag()
	raw := make([]byte, 0, FormatTagSize+len(it.IV)+len(it.Ciphertext)+len(it.Salt))
	raw = append(raw, tag[:]...)
	raw = append(raw, it.IV...)
	raw = append(raw, it.Ciphertext...)
	raw = append(raw, it.Salt...)
	return raw
}

// Equal reports whether two items serialize to identical bytes. The
// container defines equality over the exact wire form, not over the
// structural fields independently.
func (it EncryptedItem) Equal(other EncryptedItem) bool {
	return bytes.Equal(it.Bytes(), other.Bytes())
}

// Sum returns a digest of the serialized item, suitable for use as a
// map key or content fingerprint. Items that are Equal sum identically.
func (it EncryptedItem) Sum() [sha256.Size]byte {
	return sha256.Sum256(it.Bytes())
}

// ParseEncryptedItem reconstructs an EncryptedItem from raw bytes.
//
// The version tag is read first; the resolved scheme determines how
// wide the IV and salt fields are. The IV is sliced from the front,
// immediately after the tag, the salt from the back, and the ciphertext
// fills whatever remains. Buffers with an unrecognized tag, or too
// short to hold the tag, IV, and salt, fail with a format error.
//
// Round-trip law: ParseEncryptedItem(it.Bytes()) equals it for every
// valid item, and parsed.Bytes() reproduces any input that parses.
func ParseEncryptedItem(raw []byte) (EncryptedItem, error) {
	format, ok := FormatFromTag(raw)
	if !ok {
		return EncryptedItem{}, &FormatError{Reason: "unrecognized version tag"}
	}
	scheme, err := NewScheme(format)
	if err != nil {
		return EncryptedItem{}, err
	}

	ivLen := scheme.InitializationVectorSize()
	saltLen := scheme.SaltFieldSize()
	if len(raw) < scheme.minItemSize() {
		return EncryptedItem{}, &FormatError{Reason: "buffer too short for declared version"}
	}

	iv := raw[FormatTagSize : FormatTagSize+ivLen]
	salt := raw[len(raw)-saltLen:]
	ciphertext := raw[FormatTagSize+ivLen : len(raw)-saltLen]

	return EncryptedItem{
		Format:     format,
		IV:         bytes.Clone(iv),
		Ciphertext: bytes.Clone(ciphertext),
		Salt:       bytes.Clone(salt),
	}, nil
}
