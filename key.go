package itemencryptor

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// EncryptionKey is a derived symmetric key together with the non-secret
// materials needed to re-derive or verify it later. KeyData is secret;
// the IV and Salt are not, and are safely stored alongside ciphertext.
//
// EncryptionKey values are immutable once created and safe to share
// across goroutines.
type EncryptionKey struct {
	Scheme  Scheme
	KeyData []byte // Derived key bytes (secret)
	IV      []byte // Initialization vector, scheme-sized
	Salt    []byte // Stretched salt, scheme-sized
	Context string // Optional free-text label, not cryptographically bound
}

// Equal reports whether two keys have the same scheme, key data, IV,
// and salt. The context label does not participate in equality.
// Key data is compared in constant time.
func (k EncryptionKey) Equal(other EncryptionKey) bool {
	return k.Scheme == other.Scheme &&
		subtle.ConstantTimeCompare(k.KeyData, other.KeyData) == 1 &&
		bytes.Equal(k.IV, other.IV) &&
		bytes.Equal(k.Salt, other.Salt)
}

// Zero overwrites the secret key bytes. Callers that hold keys beyond a
// single operation should call Zero when done. Best effort only: copies
// made by the runtime are out of reach.
func (k EncryptionKey) Zero() {
	for i := range k.KeyData {
		k.KeyData[i] = 0
	}
}

// RawData serializes the key for external storage as
// tag || keyData || iv || salt. Every field width is fixed by the
// scheme, so the blob parses without length prefixes. The context label
// is not part of the blob.
func (k EncryptionKey) RawData() []byte {
	tag := k.Scheme.Format.Tag()
	raw := make([]byte, 0, FormatTagSize+len(k.KeyData)+len(k.IV)+len(k.Salt))
	raw = append(raw, tag[:]...)
	raw = append(raw, k.KeyData...)
	raw = append(raw, k.IV...)
	raw = append(raw, k.Salt...)
	return raw
}

// ParseEncryptionKey reconstructs a key from the blob produced by
// RawData. The blob must be exactly the size its version tag implies.
func ParseEncryptionKey(raw []byte) (EncryptionKey, error) {
	format, ok := FormatFromTag(raw)
	if !ok {
		return EncryptionKey{}, &FormatError{Reason: "unrecognized key format tag"}
	}
	scheme, err := NewScheme(format)
	if err != nil {
		return EncryptionKey{}, err
	}
	keyLen := scheme.DerivedKeyLength()
	ivLen := scheme.InitializationVectorSize()
	saltLen := scheme.StretchedSaltSize()
	want := FormatTagSize + keyLen + ivLen + saltLen
	if len(raw) != want {
		return EncryptionKey{}, &FormatError{
			Reason: fmt.Sprintf("key blob must be %d bytes for %s, got %d", want, format, len(raw)),
		}
	}
	offset := FormatTagSize
	key := EncryptionKey{
		Scheme:  scheme,
		KeyData: bytes.Clone(raw[offset : offset+keyLen]),
		IV:      bytes.Clone(raw[offset+keyLen : offset+keyLen+ivLen]),
		Salt:    bytes.Clone(raw[offset+keyLen+ivLen:]),
	}
	return key, nil
}

// RandomBytes returns count cryptographically secure random bytes.
func RandomBytes(count int) ([]byte, error) {
	buf := make([]byte, count)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return buf, nil
}

// normalizePassword trims surrounding whitespace and applies Unicode
// canonical decomposition so the same visible password derives the same
// key on every platform.
func normalizePassword(password string) []byte {
	return []byte(norm.NFD.String(strings.TrimSpace(password)))
}

// stretchSalt treats a seed with ordered context keywords to produce
// the salt used for password stretching. Each keyword is folded in
// sequentially by keyed hashing, so changing keyword order changes the
// result. With no keywords the output is the keyed hash of the seed
// alone, which also fixes the output width to the PRF digest size.
func stretchSalt(seed []byte, contextKeywords []string, scheme Scheme) []byte {
	prf := scheme.prf()
	mac := hmac.New(prf, seed)
	state := mac.Sum(nil)
	for _, keyword := range contextKeywords {
		mac = hmac.New(prf, state)
		mac.Write([]byte(keyword))
		state = mac.Sum(nil)
	}
	return state
}

// DeriveKey derives a fresh EncryptionKey from a password, a random
// seed, and optional ordered context keywords. The seed length must
// match scheme.SeedSize.
//
// For schemes with a discrete IV a random IV is generated; for the
// authenticated stream scheme the seed itself becomes the nonce carried
// in the IV slot. Either way, DeriveKey followed by RederiveKey with
// the resulting Salt and IV and the same password reproduces a key
// equal in all fields.
func DeriveKey(password string, seed []byte, contextKeywords []string, scheme Scheme) (EncryptionKey, error) {
	if password == "" {
		return EncryptionKey{}, ErrNoPassword
	}
	if len(seed) != scheme.SeedSize() {
		return EncryptionKey{}, &KeyMaterialError{Field: "seed", Expected: scheme.SeedSize(), Got: len(seed)}
	}

	salt := stretchSalt(seed, contextKeywords, scheme)

	var iv []byte
	if scheme.seedIsNonce() {
		iv = bytes.Clone(seed)
	} else {
		var err error
		iv, err = RandomBytes(scheme.InitializationVectorSize())
		if err != nil {
			return EncryptionKey{}, err
		}
	}

	keyData := pbkdf2.Key(normalizePassword(password), salt, scheme.Iterations(), scheme.DerivedKeyLength(), scheme.prf())
	return EncryptionKey{
		Scheme:  scheme,
		KeyData: keyData,
		IV:      iv,
		Salt:    salt,
	}, nil
}

// RederiveKey reproduces an EncryptionKey from an already-stretched
// salt and IV, as previously extracted from a stored key or item, and
// the same password. It is the deterministic inverse of DeriveKey.
func RederiveKey(password string, treatedSalt, iv []byte, scheme Scheme) (EncryptionKey, error) {
	if password == "" {
		return EncryptionKey{}, ErrNoPassword
	}
	if len(treatedSalt) != scheme.StretchedSaltSize() {
		return EncryptionKey{}, &KeyMaterialError{Field: "salt", Expected: scheme.StretchedSaltSize(), Got: len(treatedSalt)}
	}
	if len(iv) != scheme.InitializationVectorSize() {
		return EncryptionKey{}, &KeyMaterialError{Field: "iv", Expected: scheme.InitializationVectorSize(), Got: len(iv)}
	}

	keyData := pbkdf2.Key(normalizePassword(password), treatedSalt, scheme.Iterations(), scheme.DerivedKeyLength(), scheme.prf())
	return EncryptionKey{
		Scheme:  scheme,
		KeyData: keyData,
		IV:      bytes.Clone(iv),
		Salt:    bytes.Clone(treatedSalt),
	}, nil
}
