package itemencryptor

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealItem encrypts plaintext under the given key and wraps the result
// in an EncryptedItem tagged with the key's format. Dispatch is a
// closed switch over the format; adding a version means adding a case.
func sealItem(plaintext []byte, key EncryptionKey) (EncryptedItem, error) {
	if err := validateKey(key); err != nil {
		return EncryptedItem{}, err
	}

	switch key.Scheme.Format {
	case FormatV1:
		var ciphertext bytes.Buffer
		if err := encryptCBCStream(bytes.NewReader(plaintext), key, &ciphertext); err != nil {
			return EncryptedItem{}, err
		}
		return EncryptedItem{
			Format:     key.Scheme.Format,
			IV:         bytes.Clone(key.IV),
			Ciphertext: ciphertext.Bytes(),
			Salt:       bytes.Clone(key.Salt),
		}, nil

	case FormatV2:
		aead, err := chacha20poly1305.New(key.KeyData)
		if err != nil {
			return EncryptedItem{}, fmt.Errorf("failed to create cipher: %w", err)
		}
		// The seed-derived nonce rides in the IV slot; the combined
		// ciphertext+tag output is split so the tag rides in the salt slot.
		sealed := aead.Seal(nil, key.IV, plaintext, nil)
		split := len(sealed) - aead.Overhead()
		return EncryptedItem{
			Format:     key.Scheme.Format,
			IV:         bytes.Clone(key.IV),
			Ciphertext: bytes.Clone(sealed[:split]),
			Salt:       bytes.Clone(sealed[split:]),
		}, nil

	default:
		return EncryptedItem{}, &FormatError{Reason: "unknown format version"}
	}
}

// openItem decrypts an EncryptedItem with the given key. The key's
// format must already have been checked against the item's; openItem
// re-checks as a last line of defense so a mismatched-parameter cipher
// call can never run.
//
// Every cryptographic failure surfaces as ErrDecryptionFailed without
// saying which internal check tripped.
func openItem(item EncryptedItem, key EncryptionKey) ([]byte, error) {
	if item.Format != key.Scheme.Format {
		return nil, ErrIncorrectVersion
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	switch item.Format {
	case FormatV1:
		var plaintext bytes.Buffer
		if err := decryptCBCStream(bytes.NewReader(item.Ciphertext), key, &plaintext); err != nil {
			return nil, err
		}
		return plaintext.Bytes(), nil

	case FormatV2:
		aead, err := chacha20poly1305.New(key.KeyData)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		if len(item.Salt) != aead.Overhead() || len(item.IV) != aead.NonceSize() {
			return nil, ErrDecryptionFailed
		}
		sealed := make([]byte, 0, len(item.Ciphertext)+len(item.Salt))
		sealed = append(sealed, item.Ciphertext...)
		sealed = append(sealed, item.Salt...)
		plaintext, err := aead.Open(nil, item.IV, sealed, nil)
		if err != nil {
			return nil, ErrDecryptionFailed
		}
		return plaintext, nil

	default:
		return nil, &FormatError{Reason: "unknown format version"}
	}
}

// pkcs7Pad appends PKCS#7 padding, always adding between 1 and
// blockSize bytes.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad strips and verifies PKCS#7 padding from the final block.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrDecryptionFailed
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-padLen], nil
}
