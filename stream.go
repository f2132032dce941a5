package itemencryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// EncryptStream encrypts everything readable from input and writes the
// raw ciphertext (no container framing) to output, transforming one
// scheme-sized buffer at a time so peak memory stays bounded regardless
// of payload size.
//
// Only FormatV1 supports streaming. The authenticated construction of
// FormatV2 needs the whole message to compute its tag, so it returns
// ErrStreamingUnsupported; callers must buffer fully and use the
// one-shot path instead.
func EncryptStream(input io.Reader, key EncryptionKey, output io.Writer) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if key.Scheme.seedIsNonce() {
		return ErrStreamingUnsupported
	}
	return encryptCBCStream(input, key, output)
}

// DecryptStream is the inverse of EncryptStream: it reads raw FormatV1
// ciphertext from input and writes the recovered plaintext to output.
func DecryptStream(input io.Reader, key EncryptionKey, output io.Writer) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if key.Scheme.seedIsNonce() {
		return ErrStreamingUnsupported
	}
	return decryptCBCStream(input, key, output)
}

// encryptCBCStream runs the read-transform-write loop for AES-CBC with
// PKCS#7 padding. The buffer size is a scheme parameter and is always a
// multiple of the block size, so only the final short read needs
// padding.
func encryptCBCStream(input io.Reader, key EncryptionKey, output io.Writer) error {
	block, err := aes.NewCipher(key.KeyData)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	mode := cipher.NewCBCEncrypter(block, key.IV)

	buf := make([]byte, key.Scheme.BufferSize())
	filled := 0
	for {
		n, rerr := input.Read(buf[filled:])
		filled += n
		if rerr == io.EOF {
			final := pkcs7Pad(buf[:filled], block.BlockSize())
			mode.CryptBlocks(final, final)
			if _, err := output.Write(final); err != nil {
				return fmt.Errorf("failed to write ciphertext: %w", err)
			}
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("failed to read plaintext: %w", rerr)
		}
		if filled == len(buf) {
			mode.CryptBlocks(buf, buf)
			if _, err := output.Write(buf); err != nil {
				return fmt.Errorf("failed to write ciphertext: %w", err)
			}
			filled = 0
		}
	}
}

// decryptCBCStream runs the inverse loop. The final block is held back
// until EOF because it carries the padding; a ciphertext that is empty
// or not block-aligned fails the same way a padding check does.
func decryptCBCStream(input io.Reader, key EncryptionKey, output io.Writer) error {
	block, err := aes.NewCipher(key.KeyData)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	mode := cipher.NewCBCDecrypter(block, key.IV)
	blockSize := block.BlockSize()

	buf := make([]byte, key.Scheme.BufferSize())
	filled := 0
	var tail []byte
	for {
		n, rerr := input.Read(buf[filled:])
		filled += n
		atEOF := rerr == io.EOF
		if rerr != nil && !atEOF {
			return fmt.Errorf("failed to read ciphertext: %w", rerr)
		}

		usable := filled - filled%blockSize
		if atEOF {
			if filled%blockSize != 0 {
				return ErrDecryptionFailed
			}
			usable = filled
		}

		if usable > 0 {
			mode.CryptBlocks(buf[:usable], buf[:usable])
			if tail != nil {
				if _, err := output.Write(tail); err != nil {
					return fmt.Errorf("failed to write plaintext: %w", err)
				}
			}
			// Hold the last decrypted block back; it may be the padded one.
			if _, err := output.Write(buf[:usable-blockSize]); err != nil {
				return fmt.Errorf("failed to write plaintext: %w", err)
			}
			tail = append(tail[:0], buf[usable-blockSize:usable]...)
			copy(buf, buf[usable:filled])
			filled -= usable
		}

		if atEOF {
			if tail == nil {
				return ErrDecryptionFailed
			}
			final, err := pkcs7Unpad(tail, blockSize)
			if err != nil {
				return err
			}
			if _, err := output.Write(final); err != nil {
				return fmt.Errorf("failed to write plaintext: %w", err)
			}
			return nil
		}
	}
}
