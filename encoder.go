package itemencryptor

// Encoder turns a structured value into a flat byte sequence prior to
// encryption. The core never inspects the encoded bytes.
type Encoder interface {
	Encode(value any) ([]byte, error)
}

// Decoder is the inverse of Encoder.
type Decoder interface {
	Decode(data []byte, value any) error
}

// EncryptValue encodes a value with enc and encrypts the resulting
// bytes with a password-derived key under the given format.
func EncryptValue(enc Encoder, value any, password string, format Format) (EncryptedItem, error) {
	if password == "" {
		return EncryptedItem{}, ErrNoPassword
	}
	data, err := enc.Encode(value)
	if err != nil {
		return EncryptedItem{}, err
	}
	return EncryptData(data, password, format)
}

// DecryptValue decrypts an item with a password and decodes the
// recovered bytes into value with dec.
func DecryptValue(dec Decoder, item EncryptedItem, password string, value any) error {
	data, err := DecryptData(item, password)
	if err != nil {
		return err
	}
	return dec.Decode(data, value)
}
