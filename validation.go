package itemencryptor

// Input validation helpers shared by the key, engine, and facade layers.

// validateKey checks that every field of a key matches the lengths its
// scheme requires. Engines call this before any cipher work so a
// mismatched-parameter call can never reach the primitive.
func validateKey(key EncryptionKey) error {
	if _, err := NewScheme(key.Scheme.Format); err != nil {
		return err
	}
	if len(key.KeyData) != key.Scheme.DerivedKeyLength() {
		return &KeyMaterialError{Field: "key", Expected: key.Scheme.DerivedKeyLength(), Got: len(key.KeyData)}
	}
	if len(key.IV) != key.Scheme.InitializationVectorSize() {
		return &KeyMaterialError{Field: "iv", Expected: key.Scheme.InitializationVectorSize(), Got: len(key.IV)}
	}
	if len(key.Salt) != key.Scheme.StretchedSaltSize() {
		return &KeyMaterialError{Field: "salt", Expected: key.Scheme.StretchedSaltSize(), Got: len(key.Salt)}
	}
	return nil
}

// ValidateKey reports whether the key is structurally usable with its
// declared scheme. Exposed for callers that load keys from external
// stores and want to fail before attempting an operation.
func ValidateKey(key EncryptionKey) error {
	return validateKey(key)
}
