package itemencryptor

import "errors"

// Key rotation: re-encrypting existing items under new credentials or a
// newer format without exposing plaintext to the caller.

// Reencrypt decrypts an item with oldPassword and re-encrypts the
// plaintext with newPassword under newFormat. Use it to migrate legacy
// items forward, or to change an item's password in place.
func Reencrypt(item EncryptedItem, oldPassword, newPassword string, newFormat Format) (EncryptedItem, error) {
	plaintext, err := DecryptData(item, oldPassword)
	if err != nil {
		return EncryptedItem{}, err
	}
	return EncryptData(plaintext, newPassword, newFormat)
}

// ReencryptWithKeys is Reencrypt for caller-supplied keys. The old
// key's version must match the item's; the new item takes the new key's
// version.
func ReencryptWithKeys(item EncryptedItem, oldKey, newKey EncryptionKey) (EncryptedItem, error) {
	plaintext, err := DecryptDataWithKey(item, oldKey)
	if err != nil {
		return EncryptedItem{}, err
	}
	return EncryptDataWithKey(plaintext, newKey)
}

// DecryptDataAny tries each password in order and returns the first
// successful plaintext. Useful mid-rotation, when items encrypted under
// the old and new passwords coexist. Deterministic failures other than
// a wrong password abort immediately.
func DecryptDataAny(item EncryptedItem, passwords []string) ([]byte, error) {
	if len(passwords) == 0 {
		return nil, ErrNoPassword
	}
	var lastErr error
	for _, password := range passwords {
		plaintext, err := DecryptData(item, password)
		if err == nil {
			return plaintext, nil
		}
		if !errors.Is(err, ErrDecryptionFailed) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
