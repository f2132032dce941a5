package itemencryptor

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/absfs/memfs"
)

// TestIntegration_KeyStoreWorkflow tests the complete workflow: derive a
// key, persist it, encrypt with it, then later fetch the key back and
// decrypt. This is the shape of a keychain-backed caller.
func TestIntegration_KeyStoreWorkflow(t *testing.T) {
	base, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("failed to create base filesystem: %v", err)
	}
	store, err := NewFileKeyStore(base, "/var/keys")
	if err != nil {
		t.Fatalf("NewFileKeyStore failed: %v", err)
	}

	key := deriveTestKey(t, "primary password", []string{"user@example.com"}, FormatV2)
	if err := store.Put("primary", key); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	payload := []byte("document body")
	item, err := EncryptDataWithKey(payload, key)
	if err != nil {
		t.Fatalf("EncryptDataWithKey failed: %v", err)
	}
	raw := item.Bytes()
	key.Zero()

	// A later session: only the raw container and the stored key exist.
	fetched, err := store.Get("primary")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	parsed, err := ParseEncryptedItem(raw)
	if err != nil {
		t.Fatalf("ParseEncryptedItem failed: %v", err)
	}
	got, err := DecryptDataWithKey(parsed, fetched)
	if err != nil {
		t.Fatalf("DecryptDataWithKey failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("plaintext mismatch across sessions")
	}
}

// TestIntegration_PasswordOnlyRecovery tests that the container alone
// plus the password recovers data with no stored key at all
func TestIntegration_PasswordOnlyRecovery(t *testing.T) {
	for _, format := range []Format{FormatV1, FormatV2} {
		t.Run(format.String(), func(t *testing.T) {
			payload := []byte("nothing stored but these bytes")
			item, err := EncryptData(payload, "the only secret", format)
			if err != nil {
				t.Fatalf("EncryptData failed: %v", err)
			}

			got, err := DecryptRaw(item.Bytes(), "the only secret")
			if err != nil {
				t.Fatalf("DecryptRaw failed: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Error("plaintext mismatch")
			}
		})
	}
}

// TestIntegration_MixedVersionArchive tests decrypting a mixed archive
// of legacy and current items with one password
func TestIntegration_MixedVersionArchive(t *testing.T) {
	archive := make(map[string][]byte)
	want := map[string][]byte{
		"old-note": []byte("written years ago"),
		"new-note": []byte("written today"),
	}

	legacy, err := EncryptData(want["old-note"], "shared pw", FormatV1)
	if err != nil {
		t.Fatalf("EncryptData failed: %v", err)
	}
	current, err := EncryptData(want["new-note"], "shared pw", FormatV2)
	if err != nil {
		t.Fatalf("EncryptData failed: %v", err)
	}
	archive["old-note"] = legacy.Bytes()
	archive["new-note"] = current.Bytes()

	for name, raw := range archive {
		got, err := DecryptRaw(raw, "shared pw")
		if err != nil {
			t.Fatalf("%s: DecryptRaw failed: %v", name, err)
		}
		if !bytes.Equal(got, want[name]) {
			t.Errorf("%s: plaintext mismatch", name)
		}

		// The version tag is sniffable without decrypting.
		if _, ok := FormatFromTag(raw); !ok {
			t.Errorf("%s: tag should be recognizable", name)
		}
	}
}

// TestIntegration_ConcurrentUse tests that independent encrypt/decrypt
// calls are safe from multiple goroutines
func TestIntegration_ConcurrentUse(t *testing.T) {
	key := deriveTestKey(t, "shared", nil, FormatV2)
	payload := []byte("same key, many goroutines")

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := EncryptDataWithKey(payload, key)
			if err != nil {
				errs <- err
				return
			}
			got, err := DecryptDataWithKey(item, key)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, payload) {
				errs <- errors.New("plaintext mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
