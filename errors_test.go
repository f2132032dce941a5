package itemencryptor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestKeyMaterialError tests formatting and classification
func TestKeyMaterialError(t *testing.T) {
	err := &KeyMaterialError{Field: "seed", Expected: 32, Got: 7}

	if !strings.Contains(err.Error(), "seed") {
		t.Errorf("Error() = %q, should name the field", err.Error())
	}
	if !errors.Is(err, ErrImproperKeyMaterial) {
		t.Error("KeyMaterialError must wrap ErrImproperKeyMaterial")
	}
	if !IsKeyMaterialError(err) {
		t.Error("IsKeyMaterialError should match")
	}
	if !IsKeyMaterialError(fmt.Errorf("outer: %w", err)) {
		t.Error("IsKeyMaterialError should match wrapped errors")
	}
	if IsKeyMaterialError(errors.New("other")) {
		t.Error("IsKeyMaterialError should not match unrelated errors")
	}
}

// TestFormatError tests formatting and classification
func TestFormatError(t *testing.T) {
	err := &FormatError{Reason: "unrecognized version tag"}

	if !strings.Contains(err.Error(), "unrecognized version tag") {
		t.Errorf("Error() = %q, should carry the reason", err.Error())
	}
	if !errors.Is(err, ErrBadData) {
		t.Error("FormatError must wrap ErrBadData")
	}
	if !IsFormatError(err) {
		t.Error("IsFormatError should match")
	}
	if IsFormatError(&KeyMaterialError{Field: "iv"}) {
		t.Error("IsFormatError should not match key material errors")
	}
}

// TestErrorTaxonomy_Distinct tests that the sentinel classes never
// collapse into each other
func TestErrorTaxonomy_Distinct(t *testing.T) {
	sentinels := []error{
		ErrNoPassword,
		ErrBadData,
		ErrIncorrectVersion,
		ErrDecryptionFailed,
		ErrStreamingUnsupported,
		ErrImproperKeyMaterial,
		ErrKeyNotFound,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v must not match %v", a, b)
			}
		}
	}
}

// TestDecryptErrors_Opaque tests that the decrypt path never reveals
// which internal check failed
func TestDecryptErrors_Opaque(t *testing.T) {
	item, err := EncryptData([]byte("payload"), "pw", FormatV1)
	if err != nil {
		t.Fatalf("EncryptData failed: %v", err)
	}

	// Wrong password: padding check fails internally.
	_, padErr := DecryptData(item, "not-it")
	if padErr == nil {
		t.Fatal("wrong password should fail")
	}

	itemV2, err := EncryptData([]byte("payload"), "pw", FormatV2)
	if err != nil {
		t.Fatalf("EncryptData failed: %v", err)
	}

	// Wrong password: authentication tag fails internally.
	_, tagErr := DecryptData(itemV2, "not-it")
	if tagErr == nil {
		t.Fatal("wrong password should fail")
	}

	// Both collapse to the same outward error.
	if !errors.Is(padErr, ErrDecryptionFailed) || !errors.Is(tagErr, ErrDecryptionFailed) {
		t.Errorf("padding error %v and tag error %v must both be ErrDecryptionFailed", padErr, tagErr)
	}
	if padErr.Error() != tagErr.Error() {
		t.Error("failure messages must not distinguish padding from tag checks")
	}
}
