package itemencryptor

import (
	"bytes"
	"errors"
	"testing"
)

func validTestItem(t *testing.T, format Format) EncryptedItem {
	t.Helper()
	scheme, err := NewScheme(format)
	if err != nil {
		t.Fatalf("NewScheme failed: %v", err)
	}
	iv, _ := RandomBytes(scheme.InitializationVectorSize())
	salt, _ := RandomBytes(scheme.SaltFieldSize())
	ct, _ := RandomBytes(48)
	return EncryptedItem{Format: format, IV: iv, Ciphertext: ct, Salt: salt}
}

// TestEncryptedItem_RoundTrip tests parse(serialize(x)) == x
func TestEncryptedItem_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatV1, FormatV2} {
		t.Run(format.String(), func(t *testing.T) {
			item := validTestItem(t, format)

			parsed, err := ParseEncryptedItem(item.Bytes())
			if err != nil {
				t.Fatalf("ParseEncryptedItem failed: %v", err)
			}
			if !parsed.Equal(item) {
				t.Error("parsed item differs from original")
			}
			if parsed.Format != item.Format ||
				!bytes.Equal(parsed.IV, item.IV) ||
				!bytes.Equal(parsed.Ciphertext, item.Ciphertext) ||
				!bytes.Equal(parsed.Salt, item.Salt) {
				t.Error("parsed fields differ from original")
			}
		})
	}
}

// TestEncryptedItem_SerializeAfterParse tests serialize(parse(b)) == b
func TestEncryptedItem_SerializeAfterParse(t *testing.T) {
	for _, format := range []Format{FormatV1, FormatV2} {
		raw := validTestItem(t, format).Bytes()
		parsed, err := ParseEncryptedItem(raw)
		if err != nil {
			t.Fatalf("ParseEncryptedItem failed: %v", err)
		}
		if !bytes.Equal(parsed.Bytes(), raw) {
			t.Errorf("%v: re-serialized bytes differ", format)
		}
	}
}

// TestEncryptedItem_EmptyCiphertext tests the minimal valid container
func TestEncryptedItem_EmptyCiphertext(t *testing.T) {
	item := validTestItem(t, FormatV2)
	item.Ciphertext = nil

	parsed, err := ParseEncryptedItem(item.Bytes())
	if err != nil {
		t.Fatalf("ParseEncryptedItem failed: %v", err)
	}
	if len(parsed.Ciphertext) != 0 {
		t.Errorf("ciphertext should be empty, got %d bytes", len(parsed.Ciphertext))
	}
	if !parsed.Equal(item) {
		t.Error("parsed item differs from original")
	}
}

// TestParseEncryptedItem_Malformed tests rejection of bad buffers
func TestParseEncryptedItem_Malformed(t *testing.T) {
	v1 := FormatV1.Tag()

	tests := []struct {
		name string
		raw  []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"shorter than tag", v1[:2]},
		{"unknown tag", []byte{0xba, 0xdd, 0xa7, 0x00, 0x00, 0x00, 0x00}},
		{"valid tag, truncated body", append(v1[:], make([]byte, 10)...)},
		{"random garbage", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEncryptedItem(tt.raw)
			if err == nil {
				t.Fatal("ParseEncryptedItem should fail")
			}
			if !errors.Is(err, ErrBadData) {
				t.Errorf("error = %v, want ErrBadData class", err)
			}
			if !IsFormatError(err) {
				t.Errorf("error = %v, want *FormatError", err)
			}
		})
	}
}

// TestEncryptedItem_Equality tests byte-exact equality and hashing
func TestEncryptedItem_Equality(t *testing.T) {
	item := validTestItem(t, FormatV1)

	same, err := ParseEncryptedItem(item.Bytes())
	if err != nil {
		t.Fatalf("ParseEncryptedItem failed: %v", err)
	}
	if !item.Equal(same) {
		t.Error("items built from identical bytes must be equal")
	}
	if item.Sum() != same.Sum() {
		t.Error("equal items must hash identically")
	}

	other := validTestItem(t, FormatV1)
	if item.Equal(other) {
		t.Error("items with different random contents should not be equal")
	}
	if item.Sum() == other.Sum() {
		t.Error("different items should not hash identically")
	}
}
