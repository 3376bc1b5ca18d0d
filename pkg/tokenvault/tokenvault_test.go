package tokenvault

import (
	"errors"
	"testing"

	"github.com/nikhilm23/moodlens/internal/apperrors"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	v, err := New(testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plaintexts := []string{
		"ya29.a0AfH6SMB-access-token",
		"",
		"refresh-token-with-unicode-😀",
	}

	for _, pt := range plaintexts {
		ct, err := v.Encrypt(pt)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", pt, err)
		}
		if ct == pt && pt != "" {
			t.Errorf("ciphertext equals plaintext for %q", pt)
		}
		got, err := v.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if got != pt {
			t.Errorf("roundtrip = %q, want %q", got, pt)
		}
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	v, _ := New(testKey)
	a, _ := v.Encrypt("same token")
	b, _ := v.Encrypt("same token")
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestDecryptWithRotatedKey(t *testing.T) {
	v1, _ := New(testKey)
	v2, _ := New("fedcba9876543210fedcba9876543210")

	ct, err := v1.Encrypt("secret-token")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	_, err = v2.Decrypt(ct)
	if !errors.Is(err, apperrors.ErrDecryption) {
		t.Errorf("Decrypt under rotated key = %v, want ErrDecryption", err)
	}
}

func TestDecryptMalformed(t *testing.T) {
	v, _ := New(testKey)

	for _, in := range []string{"not base64 !!!", "", "c2hvcnQ="} {
		if _, err := v.Decrypt(in); !errors.Is(err, apperrors.ErrDecryption) {
			t.Errorf("Decrypt(%q) = %v, want ErrDecryption", in, err)
		}
	}
}

func TestNewRejectsBadKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Error("New accepted a short key")
	}
}
