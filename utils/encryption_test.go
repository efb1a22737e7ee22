package utils

import (
	"errors"
	"testing"
)

func TestSecretBoxRoundTrip(t *testing.T) {
	box, err := NewSecretBox("a passphrase that is not base64!")
	if err != nil {
		t.Fatalf("NewSecretBox: %v", err)
	}

	sealed, err := box.Encrypt("smtp-password")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if sealed == "smtp-password" {
		t.Fatal("Encrypt returned plaintext")
	}

	opened, err := box.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if opened != "smtp-password" {
		t.Errorf("Decrypt = %q", opened)
	}
}

func TestSecretBoxRejectsForeignCiphertext(t *testing.T) {
	a, _ := NewSecretBox("key-a")
	b, _ := NewSecretBox("key-b")

	sealed, err := a.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := b.Decrypt(sealed); err == nil {
		t.Error("expected decrypt with a different key to fail")
	}
}

func TestNewSecretBoxRequiresKey(t *testing.T) {
	if _, err := NewSecretBox(""); !errors.Is(err, ErrNoEncryptionKey) {
		t.Errorf("expected ErrNoEncryptionKey, got %v", err)
	}
}
