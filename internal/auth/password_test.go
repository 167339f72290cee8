package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := VerifyPassword(hash, "correct horse"); err != nil {
		t.Errorf("VerifyPassword(correct) error = %v", err)
	}
	if err := VerifyPassword(hash, "battery staple"); err == nil {
		t.Error("VerifyPassword(wrong) expected error")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword("   "); err == nil {
		t.Error("expected error for blank password")
	}
}

func TestVerifyPassword_EmptyHash(t *testing.T) {
	if err := VerifyPassword("", "x"); err == nil {
		t.Error("expected error for empty hash")
	}
}
