package auth

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"accepted", "s3cret-pass", false},
		{"minimum length", "exactly8", false},
		{"too short", "seven77", true},
		{"blank padding only", "        ", true},
		{"beyond bcrypt limit", strings.Repeat("a", 73), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidatePassword(c.password)
			if c.wantErr && err == nil {
				t.Errorf("ValidatePassword(%q) should fail", c.password)
			}
			if !c.wantErr && err != nil {
				t.Errorf("ValidatePassword(%q) failed: %v", c.password, err)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain text")
	}
	if !CheckPassword("s3cret-pass", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Error("wrong password should not verify")
	}
}
