package password

import (
	"strings"
	"testing"
)

func testArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewArgon2(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("pw1", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestArgon2VerifyWrongPassword(t *testing.T) {
	hasher, err := NewArgon2(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestArgon2ZeroValueVerifies(t *testing.T) {
	hasher, err := NewArgon2(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	hash, err := hasher.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	var zero Argon2
	ok, err := zero.Verify("pw1", hash)
	if err != nil || !ok {
		t.Fatalf("zero-value Verify: ok=%v err=%v", ok, err)
	}
	if _, err := zero.Hash("pw1"); err == nil {
		t.Fatal("expected zero-value Hash to fail config validation")
	}
}

func TestArgon2VerifyMalformedHash(t *testing.T) {
	var hasher Argon2

	cases := []string{
		"not-a-phc-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := hasher.Verify("password", encoded); err == nil {
			t.Fatalf("expected malformed hash %q to fail", encoded)
		}
	}
}

func TestArgon2VerifyWrongVersion(t *testing.T) {
	hasher, err := NewArgon2(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("version-test")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	wrongVersion := strings.Replace(hash, "$v=19$", "$v=18$", 1)
	if _, err := hasher.Verify("version-test", wrongVersion); err == nil {
		t.Fatal("expected unsupported version verification to fail")
	}
}

func TestArgon2HashEmptyPassword(t *testing.T) {
	hasher, err := NewArgon2(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	if _, err := hasher.Hash(""); err == nil {
		t.Fatal("expected empty password hash to fail")
	}
}

func TestNewArgon2RejectsWeakConfig(t *testing.T) {
	cfg := testArgon2Config()
	cfg.Memory = 1024
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected low memory config to be rejected")
	}

	cfg = testArgon2Config()
	cfg.SaltLength = 8
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected short salt config to be rejected")
	}
}
