package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two 32-byte random strings are identical")
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_Nil(t *testing.T) {
	WipeByteArray(nil) // must not panic
}

func TestIsAuthError(t *testing.T) {
	for _, err := range []error{
		ErrNotAuthenticated, ErrSessionExpired, ErrSessionRevoked,
		ErrSecretMissing, ErrUserInactive,
	} {
		if !IsAuthError(err) {
			t.Fatalf("expected %v to be an auth error", err)
		}
	}
	if IsAuthError(ErrStoreUnavailable) {
		t.Fatalf("store unavailability must not count as an auth error")
	}
	if IsAuthError(nil) {
		t.Fatalf("nil must not count as an auth error")
	}
}
