package registry

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zeptools/tablet-core/sec"
)

var testSigningKey = []byte("test-signing-key-32-bytes-long!!")

func testIssuer(t *testing.T, withCipher bool) *TokenIssuer {
	t.Helper()
	issuer := &TokenIssuer{
		Issuer:     "tablet-core-test",
		SigningKey: testSigningKey,
		ValidFor:   time.Hour,
	}
	if withCipher {
		cipher, err := sec.NewXChaCha20Poly1305CipherBase64([]byte("0123456789abcdef0123456789abcdef"))
		if err != nil {
			t.Fatalf("building cipher: %v", err)
		}
		issuer.Cipher = cipher
	}
	return issuer
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := testIssuer(t, false)

	payload, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	if !strings.HasPrefix(payload, "eyJ") {
		t.Fatalf("expected a jwt payload, got %q", payload)
	}

	jobID, err := issuer.Verify(payload)
	if err != nil {
		t.Fatalf("verifying token: %v", err)
	}
	if jobID != 42 {
		t.Fatalf("expected job 42, got %d", jobID)
	}
}

func TestTokenIssuer_OpaqueRoundTrip(t *testing.T) {
	issuer := testIssuer(t, true)

	payload, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	if strings.HasPrefix(payload, "eyJ") {
		t.Fatal("opaque payload must not look like a bare jwt")
	}

	jobID, err := issuer.Verify(payload)
	if err != nil {
		t.Fatalf("verifying token: %v", err)
	}
	if jobID != 7 {
		t.Fatalf("expected job 7, got %d", jobID)
	}
}

func TestTokenIssuer_RejectsTamperedToken(t *testing.T) {
	issuer := testIssuer(t, false)

	payload, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	if _, err := issuer.Verify(payload + "x"); err == nil {
		t.Fatal("a tampered token must not verify")
	}

	other := &TokenIssuer{
		Issuer:     issuer.Issuer,
		SigningKey: []byte("a-different-signing-key-entirely"),
		ValidFor:   time.Hour,
	}
	if _, err := other.Verify(payload); err == nil {
		t.Fatal("a token must not verify under another key")
	}
}

func TestTracker_ResolveScan(t *testing.T) {
	tracker := &Tracker{
		Service: NewService(NewMemStore(), &sync.Map{}),
		Tokens:  testIssuer(t, false),
	}

	payload := tracker.QRPayload(42)
	jobID, err := tracker.ResolveScan(payload)
	if err != nil {
		t.Fatalf("resolving scan: %v", err)
	}
	if jobID != 42 {
		t.Fatalf("expected job 42, got %d", jobID)
	}

	// bare numeric codes from pre-token pages still resolve
	jobID, err = tracker.ResolveScan("17")
	if err != nil {
		t.Fatalf("resolving numeric scan: %v", err)
	}
	if jobID != 17 {
		t.Fatalf("expected job 17, got %d", jobID)
	}
}

func TestTracker_NumericPayloadWithoutIssuer(t *testing.T) {
	tracker := &Tracker{Service: NewService(NewMemStore(), &sync.Map{})}

	if payload := tracker.QRPayload(42); payload != "42" {
		t.Fatalf("without an issuer the payload is the bare id, got %q", payload)
	}
	if _, err := tracker.ResolveScan("not-a-token"); err == nil {
		t.Fatal("garbage payloads must not resolve")
	}
}
