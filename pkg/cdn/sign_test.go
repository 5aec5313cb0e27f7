package cdn

import (
	"testing"
	"time"
)

func TestSignParamsIsOrderIndependent(t *testing.T) {
	a := signParams(map[string]string{"timestamp": "100", "folder": "temankemah"}, "s")
	b := signParams(map[string]string{"folder": "temankemah", "timestamp": "100"}, "s")
	if a != b {
		t.Fatalf("signatures differ: %s vs %s", a, b)
	}
	if len(a) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(a))
	}
}

func TestSignUploadIncludesClientFields(t *testing.T) {
	client, err := New(testCDNConfig())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	sig := client.SignUpload(at)

	if sig.Timestamp != at.Unix() {
		t.Fatalf("expected timestamp %d, got %d", at.Unix(), sig.Timestamp)
	}
	if sig.APIKey != "key123" || sig.CloudName != "temankemah-test" || sig.Folder != "temankemah" {
		t.Fatalf("unexpected signature payload: %+v", sig)
	}
	if sig.Signature == "" {
		t.Fatal("expected non-empty signature")
	}
}
