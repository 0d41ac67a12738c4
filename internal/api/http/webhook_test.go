package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

func signBody(secret string, body []byte, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(body)
	return "t=" + timestamp + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"type":"payment.settled"}`)
	receivedAt := testBaseTime

	header := signBody(testWebhookSecret, body, receivedAt)
	if err := verifyWebhookSignature(header, body, testWebhookSecret, receivedAt); err != nil {
		t.Fatalf("verifyWebhookSignature() error = %v", err)
	}

	// Within the tolerance window on either side.
	early := signBody(testWebhookSecret, body, receivedAt.Add(-4*time.Minute))
	if err := verifyWebhookSignature(early, body, testWebhookSecret, receivedAt); err != nil {
		t.Fatalf("early signature error = %v", err)
	}
}

func TestVerifyWebhookSignatureRejections(t *testing.T) {
	body := []byte(`{"type":"payment.settled"}`)
	receivedAt := testBaseTime

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"missing timestamp", "v1=deadbeef"},
		{"missing signature", "t=" + strconv.FormatInt(receivedAt.Unix(), 10)},
		{"garbage timestamp", "t=soon,v1=deadbeef"},
		{"stale timestamp", signBody(testWebhookSecret, body, receivedAt.Add(-10*time.Minute))},
		{"wrong secret", signBody("whsec_other", body, receivedAt)},
		{"tampered body", signBody(testWebhookSecret, []byte(`{"type":"payment.failed"}`), receivedAt)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := verifyWebhookSignature(tc.header, body, testWebhookSecret, receivedAt)
			assertCode(t, err, apperrors.CodeWebhookSignature)
		})
	}
}

func TestParseSignatureHeader(t *testing.T) {
	timestamp, signatures := parseSignatureHeader("t=100, v1=aa, v1=bb, v2=cc")
	if timestamp != "100" {
		t.Fatalf("timestamp = %q, want 100", timestamp)
	}
	if len(signatures) != 2 || signatures[0] != "aa" || signatures[1] != "bb" {
		t.Fatalf("signatures = %v, want [aa bb]", signatures)
	}

	timestamp, signatures = parseSignatureHeader("")
	if timestamp != "" || signatures != nil {
		t.Fatalf("empty header = %q %v, want empty", timestamp, signatures)
	}
}
