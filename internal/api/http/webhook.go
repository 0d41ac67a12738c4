package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
	"github.com/lakemont/admissions/internal/platform/timeouts"
)

const paymentSignatureHeader = "Payment-Signature"

// Webhook event types delivered by the payment processor.
const (
	webhookPaymentSettled = "payment.settled"
	webhookPaymentFailed  = "payment.failed"
)

// paymentWebhookPayload is the body of a processor notification.
type paymentWebhookPayload struct {
	Type          string `json:"type"`
	ApplicationID string `json:"application_id"`
	InvoiceID     string `json:"invoice_id"`
	Note          string `json:"note"`
	Reason        string `json:"reason"`
}

// verifyWebhookSignature checks the `t=<unix>,v1=<hex>` signature header: an
// HMAC-SHA256 of `<t>.<body>` under the shared secret, with the timestamp
// inside the replay tolerance window.
func verifyWebhookSignature(header string, rawBody []byte, secret string, receivedAt time.Time) error {
	timestamp, signatures := parseSignatureHeader(header)
	if timestamp == "" || len(signatures) == 0 {
		return apperrors.New(apperrors.CodeWebhookSignature, "webhook signature header is malformed")
	}
	timestampUnix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil || timestampUnix <= 0 {
		return apperrors.New(apperrors.CodeWebhookSignature, "webhook signature timestamp is invalid")
	}

	skew := receivedAt.UTC().Unix() - timestampUnix
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > timeouts.WebhookSkew {
		return apperrors.New(apperrors.CodeWebhookSignature, "webhook signature timestamp is outside the tolerance window")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	signedPayload := append([]byte(timestamp), '.')
	signedPayload = append(signedPayload, rawBody...)
	_, _ = mac.Write(signedPayload)
	expected := mac.Sum(nil)

	for _, sigHex := range signatures {
		decoded, err := hex.DecodeString(sigHex)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, decoded) {
			return nil
		}
	}
	return apperrors.New(apperrors.CodeWebhookSignature, "webhook signature does not match")
}

// parseSignatureHeader splits `t=<unix>,v1=<hex>[,v1=<hex>]` into its parts.
func parseSignatureHeader(header string) (string, []string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil
	}
	var timestamp string
	signatures := make([]string, 0, 2)
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if key == "t" && timestamp == "" {
			timestamp = value
			continue
		}
		if key == "v1" && value != "" {
			signatures = append(signatures, value)
		}
	}
	return timestamp, signatures
}
