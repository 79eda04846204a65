// File: internal/infra/security/webhook_signature.go
package security

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// WebhookVerifier validates gateway webhook signatures. Paystack signs the
// raw request body with HMAC-SHA512 of the account secret key and sends the
// hex digest in the x-paystack-signature header.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret must not be empty")
	}
	return &WebhookVerifier{secret: []byte(secret)}, nil
}

// Sign returns the hex HMAC-SHA512 digest of body.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body. Comparison is constant-time.
func (v *WebhookVerifier) Verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := v.Sign(body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
