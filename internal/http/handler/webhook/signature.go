package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// Header names providers use for the HMAC signature, in lookup order.
var (
	whatsappSignatureHeaders  = []string{"X-Hub-Signature-256", "X-WhatsApp-Signature-256", "X-Webhook-Signature"}
	telephonySignatureHeaders = []string{"X-Telephony-Signature", "X-Provider-Signature", "X-Webhook-Signature"}
)

// verifySignature checks the body's HMAC-SHA256 against the shared secret.
// An empty secret disables verification (local development). A "sha256="
// prefix on the provided value is accepted and stripped.
func verifySignature(headers http.Header, body []byte, secret string, headerNames []string) bool {
	if secret == "" {
		return true
	}

	var provided string
	for _, name := range headerNames {
		if value := strings.TrimSpace(headers.Get(name)); value != "" {
			provided = value
			break
		}
	}
	if provided == "" {
		return false
	}
	provided = strings.TrimPrefix(provided, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(provided))
}
