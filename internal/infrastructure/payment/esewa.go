package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
)

// EsewaGateway builds signed checkout forms for the eSewa payment gateway
// and verifies callback signatures. The signature is an HMAC-SHA256 over the
// amount, reference and status, base64 encoded, keyed with the merchant
// secret.
type EsewaGateway struct {
	merchantCode string
	secretKey    string
	checkoutURL  string
	returnURL    string
}

// Config captures the merchant settings for the gateway.
type Config struct {
	MerchantCode string
	SecretKey    string
	CheckoutURL  string
	ReturnURL    string
}

func NewEsewaGateway(cfg Config) *EsewaGateway {
	return &EsewaGateway{
		merchantCode: cfg.MerchantCode,
		secretKey:    cfg.SecretKey,
		checkoutURL:  cfg.CheckoutURL,
		returnURL:    cfg.ReturnURL,
	}
}

// CheckoutForm returns the gateway URL and the signed form fields the client
// posts to open the checkout page.
func (g *EsewaGateway) CheckoutForm(ref string, amount float64) (string, map[string]string) {
	amt := strconv.FormatFloat(amount, 'f', 2, 64)
	fields := map[string]string{
		"amount":             amt,
		"total_amount":       amt,
		"product_code":       g.merchantCode,
		"transaction_uuid":   ref,
		"success_url":        g.returnURL,
		"failure_url":        g.returnURL,
		"signed_field_names": "total_amount,transaction_uuid,product_code",
		"signature":          g.sign(amt, ref, g.merchantCode),
	}
	return g.checkoutURL, fields
}

// VerifySignature checks the callback signature against the echoed fields.
// Comparison is constant time.
func (g *EsewaGateway) VerifySignature(ref, amount, status, signature string) bool {
	expected := g.sign(amount, ref, status)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *EsewaGateway) sign(parts ...string) string {
	mac := hmac.New(sha256.New, []byte(g.secretKey))
	for i, p := range parts {
		if i > 0 {
			fmt.Fprint(mac, ",")
		}
		fmt.Fprint(mac, p)
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
