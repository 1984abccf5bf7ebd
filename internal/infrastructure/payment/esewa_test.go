package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func testGateway() *EsewaGateway {
	return NewEsewaGateway(Config{
		MerchantCode: "EPAYTEST",
		SecretKey:    "8gBm/:&EnhH.1/q",
		CheckoutURL:  "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
		ReturnURL:    "https://localhost:8080/payments/verify",
	})
}

func expectedSignature(secret string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	for i, p := range parts {
		if i > 0 {
			mac.Write([]byte(","))
		}
		mac.Write([]byte(p))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestCheckoutForm(t *testing.T) {
	g := testGateway()

	url, fields := g.CheckoutForm("GF-123", 12000)
	if url != "https://rc-epay.esewa.com.np/api/epay/main/v2/form" {
		t.Fatalf("unexpected checkout url: %s", url)
	}
	if fields["total_amount"] != "12000.00" {
		t.Fatalf("unexpected total_amount: %s", fields["total_amount"])
	}
	if fields["transaction_uuid"] != "GF-123" {
		t.Fatalf("unexpected transaction_uuid: %s", fields["transaction_uuid"])
	}
	if fields["product_code"] != "EPAYTEST" {
		t.Fatalf("unexpected product_code: %s", fields["product_code"])
	}

	want := expectedSignature("8gBm/:&EnhH.1/q", "12000.00", "GF-123", "EPAYTEST")
	if fields["signature"] != want {
		t.Fatalf("signature mismatch:\n got %s\nwant %s", fields["signature"], want)
	}
}

func TestVerifySignature(t *testing.T) {
	g := testGateway()

	sig := expectedSignature("8gBm/:&EnhH.1/q", "12000.00", "GF-123", "COMPLETE")
	if !g.VerifySignature("GF-123", "12000.00", "COMPLETE", sig) {
		t.Fatalf("expected valid signature to verify")
	}
	if g.VerifySignature("GF-123", "12000.00", "COMPLETE", "forged") {
		t.Fatalf("expected forged signature to fail")
	}
	// Any tampered field invalidates the signature.
	if g.VerifySignature("GF-123", "1.00", "COMPLETE", sig) {
		t.Fatalf("expected tampered amount to fail")
	}
	if g.VerifySignature("GF-999", "12000.00", "COMPLETE", sig) {
		t.Fatalf("expected tampered ref to fail")
	}
}
