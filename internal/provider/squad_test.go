package provider

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := NewSquadClient("https://example.invalid", "whsec", time.Second, logger)
	body := []byte(`{"Event":"charge_successful","Body":{"amount":150000}}`)

	assert.True(t, client.VerifyWebhookSignature(body, signBody("whsec", body)))
	assert.True(t, client.VerifyWebhookSignature(body, strings.ToUpper(signBody("whsec", body))))

	assert.False(t, client.VerifyWebhookSignature(body, signBody("other-secret", body)))
	assert.False(t, client.VerifyWebhookSignature(body, ""))
	assert.False(t, client.VerifyWebhookSignature(append(body, ' '), signBody("whsec", body)))
}
