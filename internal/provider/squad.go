package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SquadClient mints bank virtual accounts and authenticates Squad's inbound
// payment webhooks.
type SquadClient struct {
	*client
	secretKey string
}

func NewSquadClient(baseURL, secretKey string, timeout time.Duration, logger *logrus.Logger) *SquadClient {
	return &SquadClient{
		client:    newClient(baseURL, timeout, logger),
		secretKey: secretKey,
	}
}

func (s *SquadClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + s.secretKey,
	}
}

type CreateVirtualAccountRequest struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	MiddleName         string `json:"middle_name,omitempty"`
	Mobile             string `json:"mobile_num"`
	Dob                string `json:"dob"`
	Email              string `json:"email"`
	Bvn                string `json:"bvn"`
	Gender             string `json:"gender"`
	Address            string `json:"address"`
	CustomerIdentifier string `json:"customer_identifier"`
}

type VirtualAccountData struct {
	AccountNumber string
	BankCode      string
	FirstName     string
	LastName      string
}

func (s *SquadClient) CreateVirtualAccount(ctx context.Context, req CreateVirtualAccountRequest) (*VirtualAccountData, error) {
	raw, err := s.postJSON(ctx, "/virtual-account", s.headers(), req)
	if err != nil {
		return nil, err
	}

	data, ok := raw["data"].(map[string]interface{})
	if !ok {
		s.logger.WithField("customer", req.CustomerIdentifier).Error("Squad response missing data object")
		return nil, fmt.Errorf("squad failed to return account details")
	}

	account := &VirtualAccountData{
		AccountNumber: stringField(data, "virtual_account_number"),
		BankCode:      stringField(data, "bank_code"),
		FirstName:     stringField(data, "first_name"),
		LastName:      stringField(data, "last_name"),
	}
	if account.AccountNumber == "" {
		return nil, fmt.Errorf("squad response missing account number")
	}
	if account.BankCode == "" {
		account.BankCode = "058"
	}

	return account, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 hex digest of the exact
// received body against the header-supplied signature.
func (s *SquadClient) VerifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
