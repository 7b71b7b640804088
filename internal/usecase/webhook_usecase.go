package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var kobosPerNaira = decimal.NewFromInt(100)

type WebhookUsecase interface {
	HandleSquadEvent(ctx context.Context, payload *params.SquadWebhookPayload) error
}

type WebhookUsecaseImpl struct {
	repo     repository.WalletRepository
	walletUC WalletUsecase
	logger   *logrus.Logger
}

func NewWebhookUsecase(repo repository.WalletRepository, walletUC WalletUsecase, logger *logrus.Logger) WebhookUsecase {
	return &WebhookUsecaseImpl{
		repo:     repo,
		walletUC: walletUC,
		logger:   logger,
	}
}

// HandleSquadEvent credits the wallet for a charge_successful notification.
// Signature verification already happened at the HTTP edge over the raw
// body. Every path except an internal failure is a clean acknowledgement:
// unknown events, unknown customers and redelivered references are no-ops.
func (u *WebhookUsecaseImpl) HandleSquadEvent(ctx context.Context, payload *params.SquadWebhookPayload) error {
	if payload.Event != "charge_successful" {
		u.logger.WithField("event", payload.Event).Info("Ignoring unhandled webhook event")
		return nil
	}

	body := payload.Body
	if body.MerchantCustomerID == "" || body.TransactionRef == "" {
		u.logger.Warn("Webhook payload missing customer identifier or transaction reference")
		return nil
	}

	userID, err := uuid.Parse(body.MerchantCustomerID)
	if err != nil {
		u.logger.WithField("customer", body.MerchantCustomerID).Warn("Webhook customer identifier is not a valid user id")
		return nil
	}

	wallet, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u.logger.WithField("user_id", userID).Warn("Webhook for unknown wallet ignored")
			return nil
		}
		return fmt.Errorf("failed to resolve wallet for webhook: %w", err)
	}

	// Dedup on the external reference before attempting the credit.
	if _, err := u.repo.GetTransactionByReference(ctx, body.TransactionRef); err == nil {
		u.logger.WithField("reference", body.TransactionRef).Info("Webhook transaction already processed")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check webhook reference: %w", err)
	}

	// Squad delivers the amount in kobo.
	amount := decimal.NewFromInt(body.Amount).Div(kobosPerNaira)
	description := fmt.Sprintf("Wallet funding via Squad (%s)", bankCodeOrTransfer(body.BankCode))

	if _, custErr := u.walletUC.Credit(ctx, wallet.ID, amount, body.TransactionRef, description); custErr != nil {
		// A concurrent delivery may have won between dedup check and
		// credit; its unique reference makes that a no-op.
		if custErr.Code == response.CodeDuplicateReference {
			u.logger.WithField("reference", body.TransactionRef).Info("Webhook transaction credited by concurrent delivery")
			return nil
		}
		return fmt.Errorf("failed to credit wallet for webhook %s: %s", body.TransactionRef, custErr.Message)
	}

	u.logger.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"reference": body.TransactionRef,
		"amount":    amount.String(),
	}).Info("Wallet credited from webhook")

	return nil
}

func bankCodeOrTransfer(bankCode string) string {
	if bankCode == "" {
		return "Transfer"
	}
	return bankCode
}
