package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/provider"
	"go-bills-wallet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PurchaseInput is one settlement attempt handed to the engine. Call is the
// vendor invocation, already shaped by the product operation; the engine
// only sees the normalized tri-state it returns.
type PurchaseInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Type        entity.TransactionType
	Description string
	Metadata    map[string]interface{}
	RequestID   string
	Call        provider.PurchaseCall
}

type BillUsecase interface {
	ProcessPurchase(ctx context.Context, input PurchaseInput) (*params.PurchaseResponse, *response.CustomError)
	PurchaseAirtime(ctx context.Context, userID uuid.UUID, req *params.AirtimeRequest) (*params.PurchaseResponse, *response.CustomError)
	PurchaseData(ctx context.Context, userID uuid.UUID, req *params.DataRequest) (*params.PurchaseResponse, *response.CustomError)
	PurchaseElectricity(ctx context.Context, userID uuid.UUID, req *params.ElectricityRequest) (*params.PurchaseResponse, *response.CustomError)
	PurchaseCableTv(ctx context.Context, userID uuid.UUID, req *params.CableTvRequest) (*params.PurchaseResponse, *response.CustomError)
	PurchaseExamPin(ctx context.Context, userID uuid.UUID, req *params.ExamPinRequest) (*params.PurchaseResponse, *response.CustomError)
	PurchaseRechargePin(ctx context.Context, userID uuid.UUID, req *params.RechargePinRequest) (*params.PurchaseResponse, *response.CustomError)
	PurchaseDataPin(ctx context.Context, userID uuid.UUID, req *params.DataPinRequest) (*params.PurchaseResponse, *response.CustomError)
	GetDataNetworks(ctx context.Context) (map[string]interface{}, *response.CustomError)
	GetDataPlans(ctx context.Context, networkID string) (map[string]interface{}, *response.CustomError)
	GetCableProviders(ctx context.Context) (map[string]interface{}, *response.CustomError)
	GetCablePlans(ctx context.Context, providerID string) (map[string]interface{}, *response.CustomError)
	GetElectricityPlans(ctx context.Context) (map[string]interface{}, *response.CustomError)
	VerifyCustomer(ctx context.Context, kind string, payload map[string]interface{}) (map[string]interface{}, *response.CustomError)
	GetTopupmateServices(ctx context.Context, service string) (map[string]interface{}, *response.CustomError)
}

type BillUsecaseImpl struct {
	repo        repository.WalletRepository
	walletUC    WalletUsecase
	peyflex     *provider.PeyflexClient
	topupmate   *provider.TopupmateClient
	logger      *logrus.Logger
	callTimeout time.Duration
}

func NewBillUsecase(repo repository.WalletRepository, walletUC WalletUsecase, peyflex *provider.PeyflexClient, topupmate *provider.TopupmateClient, logger *logrus.Logger, callTimeout time.Duration) BillUsecase {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &BillUsecaseImpl{
		repo:        repo,
		walletUC:    walletUC,
		peyflex:     peyflex,
		topupmate:   topupmate,
		logger:      logger,
		callTimeout: callTimeout,
	}
}

// ProcessPurchase settles one purchase attempt:
//
//	replay check -> balance check -> debit (committed) -> provider call ->
//	commit success / record processing / refund failure.
//
// The debit commits before the provider is called so a concurrent purchase
// cannot pass its balance check against funds already committed here, and so
// no database lock is held across the network call. Failure after the debit
// is compensated by a separate refund transaction.
func (u *BillUsecaseImpl) ProcessPurchase(ctx context.Context, input PurchaseInput) (*params.PurchaseResponse, *response.CustomError) {
	if !input.Amount.IsPositive() {
		return nil, response.BadRequestError("invalid amount")
	}

	// Client-supplied idempotency key: a known reference means this request
	// already ran, so replay the stored result without touching anything.
	if input.RequestID != "" {
		existing, err := u.repo.GetTransactionByReference(ctx, input.RequestID)
		if err == nil {
			return u.replayResponse(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			u.logger.WithError(err).WithField("reference", input.RequestID).Error("Idempotency lookup failed")
			return nil, response.RepositoryError("failed to check for existing transaction")
		}
	}

	wallet, custErr := u.walletUC.GetOrCreateWallet(ctx, input.UserID)
	if custErr != nil {
		return nil, custErr
	}

	// Fast fail before any side effect; re-checked under the row lock below.
	if wallet.Balance.LessThan(input.Amount) {
		u.logger.WithFields(logrus.Fields{
			"user_id":         input.UserID,
			"current_balance": wallet.Balance.String(),
			"amount":          input.Amount.String(),
		}).Warn("Insufficient balance for purchase")
		return nil, response.BadRequestErrorWithCode(response.CodeInsufficientFunds, "insufficient wallet balance")
	}

	reference := input.RequestID
	if reference == "" {
		reference = generateReference()
	}

	transaction, custErr := u.debit(ctx, input, reference)
	if custErr != nil {
		return nil, custErr
	}
	if transaction == nil {
		// Lost the insert race on the reference: another request with the
		// same key debited first. Replay its result.
		existing, err := u.repo.GetTransactionByReference(ctx, reference)
		if err != nil {
			u.logger.WithError(err).WithField("reference", reference).Error("Failed to load winning transaction after duplicate insert")
			return nil, response.RepositoryError("failed to check for existing transaction")
		}
		return u.replayResponse(existing), nil
	}

	u.walletUC.InvalidateHistoryCache(ctx, input.UserID)

	// The provider call happens outside any database transaction, bounded
	// by the configured timeout. The reference doubles as the vendor-side
	// idempotency token.
	callCtx, cancel := context.WithTimeout(ctx, u.callTimeout)
	defer cancel()

	result, callErr := input.Call(callCtx, reference)
	if callErr != nil {
		u.logger.WithError(callErr).WithField("reference", reference).Error("Provider call failed")
		return nil, u.refund(ctx, transaction, callErr.Error())
	}

	switch result.Outcome {
	case provider.OutcomeSuccess:
		return u.commitSuccess(ctx, transaction, result)
	case provider.OutcomeProcessing:
		return u.recordProcessing(ctx, transaction, result)
	default:
		u.logger.WithFields(logrus.Fields{
			"reference": reference,
			"message":   result.Message,
		}).Warn("Provider reported failure")
		return nil, u.refund(ctx, transaction, result.Message)
	}
}

// debit reserves the funds: one committed database transaction holding the
// wallet row lock across balance re-check, PENDING insert and balance
// update. Returns (nil, nil) when the reference insert lost a race.
func (u *BillUsecaseImpl) debit(ctx context.Context, input PurchaseInput, reference string) (*entity.Transaction, *response.CustomError) {
	tx := u.repo.BeginTx(ctx)
	if tx.Error != nil {
		u.logger.WithError(tx.Error).Error("Failed to begin transaction")
		return nil, response.GeneralError("failed to begin transaction")
	}
	txRepo := u.repo.WithTx(tx)
	defer tx.Rollback()

	wallet, err := txRepo.GetByUserIDForUpdate(ctx, tx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundError("wallet not found")
		}
		u.logger.WithError(err).WithField("user_id", input.UserID).Error("Failed to get wallet for update")
		return nil, response.RepositoryError("failed to get wallet for update")
	}

	if wallet.Balance.LessThan(input.Amount) {
		return nil, response.BadRequestErrorWithCode(response.CodeInsufficientFunds, "insufficient wallet balance")
	}

	balanceBefore := wallet.Balance
	balanceAfter := balanceBefore.Sub(input.Amount)

	metadata := make(map[string]interface{}, len(input.Metadata)+1)
	for k, v := range input.Metadata {
		metadata[k] = v
	}
	metadata["request_id"] = reference

	transaction := &entity.Transaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Type:          input.Type,
		Amount:        input.Amount,
		Status:        entity.TransactionStatusPending,
		Reference:     reference,
		Description:   input.Description,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Metadata:      mustJSON(metadata),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := txRepo.CreateTransaction(ctx, tx, transaction); err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return nil, nil
		}
		u.logger.WithError(err).WithField("reference", reference).Error("Failed to create transaction")
		return nil, response.RepositoryError("failed to create transaction")
	}

	if err := txRepo.UpdateBalance(ctx, tx, wallet.ID, balanceAfter, wallet.Version+1); err != nil {
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to debit wallet")
		return nil, response.RepositoryError("failed to update wallet balance")
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.WithError(err).Error("Failed to commit debit transaction")
		return nil, response.RepositoryError("failed to commit transaction")
	}

	u.logger.WithFields(logrus.Fields{
		"wallet_id":      wallet.ID,
		"transaction_id": transaction.ID,
		"reference":      reference,
		"amount":         input.Amount.String(),
		"balance_after":  balanceAfter.String(),
	}).Info("Wallet debited pending provider settlement")

	return transaction, nil
}

func (u *BillUsecaseImpl) commitSuccess(ctx context.Context, transaction *entity.Transaction, result *provider.PurchaseResult) (*params.PurchaseResponse, *response.CustomError) {
	final := *transaction
	final.Status = entity.TransactionStatusSuccess
	final.Metadata = mergeMetadata(transaction.Metadata, result.Raw)

	if err := u.repo.UpdateTransactionStatus(ctx, nil, transaction.ID, &final); err != nil {
		u.logger.WithError(err).WithField("reference", transaction.Reference).Error("Failed to mark transaction successful")
		return nil, response.RepositoryError("failed to finalize transaction")
	}

	u.logger.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"reference":      transaction.Reference,
	}).Info("Purchase settled successfully")

	return &params.PurchaseResponse{
		Status:    entity.TransactionStatusSuccess,
		Reference: transaction.Reference,
		Data:      result.Raw,
	}, nil
}

// recordProcessing keeps the debit and the PENDING status: the provider
// accepted the request but has not concluded it. The reconciliation sweep
// picks these up if they never resolve.
func (u *BillUsecaseImpl) recordProcessing(ctx context.Context, transaction *entity.Transaction, result *provider.PurchaseResult) (*params.PurchaseResponse, *response.CustomError) {
	metadata := mergeMetadata(transaction.Metadata, result.Raw)
	if err := u.repo.UpdateTransactionMetadata(ctx, nil, transaction.ID, metadata); err != nil {
		u.logger.WithError(err).WithField("reference", transaction.Reference).Error("Failed to record processing response")
	}

	u.logger.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"reference":      transaction.Reference,
	}).Info("Purchase accepted by provider, awaiting settlement")

	return &params.PurchaseResponse{
		Status:    entity.TransactionStatusPending,
		Reference: transaction.Reference,
		Data:      result.Raw,
	}, nil
}

// refund is the compensating action: a fresh database transaction restores
// the debited amount and finalizes the row as FAILED with the attempt-scoped
// snapshot balance_after = balance_before (net zero effect).
func (u *BillUsecaseImpl) refund(ctx context.Context, transaction *entity.Transaction, reason string) *response.CustomError {
	if reason == "" {
		reason = "provider error"
	}

	tx := u.repo.BeginTx(ctx)
	if tx.Error != nil {
		u.logger.WithError(tx.Error).WithField("reference", transaction.Reference).
			Error("Failed to begin refund transaction; debit left pending for reconciliation")
		return response.ProviderError(settlementFailureMessage(reason))
	}
	txRepo := u.repo.WithTx(tx)
	defer tx.Rollback()

	wallet, err := txRepo.GetByIDForUpdate(ctx, tx, transaction.WalletID)
	if err != nil {
		u.logger.WithError(err).WithField("reference", transaction.Reference).
			Error("Failed to lock wallet for refund; debit left pending for reconciliation")
		return response.ProviderError(settlementFailureMessage(reason))
	}

	refunded := wallet.Balance.Add(transaction.Amount)

	final := *transaction
	final.Status = entity.TransactionStatusFailed
	final.Description = fmt.Sprintf("%s (Failed: %s)", transaction.Description, reason)
	final.BalanceAfter = transaction.BalanceBefore

	if err := txRepo.UpdateTransactionStatus(ctx, tx, transaction.ID, &final); err != nil {
		if errors.Is(err, repository.ErrTransactionFinalized) {
			// A late concurrent path already finalized this attempt; do not
			// refund on top of it.
			u.logger.WithField("reference", transaction.Reference).
				Warn("Refund skipped: transaction already finalized")
			return response.ProviderError(settlementFailureMessage(reason))
		}
		u.logger.WithError(err).WithField("reference", transaction.Reference).
			Error("Failed to mark transaction failed; debit left pending for reconciliation")
		return response.ProviderError(settlementFailureMessage(reason))
	}

	if err := txRepo.UpdateBalance(ctx, tx, wallet.ID, refunded, wallet.Version+1); err != nil {
		u.logger.WithError(err).WithField("reference", transaction.Reference).
			Error("Failed to restore wallet balance; debit left pending for reconciliation")
		return response.ProviderError(settlementFailureMessage(reason))
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.WithError(err).WithField("reference", transaction.Reference).
			Error("Failed to commit refund; debit left pending for reconciliation")
		return response.ProviderError(settlementFailureMessage(reason))
	}

	u.walletUC.InvalidateHistoryCache(ctx, wallet.UserID)

	u.logger.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"reference":      transaction.Reference,
		"amount":         transaction.Amount.String(),
		"reason":         reason,
	}).Info("Purchase refunded after provider failure")

	return response.ProviderError(settlementFailureMessage(reason))
}

func (u *BillUsecaseImpl) replayResponse(transaction *entity.Transaction) *params.PurchaseResponse {
	var metadata interface{}
	if len(transaction.Metadata) > 0 {
		_ = json.Unmarshal(transaction.Metadata, &metadata)
	}

	u.logger.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"reference":      transaction.Reference,
		"status":         transaction.Status,
	}).Info("Idempotent replay of existing purchase")

	return &params.PurchaseResponse{
		Status:    transaction.Status,
		Reference: transaction.Reference,
		Data:      metadata,
		Duplicate: true,
	}
}

func settlementFailureMessage(reason string) string {
	return "transaction failed and was refunded: " + reason
}

func generateReference() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("REQ-%d-%s", time.Now().UnixMilli(), suffix)
}

func mustJSON(v map[string]interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

func mergeMetadata(existing datatypes.JSON, providerResponse map[string]interface{}) datatypes.JSON {
	merged := make(map[string]interface{})
	if len(existing) > 0 {
		_ = json.Unmarshal(existing, &merged)
	}
	merged["provider_response"] = providerResponse
	return mustJSON(merged)
}
