package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/repository"
	"go-bills-wallet/pkg/hashing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type WalletUsecase interface {
	GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*entity.Wallet, *response.CustomError)
	GetWallet(ctx context.Context, userID uuid.UUID) (*params.WalletResponse, *response.CustomError)
	GetBalance(ctx context.Context, userID uuid.UUID) (*params.BalanceResponse, *response.CustomError)
	SetPin(ctx context.Context, userID uuid.UUID, pin string) *response.CustomError
	ChangePin(ctx context.Context, userID uuid.UUID, currentPin, newPin string) *response.CustomError
	VerifyPin(ctx context.Context, userID uuid.UUID, pin string) *response.CustomError
	Credit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, reference, description string) (*entity.Transaction, *response.CustomError)
	GetTransactionHistory(ctx context.Context, userID uuid.UUID, limit, offset int) (*params.TransactionHistoryResponse, *response.CustomError)
	InvalidateHistoryCache(ctx context.Context, userID uuid.UUID)
}

type WalletUsecaseImpl struct {
	repo   repository.WalletRepository
	logger *logrus.Logger
	cache  *redis.Client
	hasher hashing.Hasher
}

func NewWalletUsecase(repo repository.WalletRepository, logger *logrus.Logger, cache *redis.Client, hasher hashing.Hasher) WalletUsecase {
	return &WalletUsecaseImpl{
		repo:   repo,
		logger: logger,
		cache:  cache,
		hasher: hasher,
	}
}

// GetOrCreateWallet lazily creates the wallet on first access. Two
// concurrent first accesses race on the user_id unique index; the loser
// fetches the wallet that won.
func (u *WalletUsecaseImpl) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*entity.Wallet, *response.CustomError) {
	wallet, err := u.repo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		u.logger.WithError(err).WithField("user_id", userID).Error("Failed to get wallet")
		return nil, response.RepositoryError("failed to get wallet")
	}

	wallet = &entity.Wallet{
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: "NGN",
		Version:  1,
	}

	if err := u.repo.CreateWallet(ctx, wallet); err != nil {
		if errors.Is(err, repository.ErrWalletExists) {
			existing, fetchErr := u.repo.GetByUserID(ctx, userID)
			if fetchErr != nil {
				u.logger.WithError(fetchErr).WithField("user_id", userID).Error("Failed to fetch wallet after create conflict")
				return nil, response.RepositoryError("failed to get wallet")
			}
			return existing, nil
		}
		u.logger.WithError(err).WithField("user_id", userID).Error("Failed to create wallet")
		return nil, response.RepositoryError("failed to create wallet")
	}

	u.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"wallet_id": wallet.ID,
	}).Info("Wallet created lazily on first access")

	return wallet, nil
}

func (u *WalletUsecaseImpl) GetWallet(ctx context.Context, userID uuid.UUID) (*params.WalletResponse, *response.CustomError) {
	wallet, custErr := u.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return nil, custErr
	}

	accounts, err := u.repo.GetVirtualAccountsByWalletID(ctx, wallet.ID)
	if err != nil {
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to get virtual accounts")
		return nil, response.RepositoryError("failed to get virtual accounts")
	}

	accountResponses := make([]*params.VirtualAccountResponse, len(accounts))
	for i, a := range accounts {
		accountResponses[i] = &params.VirtualAccountResponse{
			ID:            a.ID,
			BankName:      a.BankName,
			BankCode:      a.BankCode,
			AccountNumber: a.AccountNumber,
			AccountName:   a.AccountName,
			Provider:      a.Provider,
			CreatedAt:     a.CreatedAt,
		}
	}

	return &params.WalletResponse{
		ID:              wallet.ID,
		UserID:          wallet.UserID,
		Balance:         wallet.Balance,
		Currency:        wallet.Currency,
		PinSet:          wallet.Pin != nil,
		VirtualAccounts: accountResponses,
		CreatedAt:       wallet.CreatedAt,
		UpdatedAt:       wallet.UpdatedAt,
	}, nil
}

func (u *WalletUsecaseImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*params.BalanceResponse, *response.CustomError) {
	wallet, custErr := u.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return nil, custErr
	}

	return &params.BalanceResponse{
		UserID:    wallet.UserID,
		Balance:   wallet.Balance,
		Currency:  wallet.Currency,
		Timestamp: time.Now(),
	}, nil
}

func (u *WalletUsecaseImpl) SetPin(ctx context.Context, userID uuid.UUID, pin string) *response.CustomError {
	wallet, custErr := u.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return custErr
	}

	if wallet.Pin != nil {
		return response.BadRequestErrorWithCode(response.CodePinAlreadySet, "transaction PIN is already set, use change PIN instead")
	}

	hashed, err := u.hasher.Hash(pin)
	if err != nil {
		u.logger.WithError(err).Error("Failed to hash transaction PIN")
		return response.GeneralError("failed to set transaction PIN")
	}

	if err := u.repo.UpdatePin(ctx, wallet.ID, hashed); err != nil {
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to persist transaction PIN")
		return response.RepositoryError("failed to set transaction PIN")
	}

	u.logger.WithField("wallet_id", wallet.ID).Info("Transaction PIN set")
	return nil
}

func (u *WalletUsecaseImpl) ChangePin(ctx context.Context, userID uuid.UUID, currentPin, newPin string) *response.CustomError {
	wallet, custErr := u.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return custErr
	}

	if wallet.Pin == nil {
		return response.BadRequestErrorWithCode(response.CodePinNotSet, "transaction PIN is not set")
	}

	if !u.hasher.Verify(currentPin, *wallet.Pin) {
		u.logger.WithField("wallet_id", wallet.ID).Warn("PIN change attempt with invalid current PIN")
		return response.UnauthorizedErrorWithCode(response.CodeInvalidPin, "invalid current transaction PIN")
	}

	hashed, err := u.hasher.Hash(newPin)
	if err != nil {
		u.logger.WithError(err).Error("Failed to hash transaction PIN")
		return response.GeneralError("failed to change transaction PIN")
	}

	if err := u.repo.UpdatePin(ctx, wallet.ID, hashed); err != nil {
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to persist transaction PIN")
		return response.RepositoryError("failed to change transaction PIN")
	}

	u.logger.WithField("wallet_id", wallet.ID).Info("Transaction PIN changed")
	return nil
}

func (u *WalletUsecaseImpl) VerifyPin(ctx context.Context, userID uuid.UUID, pin string) *response.CustomError {
	wallet, custErr := u.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return custErr
	}

	if wallet.Pin == nil {
		return response.BadRequestErrorWithCode(response.CodePinNotSet, "please set a transaction PIN before performing this action")
	}

	if !u.hasher.Verify(pin, *wallet.Pin) {
		u.logger.WithField("wallet_id", wallet.ID).Warn("Invalid transaction PIN")
		return response.UnauthorizedErrorWithCode(response.CodeInvalidPin, "invalid transaction PIN")
	}

	return nil
}

// Credit applies an inbound deposit: balance update and SUCCESS transaction
// row committed in one database transaction. A duplicate reference aborts
// the whole unit, so redelivered webhooks can never credit twice.
func (u *WalletUsecaseImpl) Credit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, reference, description string) (*entity.Transaction, *response.CustomError) {
	if !amount.IsPositive() {
		return nil, response.BadRequestError("invalid deposit amount")
	}

	tx := u.repo.BeginTx(ctx)
	if tx.Error != nil {
		u.logger.WithError(tx.Error).Error("Failed to begin transaction")
		return nil, response.GeneralError("failed to begin transaction")
	}
	txRepo := u.repo.WithTx(tx)
	defer tx.Rollback()

	wallet, err := txRepo.GetByIDForUpdate(ctx, tx, walletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundError("wallet not found")
		}
		u.logger.WithError(err).WithField("wallet_id", walletID).Error("Failed to get wallet for update")
		return nil, response.RepositoryError("failed to get wallet for update")
	}

	balanceBefore := wallet.Balance
	balanceAfter := balanceBefore.Add(amount)

	transaction := &entity.Transaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Type:          entity.TransactionTypeDeposit,
		Amount:        amount,
		Status:        entity.TransactionStatusSuccess,
		Reference:     reference,
		Description:   description,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := txRepo.CreateTransaction(ctx, tx, transaction); err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return nil, response.BadRequestErrorWithCode(response.CodeDuplicateReference, "deposit already processed")
		}
		u.logger.WithError(err).WithField("reference", reference).Error("Failed to create deposit transaction")
		return nil, response.RepositoryError("failed to create transaction")
	}

	if err := txRepo.UpdateBalance(ctx, tx, wallet.ID, balanceAfter, wallet.Version+1); err != nil {
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to update wallet balance")
		return nil, response.RepositoryError("failed to update wallet balance")
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.WithError(err).Error("Failed to commit transaction")
		return nil, response.RepositoryError("failed to commit transaction")
	}

	u.InvalidateHistoryCache(ctx, wallet.UserID)

	u.logger.WithFields(logrus.Fields{
		"wallet_id":      wallet.ID,
		"transaction_id": transaction.ID,
		"reference":      reference,
		"amount":         amount.String(),
		"new_balance":    balanceAfter.String(),
	}).Info("Wallet credited")

	return transaction, nil
}

func (u *WalletUsecaseImpl) GetTransactionHistory(ctx context.Context, userID uuid.UUID, limit, offset int) (*params.TransactionHistoryResponse, *response.CustomError) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	page := (offset / limit) + 1
	cacheKey := fmt.Sprintf("transactions:%s:%d:%d", userID, page, limit)

	if u.cache != nil {
		if val, err := u.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached params.TransactionHistoryResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				u.logger.WithField("cache_key", cacheKey).Info("Cache hit for transaction history")
				return &cached, nil
			}
		}
	}

	wallet, custErr := u.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return nil, custErr
	}

	transactions, err := u.repo.GetTransactionsByWalletID(ctx, wallet.ID, limit, offset)
	if err != nil {
		u.logger.WithError(err).Error("Failed to get transaction history")
		return nil, response.RepositoryError("failed to get transaction history")
	}

	total, err := u.repo.CountTransactionsByWalletID(ctx, wallet.ID)
	if err != nil {
		u.logger.WithError(err).Error("Failed to get total transactions")
		return nil, response.RepositoryError("failed to get total transactions")
	}

	transactionResponses := make([]*params.TransactionResponse, len(transactions))
	for i, t := range transactions {
		transactionResponses[i] = &params.TransactionResponse{
			ID:            t.ID,
			Type:          t.Type,
			Amount:        t.Amount,
			Status:        t.Status,
			Reference:     t.Reference,
			Description:   &t.Description,
			BalanceBefore: t.BalanceBefore,
			BalanceAfter:  t.BalanceAfter,
			CreatedAt:     t.CreatedAt,
			UpdatedAt:     t.UpdatedAt,
		}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	resp := &params.TransactionHistoryResponse{
		Transactions: transactionResponses,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
	}

	if u.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := u.cache.Set(ctx, cacheKey, data, 5*time.Minute).Err(); err != nil {
				u.logger.WithError(err).Warn("Failed to cache transaction history")
			}
		}
	}

	return resp, nil
}

func (u *WalletUsecaseImpl) InvalidateHistoryCache(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}

	cachePattern := fmt.Sprintf("transactions:%s:*", userID.String())
	keys, err := u.cache.Keys(ctx, cachePattern).Result()
	if err != nil {
		u.logger.WithError(err).Warn("Failed to fetch transaction cache keys for invalidation")
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := u.cache.Del(ctx, keys...).Err(); err != nil {
		u.logger.WithError(err).Warn("Failed to invalidate transaction cache")
	}
}
