package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-bills-wallet/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateReference signals that a transaction with the same
	// idempotency reference already exists. Callers treat it as a replay,
	// not a failure.
	ErrDuplicateReference = errors.New("transaction reference already exists")

	// ErrDuplicateAccountNumber signals a concurrent provisioning attempt
	// already persisted this virtual account.
	ErrDuplicateAccountNumber = errors.New("virtual account number already exists")

	// ErrWalletExists signals a concurrent first access already created the
	// user's wallet.
	ErrWalletExists = errors.New("wallet already exists for user")

	// ErrTransactionFinalized signals an attempt to transition a transaction
	// that already reached a terminal state. Financial history is never
	// overwritten.
	ErrTransactionFinalized = errors.New("transaction already in a terminal state")

	// ErrStaleWallet signals the optimistic version check failed.
	ErrStaleWallet = errors.New("wallet was modified by another transaction")
)

type WalletRepository interface {
	CreateWallet(ctx context.Context, wallet *entity.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*entity.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, walletID uuid.UUID) (*entity.Wallet, error)
	UpdateBalance(ctx context.Context, tx *gorm.DB, walletID uuid.UUID, newBalance decimal.Decimal, version int) error
	UpdatePin(ctx context.Context, walletID uuid.UUID, pinHash string) error
	CreateTransaction(ctx context.Context, tx *gorm.DB, transaction *entity.Transaction) error
	UpdateTransactionStatus(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, transaction *entity.Transaction) error
	UpdateTransactionMetadata(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, metadata datatypes.JSON) error
	GetTransactionByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	GetTransactionsByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entity.Transaction, error)
	CountTransactionsByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error)
	ListStalePendingTransactions(ctx context.Context, txType entity.TransactionType, olderThan time.Time, limit int) ([]*entity.Transaction, error)
	CreateVirtualAccount(ctx context.Context, account *entity.VirtualAccount) error
	GetVirtualAccountsByWalletID(ctx context.Context, walletID uuid.UUID) ([]*entity.VirtualAccount, error)
	GetVirtualAccountByNumber(ctx context.Context, accountNumber string) (*entity.VirtualAccount, error)
	BeginTx(ctx context.Context) *gorm.DB
	WithTx(tx *gorm.DB) WalletRepository
}

type WalletRepositoryImpl struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewWalletRepository(db *gorm.DB, logger *logrus.Logger) WalletRepository {
	return &WalletRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *WalletRepositoryImpl) CreateWallet(ctx context.Context, wallet *entity.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrWalletExists
		}
		r.logger.WithError(err).WithField("user_id", wallet.UserID).Error("Failed to create wallet in database")
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *WalletRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	var wallet entity.Wallet

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		r.logger.WithError(err).WithField("user_id", userID).Error("Failed to get wallet by user ID")
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

func (r *WalletRepositoryImpl) GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var wallet entity.Wallet
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		r.logger.WithError(err).WithField("user_id", userID).Error("Failed to get wallet by user ID for update")
		return nil, fmt.Errorf("failed to get wallet for update: %w", err)
	}

	return &wallet, nil
}

func (r *WalletRepositoryImpl) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, walletID uuid.UUID) (*entity.Wallet, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var wallet entity.Wallet
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", walletID).
		First(&wallet).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		r.logger.WithError(err).WithField("wallet_id", walletID).Error("Failed to get wallet by ID for update")
		return nil, fmt.Errorf("failed to get wallet for update: %w", err)
	}

	return &wallet, nil
}

func (r *WalletRepositoryImpl) UpdateBalance(ctx context.Context, tx *gorm.DB, walletID uuid.UUID, newBalance decimal.Decimal, version int) error {
	db := r.db
	if tx != nil {
		db = tx
	}

	// Optimistic version check on top of the row lock.
	result := db.WithContext(ctx).
		Model(&entity.Wallet{}).
		Where("id = ? AND version = ?", walletID, version-1).
		Updates(map[string]interface{}{
			"balance": newBalance,
			"version": version,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("wallet_id", walletID).Error("Failed to update wallet balance")
		return fmt.Errorf("failed to update wallet balance: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrStaleWallet
	}

	return nil
}

func (r *WalletRepositoryImpl) UpdatePin(ctx context.Context, walletID uuid.UUID, pinHash string) error {
	if err := r.db.WithContext(ctx).
		Model(&entity.Wallet{}).
		Where("id = ?", walletID).
		Update("pin", pinHash).Error; err != nil {
		r.logger.WithError(err).WithField("wallet_id", walletID).Error("Failed to update wallet pin")
		return fmt.Errorf("failed to update wallet pin: %w", err)
	}
	return nil
}

func (r *WalletRepositoryImpl) CreateTransaction(ctx context.Context, tx *gorm.DB, transaction *entity.Transaction) error {
	db := r.db
	if tx != nil {
		db = tx
	}

	if err := db.WithContext(ctx).Create(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		r.logger.WithError(err).WithField("reference", transaction.Reference).Error("Failed to create transaction in database")
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// UpdateTransactionStatus flips a PENDING transaction to its terminal state,
// carrying the final description, balance_after snapshot and metadata.
// Returns ErrTransactionFinalized if the row already left PENDING.
func (r *WalletRepositoryImpl) UpdateTransactionStatus(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, transaction *entity.Transaction) error {
	db := r.db
	if tx != nil {
		db = tx
	}

	result := db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("id = ? AND status = ?", transactionID, entity.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":        transaction.Status,
			"description":   transaction.Description,
			"balance_after": transaction.BalanceAfter,
			"metadata":      transaction.Metadata,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("transaction_id", transactionID).
			Error("Failed to update transaction status")
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.WithFields(logrus.Fields{
			"transaction_id": transactionID,
			"target_status":  transaction.Status,
		}).Error("Refused to overwrite a finalized transaction")
		return ErrTransactionFinalized
	}

	return nil
}

// UpdateTransactionMetadata records a provider response on a transaction
// that stays PENDING (the "processing" outcome).
func (r *WalletRepositoryImpl) UpdateTransactionMetadata(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, metadata datatypes.JSON) error {
	db := r.db
	if tx != nil {
		db = tx
	}

	if err := db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("id = ?", transactionID).
		Update("metadata", metadata).Error; err != nil {
		r.logger.WithError(err).WithField("transaction_id", transactionID).
			Error("Failed to update transaction metadata")
		return fmt.Errorf("failed to update transaction metadata: %w", err)
	}

	return nil
}

func (r *WalletRepositoryImpl) GetTransactionByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var transaction entity.Transaction

	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		r.logger.WithError(err).WithField("reference", reference).Error("Failed to get transaction by reference")
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &transaction, nil
}

func (r *WalletRepositoryImpl) GetTransactionsByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction

	// Secondary id ordering keeps pages stable under concurrent inserts.
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error

	if err != nil {
		r.logger.WithError(err).WithField("wallet_id", walletID).Error("Failed to get transactions")
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, nil
}

func (r *WalletRepositoryImpl) CountTransactionsByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("wallet_id = ?", walletID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *WalletRepositoryImpl) ListStalePendingTransactions(ctx context.Context, txType entity.TransactionType, olderThan time.Time, limit int) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction

	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ? AND created_at < ?", txType, entity.TransactionStatusPending, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&transactions).Error

	if err != nil {
		r.logger.WithError(err).Error("Failed to list stale pending transactions")
		return nil, fmt.Errorf("failed to list stale pending transactions: %w", err)
	}

	return transactions, nil
}

func (r *WalletRepositoryImpl) CreateVirtualAccount(ctx context.Context, account *entity.VirtualAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAccountNumber
		}
		r.logger.WithError(err).WithField("wallet_id", account.WalletID).Error("Failed to create virtual account in database")
		return fmt.Errorf("failed to create virtual account: %w", err)
	}
	return nil
}

func (r *WalletRepositoryImpl) GetVirtualAccountsByWalletID(ctx context.Context, walletID uuid.UUID) ([]*entity.VirtualAccount, error) {
	var accounts []*entity.VirtualAccount

	err := r.db.WithContext(ctx).Where("wallet_id = ?", walletID).Find(&accounts).Error
	if err != nil {
		r.logger.WithError(err).WithField("wallet_id", walletID).Error("Failed to get virtual accounts")
		return nil, fmt.Errorf("failed to get virtual accounts: %w", err)
	}

	return accounts, nil
}

func (r *WalletRepositoryImpl) GetVirtualAccountByNumber(ctx context.Context, accountNumber string) (*entity.VirtualAccount, error) {
	var account entity.VirtualAccount

	err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		r.logger.WithError(err).WithField("account_number", accountNumber).Error("Failed to get virtual account by number")
		return nil, fmt.Errorf("failed to get virtual account: %w", err)
	}

	return &account, nil
}

func (r *WalletRepositoryImpl) BeginTx(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Begin()
}

func (r *WalletRepositoryImpl) WithTx(tx *gorm.DB) WalletRepository {
	return &WalletRepositoryImpl{
		db:     tx,
		logger: r.logger,
	}
}
