package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/repository"
	"go-bills-wallet/internal/usecase"
	"go-bills-wallet/pkg/hashing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*repository.MockWalletRepository, *miniredis.Miniredis, *redis.Client, usecase.WalletUsecase, *gorm.DB) {
	mockRepo := new(repository.MockWalletRepository)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}

	wu := usecase.NewWalletUsecase(mockRepo, logger, rdb, hashing.NewBcryptHasher())

	return mockRepo, mr, rdb, wu, db
}

func hashPin(t *testing.T, pin string) *string {
	t.Helper()
	digest, err := hashing.NewBcryptHasher().Hash(pin)
	if err != nil {
		t.Fatalf("failed to hash pin: %v", err)
	}
	return &digest
}

func decimalEq(expected decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(expected)
	})
}

func TestGetOrCreateWallet_ReturnsExisting(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	mockWallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.NewFromInt(500), Currency: "NGN"}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)

	wallet, err := uc.GetOrCreateWallet(context.Background(), userID)

	assert.Nil(t, err)
	assert.Equal(t, mockWallet.ID, wallet.ID)
	mockRepo.AssertNotCalled(t, "CreateWallet")
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateWallet_CreatesOnFirstAccess(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("CreateWallet", mock.Anything, mock.AnythingOfType("*entity.Wallet")).Return(nil)

	wallet, err := uc.GetOrCreateWallet(context.Background(), userID)

	assert.Nil(t, err)
	assert.NotNil(t, wallet)
	assert.Equal(t, userID, wallet.UserID)
	assert.True(t, wallet.Balance.IsZero())
	assert.Equal(t, "NGN", wallet.Currency)
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateWallet_LosesCreateRace(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	winner := &entity.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.Zero, Currency: "NGN"}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("CreateWallet", mock.Anything, mock.AnythingOfType("*entity.Wallet")).Return(repository.ErrWalletExists)
	mockRepo.On("GetByUserID", mock.Anything, userID).Return(winner, nil).Once()

	wallet, err := uc.GetOrCreateWallet(context.Background(), userID)

	assert.Nil(t, err)
	assert.Equal(t, winner.ID, wallet.ID)
	mockRepo.AssertExpectations(t)
}

func TestSetPin_Success(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	walletID := uuid.New()
	mockWallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.Zero, Currency: "NGN"}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)
	mockRepo.On("UpdatePin", mock.Anything, walletID, mock.AnythingOfType("string")).Return(nil)

	err := uc.SetPin(context.Background(), userID, "1234")

	assert.Nil(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSetPin_AlreadySet(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	mockWallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Pin: hashPin(t, "1234")}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)

	err := uc.SetPin(context.Background(), userID, "5678")

	assert.NotNil(t, err)
	assert.Equal(t, response.CodePinAlreadySet, err.Code)
	mockRepo.AssertNotCalled(t, "UpdatePin")
	mockRepo.AssertExpectations(t)
}

func TestChangePin_Success(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	walletID := uuid.New()
	mockWallet := &entity.Wallet{ID: walletID, UserID: userID, Pin: hashPin(t, "1234")}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)
	mockRepo.On("UpdatePin", mock.Anything, walletID, mock.AnythingOfType("string")).Return(nil)

	err := uc.ChangePin(context.Background(), userID, "1234", "5678")

	assert.Nil(t, err)
	mockRepo.AssertExpectations(t)
}

func TestChangePin_NotSet(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	mockWallet := &entity.Wallet{ID: uuid.New(), UserID: userID}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)

	err := uc.ChangePin(context.Background(), userID, "1234", "5678")

	assert.NotNil(t, err)
	assert.Equal(t, response.CodePinNotSet, err.Code)
	mockRepo.AssertExpectations(t)
}

func TestChangePin_WrongCurrentPin(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	mockWallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Pin: hashPin(t, "1234")}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)

	err := uc.ChangePin(context.Background(), userID, "0000", "5678")

	assert.NotNil(t, err)
	assert.Equal(t, response.CodeInvalidPin, err.Code)
	mockRepo.AssertNotCalled(t, "UpdatePin")
	mockRepo.AssertExpectations(t)
}

func TestVerifyPin_NotSet(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	mockWallet := &entity.Wallet{ID: uuid.New(), UserID: userID}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)

	err := uc.VerifyPin(context.Background(), userID, "1234")

	assert.NotNil(t, err)
	assert.Equal(t, response.CodePinNotSet, err.Code)
	mockRepo.AssertExpectations(t)
}

func TestVerifyPin_Invalid(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()
	mockWallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Pin: hashPin(t, "1234")}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)

	err := uc.VerifyPin(context.Background(), userID, "9999")

	assert.NotNil(t, err)
	assert.Equal(t, response.CodeInvalidPin, err.Code)
	mockRepo.AssertExpectations(t)
}

func TestCredit_Success(t *testing.T) {
	mockRepo, _, _, uc, db := setupTest(t)

	userID := uuid.New()
	walletID := uuid.New()
	initialBalance := decimal.NewFromInt(1000)
	amount := decimal.NewFromInt(500)

	mockWallet := &entity.Wallet{
		ID:       walletID,
		UserID:   userID,
		Balance:  initialBalance,
		Currency: "NGN",
		Version:  1,
	}

	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByIDForUpdate", mock.Anything, realTx, walletID).Return(mockWallet, nil)

	var created *entity.Transaction
	mockRepo.On("CreateTransaction", mock.Anything, realTx, mock.AnythingOfType("*entity.Transaction")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*entity.Transaction)
		}).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, realTx, walletID, decimalEq(decimal.NewFromInt(1500)), 2).Return(nil)

	transaction, err := uc.Credit(context.Background(), walletID, amount, "SQ-REF-1", "Wallet funding via Squad (058)")

	assert.Nil(t, err)
	assert.NotNil(t, transaction)
	assert.Equal(t, entity.TransactionStatusSuccess, created.Status)
	assert.Equal(t, entity.TransactionTypeDeposit, created.Type)
	assert.True(t, created.BalanceBefore.Equal(initialBalance))
	assert.True(t, created.BalanceAfter.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "SQ-REF-1", created.Reference)
	mockRepo.AssertExpectations(t)
}

func TestCredit_DuplicateReference(t *testing.T) {
	mockRepo, _, _, uc, db := setupTest(t)

	walletID := uuid.New()
	mockWallet := &entity.Wallet{ID: walletID, Balance: decimal.NewFromInt(1000), Version: 1}

	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByIDForUpdate", mock.Anything, realTx, walletID).Return(mockWallet, nil)
	mockRepo.On("CreateTransaction", mock.Anything, realTx, mock.AnythingOfType("*entity.Transaction")).
		Return(repository.ErrDuplicateReference)

	transaction, err := uc.Credit(context.Background(), walletID, decimal.NewFromInt(500), "SQ-REF-1", "deposit")

	assert.Nil(t, transaction)
	assert.NotNil(t, err)
	assert.Equal(t, response.CodeDuplicateReference, err.Code)
	mockRepo.AssertNotCalled(t, "UpdateBalance")
	mockRepo.AssertExpectations(t)
}

func TestCredit_InvalidAmount(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	transaction, err := uc.Credit(context.Background(), uuid.New(), decimal.Zero, "SQ-REF-1", "deposit")

	assert.Nil(t, transaction)
	assert.NotNil(t, err)
	assert.Equal(t, "invalid deposit amount", err.Message)
	mockRepo.AssertNotCalled(t, "BeginTx")
}

func TestCredit_WalletNotFound(t *testing.T) {
	mockRepo, _, _, uc, db := setupTest(t)

	walletID := uuid.New()
	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByIDForUpdate", mock.Anything, realTx, walletID).Return(nil, gorm.ErrRecordNotFound)

	transaction, err := uc.Credit(context.Background(), walletID, decimal.NewFromInt(500), "SQ-REF-1", "deposit")

	assert.Nil(t, transaction)
	assert.NotNil(t, err)
	assert.Equal(t, "wallet not found", err.Message)
	mockRepo.AssertExpectations(t)
}

func TestGetTransactionHistory_CacheHit(t *testing.T) {
	mockRepo, _, rdb, uc, _ := setupTest(t)

	userID := uuid.New()
	limit, offset, page := 10, 0, 1
	cacheKey := fmt.Sprintf("transactions:%s:%d:%d", userID.String(), page, limit)

	expectedResp := &params.TransactionHistoryResponse{Total: 1, Page: page}
	cachedData, _ := json.Marshal(expectedResp)
	rdb.Set(context.Background(), cacheKey, cachedData, time.Minute)

	resp, err := uc.GetTransactionHistory(context.Background(), userID, limit, offset)

	assert.Nil(t, err)
	assert.Equal(t, expectedResp.Total, resp.Total)
	mockRepo.AssertNotCalled(t, "GetByUserID")
}

func TestGetTransactionHistory_CacheMiss_Success(t *testing.T) {
	mockRepo, _, rdb, uc, _ := setupTest(t)

	userID, walletID := uuid.New(), uuid.New()
	limit, offset, page := 10, 0, 1
	cacheKey := fmt.Sprintf("transactions:%s:%d:%d", userID.String(), page, limit)

	mockWallet := &entity.Wallet{ID: walletID, UserID: userID}
	mockTransactions := []*entity.Transaction{{ID: uuid.New(), Amount: decimal.NewFromInt(100), Reference: "REQ-1"}}
	var totalCount int64 = 1

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(mockWallet, nil)
	mockRepo.On("GetTransactionsByWalletID", mock.Anything, walletID, limit, offset).Return(mockTransactions, nil)
	mockRepo.On("CountTransactionsByWalletID", mock.Anything, walletID).Return(totalCount, nil)

	resp, err := uc.GetTransactionHistory(context.Background(), userID, limit, offset)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.Transactions, 1)
	assert.Equal(t, totalCount, resp.Total)
	mockRepo.AssertExpectations(t)

	cachedVal, cacheErr := rdb.Get(context.Background(), cacheKey).Result()
	assert.NoError(t, cacheErr)
	assert.NotEmpty(t, cachedVal)
}

func TestGetTransactionHistory_WalletLookupFails(t *testing.T) {
	mockRepo, _, _, uc, _ := setupTest(t)

	userID := uuid.New()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(nil, errors.New("unexpected db error"))

	resp, err := uc.GetTransactionHistory(context.Background(), userID, 10, 0)

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, "failed to get wallet", err.Message)
	mockRepo.AssertExpectations(t)
}

func TestInvalidateHistoryCache_RemovesAllPages(t *testing.T) {
	_, _, rdb, uc, _ := setupTest(t)

	userID := uuid.New()
	ctx := context.Background()

	rdb.Set(ctx, fmt.Sprintf("transactions:%s:1:10", userID), "a", time.Minute)
	rdb.Set(ctx, fmt.Sprintf("transactions:%s:2:10", userID), "b", time.Minute)
	rdb.Set(ctx, "transactions:other:1:10", "c", time.Minute)

	uc.InvalidateHistoryCache(ctx, userID)

	keys, _ := rdb.Keys(ctx, fmt.Sprintf("transactions:%s:*", userID)).Result()
	assert.Empty(t, keys)

	otherKeys, _ := rdb.Keys(ctx, "transactions:other:*").Result()
	assert.Len(t, otherKeys, 1)
}
