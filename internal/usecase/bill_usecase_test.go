package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/provider"
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
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBillTest(t *testing.T) (*repository.MockWalletRepository, usecase.BillUsecase, *gorm.DB) {
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

	walletUC := usecase.NewWalletUsecase(mockRepo, logger, rdb, hashing.NewBcryptHasher())
	billUC := usecase.NewBillUsecase(mockRepo, walletUC, nil, nil, logger, time.Second)

	return mockRepo, billUC, db
}

func successCall(raw map[string]interface{}) provider.PurchaseCall {
	return func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
		return &provider.PurchaseResult{Outcome: provider.OutcomeSuccess, Raw: raw}, nil
	}
}

func TestProcessPurchase_Success(t *testing.T) {
	mockRepo, uc, db := setupBillTest(t)

	userID, walletID := uuid.New(), uuid.New()
	wallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(1000), Version: 1}

	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByUserIDForUpdate", mock.Anything, realTx, userID).Return(wallet, nil)

	var created *entity.Transaction
	mockRepo.On("CreateTransaction", mock.Anything, realTx, mock.AnythingOfType("*entity.Transaction")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*entity.Transaction)
		}).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, realTx, walletID, decimalEq(decimal.NewFromInt(400)), 2).Return(nil)

	var finalized *entity.Transaction
	mockRepo.On("UpdateTransactionStatus", mock.Anything, mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("*entity.Transaction")).
		Run(func(args mock.Arguments) {
			finalized = args.Get(3).(*entity.Transaction)
		}).Return(nil)

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID:      userID,
		Amount:      decimal.NewFromInt(600),
		Type:        entity.TransactionTypePurchase,
		Description: "Airtime TopUp for 08012345678",
		Metadata:    map[string]interface{}{"category": "AIRTIME"},
		Call:        successCall(map[string]interface{}{"status": "success"}),
	})

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, entity.TransactionStatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.Reference)

	assert.Equal(t, entity.TransactionStatusPending, created.Status)
	assert.True(t, created.BalanceBefore.Equal(decimal.NewFromInt(1000)))
	assert.True(t, created.BalanceAfter.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, entity.TransactionStatusSuccess, finalized.Status)

	mockRepo.AssertExpectations(t)
}

func TestProcessPurchase_IdempotentReplay(t *testing.T) {
	mockRepo, uc, _ := setupBillTest(t)

	userID := uuid.New()
	existing := &entity.Transaction{
		ID:        uuid.New(),
		Type:      entity.TransactionTypePurchase,
		Amount:    decimal.NewFromInt(600),
		Status:    entity.TransactionStatusSuccess,
		Reference: "R1",
		Metadata:  datatypes.JSON(`{"category":"AIRTIME"}`),
	}

	mockRepo.On("GetTransactionByReference", mock.Anything, "R1").Return(existing, nil)

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID:    userID,
		Amount:    decimal.NewFromInt(600),
		Type:      entity.TransactionTypePurchase,
		RequestID: "R1",
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			t.Fatal("provider must not be called on replay")
			return nil, nil
		},
	})

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, entity.TransactionStatusSuccess, resp.Status)
	assert.Equal(t, "R1", resp.Reference)
	mockRepo.AssertNotCalled(t, "BeginTx")
	mockRepo.AssertNotCalled(t, "GetByUserID")
	mockRepo.AssertExpectations(t)
}

func TestProcessPurchase_InsufficientFunds(t *testing.T) {
	mockRepo, uc, _ := setupBillTest(t)

	userID := uuid.New()
	wallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.NewFromInt(100), Version: 1}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID: userID,
		Amount: decimal.NewFromInt(500),
		Type:   entity.TransactionTypePurchase,
		Call:   successCall(nil),
	})

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, response.CodeInsufficientFunds, err.Code)
	mockRepo.AssertNotCalled(t, "BeginTx")
	mockRepo.AssertNotCalled(t, "CreateTransaction")
	mockRepo.AssertExpectations(t)
}

func TestProcessPurchase_ProviderFailureRefunds(t *testing.T) {
	mockRepo, uc, db := setupBillTest(t)

	userID, walletID := uuid.New(), uuid.New()
	wallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(1000), Version: 1}
	debitedWallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(400), Version: 2}

	debitTx := db.Begin()
	refundTx := db.Begin()
	defer debitTx.Rollback()
	defer refundTx.Rollback()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("BeginTx", mock.Anything).Return(debitTx).Once()
	mockRepo.On("BeginTx", mock.Anything).Return(refundTx).Once()
	mockRepo.On("WithTx", debitTx).Return(mockRepo)
	mockRepo.On("WithTx", refundTx).Return(mockRepo)

	mockRepo.On("GetByUserIDForUpdate", mock.Anything, debitTx, userID).Return(wallet, nil)
	mockRepo.On("CreateTransaction", mock.Anything, debitTx, mock.AnythingOfType("*entity.Transaction")).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, debitTx, walletID, decimalEq(decimal.NewFromInt(400)), 2).Return(nil)

	mockRepo.On("GetByIDForUpdate", mock.Anything, refundTx, walletID).Return(debitedWallet, nil)

	var finalized *entity.Transaction
	mockRepo.On("UpdateTransactionStatus", mock.Anything, refundTx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("*entity.Transaction")).
		Run(func(args mock.Arguments) {
			finalized = args.Get(3).(*entity.Transaction)
		}).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, refundTx, walletID, decimalEq(decimal.NewFromInt(1000)), 3).Return(nil)

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID:      userID,
		Amount:      decimal.NewFromInt(600),
		Type:        entity.TransactionTypePurchase,
		Description: "Data Purchase",
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return &provider.PurchaseResult{Outcome: provider.OutcomeFailed, Message: "insufficient vendor float"}, nil
		},
	})

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, response.CodeProviderError, err.Code)
	assert.Equal(t, "transaction failed and was refunded: insufficient vendor float", err.Message)

	assert.Equal(t, entity.TransactionStatusFailed, finalized.Status)
	assert.True(t, finalized.BalanceAfter.Equal(finalized.BalanceBefore))
	assert.Contains(t, finalized.Description, "insufficient vendor float")

	mockRepo.AssertExpectations(t)
}

func TestProcessPurchase_ProviderCallErrorRefunds(t *testing.T) {
	mockRepo, uc, db := setupBillTest(t)

	userID, walletID := uuid.New(), uuid.New()
	wallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(1000), Version: 1}
	debitedWallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(500), Version: 2}

	debitTx := db.Begin()
	refundTx := db.Begin()
	defer debitTx.Rollback()
	defer refundTx.Rollback()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("BeginTx", mock.Anything).Return(debitTx).Once()
	mockRepo.On("BeginTx", mock.Anything).Return(refundTx).Once()
	mockRepo.On("WithTx", debitTx).Return(mockRepo)
	mockRepo.On("WithTx", refundTx).Return(mockRepo)

	mockRepo.On("GetByUserIDForUpdate", mock.Anything, debitTx, userID).Return(wallet, nil)
	mockRepo.On("CreateTransaction", mock.Anything, debitTx, mock.AnythingOfType("*entity.Transaction")).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, debitTx, walletID, decimalEq(decimal.NewFromInt(500)), 2).Return(nil)

	mockRepo.On("GetByIDForUpdate", mock.Anything, refundTx, walletID).Return(debitedWallet, nil)
	mockRepo.On("UpdateTransactionStatus", mock.Anything, refundTx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("*entity.Transaction")).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, refundTx, walletID, decimalEq(decimal.NewFromInt(1000)), 3).Return(nil)

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID: userID,
		Amount: decimal.NewFromInt(500),
		Type:   entity.TransactionTypePurchase,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return nil, errors.New("connection reset by peer")
		},
	})

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, response.CodeProviderError, err.Code)
	mockRepo.AssertExpectations(t)
}

func TestProcessPurchase_ProcessingStaysPending(t *testing.T) {
	mockRepo, uc, db := setupBillTest(t)

	userID, walletID := uuid.New(), uuid.New()
	wallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(1000), Version: 1}

	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByUserIDForUpdate", mock.Anything, realTx, userID).Return(wallet, nil)
	mockRepo.On("CreateTransaction", mock.Anything, realTx, mock.AnythingOfType("*entity.Transaction")).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, realTx, walletID, decimalEq(decimal.NewFromInt(400)), 2).Return(nil)
	mockRepo.On("UpdateTransactionMetadata", mock.Anything, mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("datatypes.JSON")).Return(nil)

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID: userID,
		Amount: decimal.NewFromInt(600),
		Type:   entity.TransactionTypePurchase,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return &provider.PurchaseResult{Outcome: provider.OutcomeProcessing, Raw: map[string]interface{}{"status": "processing"}}, nil
		},
	})

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, entity.TransactionStatusPending, resp.Status)
	mockRepo.AssertNotCalled(t, "UpdateTransactionStatus")
	mockRepo.AssertNotCalled(t, "GetByIDForUpdate")
	mockRepo.AssertExpectations(t)
}

func TestProcessPurchase_DuplicateInsertRaceReplaysWinner(t *testing.T) {
	mockRepo, uc, db := setupBillTest(t)

	userID, walletID := uuid.New(), uuid.New()
	wallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(1000), Version: 1}
	winner := &entity.Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Status:    entity.TransactionStatusSuccess,
		Reference: "R9",
	}

	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("GetTransactionByReference", mock.Anything, "R9").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByUserIDForUpdate", mock.Anything, realTx, userID).Return(wallet, nil)
	mockRepo.On("CreateTransaction", mock.Anything, realTx, mock.AnythingOfType("*entity.Transaction")).
		Return(repository.ErrDuplicateReference)
	mockRepo.On("GetTransactionByReference", mock.Anything, "R9").Return(winner, nil).Once()

	resp, err := uc.ProcessPurchase(context.Background(), usecase.PurchaseInput{
		UserID:    userID,
		Amount:    decimal.NewFromInt(600),
		Type:      entity.TransactionTypePurchase,
		RequestID: "R9",
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			t.Fatal("provider must not be called when the debit lost the insert race")
			return nil, nil
		},
	})

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, "R9", resp.Reference)
	mockRepo.AssertNotCalled(t, "UpdateBalance")
	mockRepo.AssertExpectations(t)
}

func TestPurchaseAirtime_RequiresPin(t *testing.T) {
	mockRepo, uc, _ := setupBillTest(t)

	userID := uuid.New()
	wallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.NewFromInt(1000)}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)

	resp, err := uc.PurchaseAirtime(context.Background(), userID, &params.AirtimeRequest{
		MobileNumber: "08012345678",
		Network:      "MTN",
		Amount:       decimal.NewFromInt(100),
		Pin:          "1234",
	})

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, response.CodePinNotSet, err.Code)
	mockRepo.AssertNotCalled(t, "BeginTx")
	mockRepo.AssertExpectations(t)
}
