package usecase_test

import (
	"context"
	"testing"

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

func setupWebhookTest(t *testing.T) (*repository.MockWalletRepository, usecase.WebhookUsecase, *gorm.DB) {
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
	wh := usecase.NewWebhookUsecase(mockRepo, walletUC, logger)

	return mockRepo, wh, db
}

func chargePayload(userID uuid.UUID, amountKobo int64, ref string) *params.SquadWebhookPayload {
	return &params.SquadWebhookPayload{
		Event: "charge_successful",
		Body: params.SquadWebhookBody{
			Amount:             amountKobo,
			TransactionRef:     ref,
			MerchantCustomerID: userID.String(),
			BankCode:           "058",
		},
	}
}

func TestHandleSquadEvent_CreditsWallet(t *testing.T) {
	mockRepo, wh, db := setupWebhookTest(t)

	userID, walletID := uuid.New(), uuid.New()
	wallet := &entity.Wallet{ID: walletID, UserID: userID, Balance: decimal.NewFromInt(200), Version: 1}

	realTx := db.Begin()
	defer realTx.Rollback()

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("GetTransactionByReference", mock.Anything, "SQ-REF-77").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("BeginTx", mock.Anything).Return(realTx)
	mockRepo.On("WithTx", realTx).Return(mockRepo)
	mockRepo.On("GetByIDForUpdate", mock.Anything, realTx, walletID).Return(wallet, nil)

	var created *entity.Transaction
	mockRepo.On("CreateTransaction", mock.Anything, realTx, mock.AnythingOfType("*entity.Transaction")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*entity.Transaction)
		}).Return(nil)
	mockRepo.On("UpdateBalance", mock.Anything, realTx, walletID, decimalEq(decimal.NewFromInt(1700)), 2).Return(nil)

	// 150000 kobo is 1500 naira.
	err := wh.HandleSquadEvent(context.Background(), chargePayload(userID, 150000, "SQ-REF-77"))

	assert.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeDeposit, created.Type)
	assert.Equal(t, entity.TransactionStatusSuccess, created.Status)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "SQ-REF-77", created.Reference)
	mockRepo.AssertExpectations(t)
}

func TestHandleSquadEvent_DuplicateDeliveryIgnored(t *testing.T) {
	mockRepo, wh, _ := setupWebhookTest(t)

	userID := uuid.New()
	wallet := &entity.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.NewFromInt(200)}
	existing := &entity.Transaction{ID: uuid.New(), Reference: "SQ-REF-77", Status: entity.TransactionStatusSuccess}

	mockRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
	mockRepo.On("GetTransactionByReference", mock.Anything, "SQ-REF-77").Return(existing, nil)

	err := wh.HandleSquadEvent(context.Background(), chargePayload(userID, 150000, "SQ-REF-77"))

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "BeginTx")
	mockRepo.AssertNotCalled(t, "CreateTransaction")
	mockRepo.AssertExpectations(t)
}

func TestHandleSquadEvent_UnknownEventIgnored(t *testing.T) {
	mockRepo, wh, _ := setupWebhookTest(t)

	err := wh.HandleSquadEvent(context.Background(), &params.SquadWebhookPayload{Event: "charge_failed"})

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "GetByUserID")
}

func TestHandleSquadEvent_UnknownCustomerIgnored(t *testing.T) {
	mockRepo, wh, _ := setupWebhookTest(t)

	userID := uuid.New()
	mockRepo.On("GetByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	err := wh.HandleSquadEvent(context.Background(), chargePayload(userID, 150000, "SQ-REF-77"))

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "BeginTx")
	mockRepo.AssertExpectations(t)
}

func TestHandleSquadEvent_MalformedCustomerIgnored(t *testing.T) {
	mockRepo, wh, _ := setupWebhookTest(t)

	payload := &params.SquadWebhookPayload{
		Event: "charge_successful",
		Body: params.SquadWebhookBody{
			Amount:             1000,
			TransactionRef:     "SQ-REF-1",
			MerchantCustomerID: "not-a-uuid",
		},
	}

	err := wh.HandleSquadEvent(context.Background(), payload)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "GetByUserID")
}
