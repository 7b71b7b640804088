package usecase

import (
	"context"
	"errors"
	"strings"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/provider"
	"go-bills-wallet/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BankingUsecase interface {
	ProvisionVirtualAccount(ctx context.Context, userID uuid.UUID) (*params.VirtualAccountResponse, *response.CustomError)
	GetBankList() []*params.BankResponse
}

type BankingUsecaseImpl struct {
	repo     repository.WalletRepository
	userRepo repository.UserRepository
	walletUC WalletUsecase
	squad    *provider.SquadClient
	logger   *logrus.Logger
}

func NewBankingUsecase(repo repository.WalletRepository, userRepo repository.UserRepository, walletUC WalletUsecase, squad *provider.SquadClient, logger *logrus.Logger) BankingUsecase {
	return &BankingUsecaseImpl{
		repo:     repo,
		userRepo: userRepo,
		walletUC: walletUC,
		squad:    squad,
		logger:   logger,
	}
}

// ProvisionVirtualAccount mints a bank account number bound to the user's
// wallet. Idempotent: an already-provisioned wallet returns its account, and
// a unique-constraint conflict during persist means a concurrent request
// won, so the winner's account is returned.
func (u *BankingUsecaseImpl) ProvisionVirtualAccount(ctx context.Context, userID uuid.UUID) (*params.VirtualAccountResponse, *response.CustomError) {
	wallet, custErr := u.walletUC.GetOrCreateWallet(ctx, userID)
	if custErr != nil {
		return nil, custErr
	}

	existing, err := u.repo.GetVirtualAccountsByWalletID(ctx, wallet.ID)
	if err != nil {
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to check existing virtual accounts")
		return nil, response.RepositoryError("failed to check virtual accounts")
	}
	if len(existing) > 0 {
		return virtualAccountResponse(existing[0]), nil
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundErrorWithCode(response.CodeUserNotFound, "user not found")
		}
		u.logger.WithError(err).WithField("user_id", userID).Error("Failed to get user")
		return nil, response.RepositoryError("failed to get user")
	}

	if user.BVN == nil || *user.BVN == "" {
		return nil, response.BadRequestErrorWithCode(response.CodeMissingIdentityData,
			"please update your profile with your BVN (Bank Verification Number) to create a virtual account")
	}

	account, err := u.squad.CreateVirtualAccount(ctx, provider.CreateVirtualAccountRequest{
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		MiddleName:         derefOrEmpty(user.MiddleName),
		Mobile:             user.Phone,
		Dob:                formatDob(user),
		Email:              user.Email,
		Bvn:                *user.BVN,
		Gender:             mapGender(user.Gender),
		Address:            addressOrDefault(user.Address),
		CustomerIdentifier: userID.String(),
	})
	if err != nil {
		u.logger.WithError(err).WithField("user_id", userID).Error("Failed to create virtual account with provider")
		return nil, response.ProviderError("failed to create virtual account")
	}

	saved := &entity.VirtualAccount{
		WalletID:      wallet.ID,
		BankName:      bankNameForCode(account.BankCode),
		BankCode:      account.BankCode,
		AccountNumber: account.AccountNumber,
		AccountName:   strings.TrimSpace(account.FirstName + " " + account.LastName),
		Provider:      "squad",
		Reference:     userID.String(),
	}

	if err := u.repo.CreateVirtualAccount(ctx, saved); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccountNumber) {
			winner, fetchErr := u.repo.GetVirtualAccountByNumber(ctx, account.AccountNumber)
			if fetchErr != nil {
				u.logger.WithError(fetchErr).WithField("account_number", account.AccountNumber).
					Error("Failed to fetch virtual account after create conflict")
				return nil, response.RepositoryError("failed to fetch virtual account")
			}
			return virtualAccountResponse(winner), nil
		}
		u.logger.WithError(err).WithField("wallet_id", wallet.ID).Error("Failed to persist virtual account")
		return nil, response.RepositoryError("failed to save virtual account")
	}

	u.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"wallet_id":      wallet.ID,
		"account_number": saved.AccountNumber,
	}).Info("Virtual account provisioned")

	return virtualAccountResponse(saved), nil
}

// GetBankList returns the static catalog of supported Nigerian banks.
func (u *BankingUsecaseImpl) GetBankList() []*params.BankResponse {
	return []*params.BankResponse{
		{ID: "058", Name: "GTBank"},
		{ID: "011", Name: "First Bank"},
		{ID: "032", Name: "Union Bank"},
		{ID: "033", Name: "UBA"},
		{ID: "035", Name: "Wema Bank"},
		{ID: "044", Name: "Access Bank"},
		{ID: "057", Name: "Zenith Bank"},
		{ID: "050", Name: "Ecobank"},
		{ID: "070", Name: "Fidelity Bank"},
		{ID: "214", Name: "First City Monument Bank"},
		{ID: "215", Name: "Unity Bank"},
		{ID: "221", Name: "Heritage Bank"},
		{ID: "232", Name: "Sterling Bank"},
		{ID: "301", Name: "Jaiz Bank"},
		{ID: "068", Name: "Standard Chartered Bank"},
		{ID: "304", Name: "Stanbic IBTC Bank"},
		{ID: "101", Name: "Providus Bank"},
		{ID: "102", Name: "Sun Trust Bank"},
		{ID: "103", Name: "Globus Bank"},
		{ID: "104", Name: "Titan Trust Bank"},
		{ID: "999", Name: "Kuda Bank"},
		{ID: "50211", Name: "Palmpay"},
		{ID: "50515", Name: "Moniepoint"},
		{ID: "100004", Name: "Opay"},
	}
}

func virtualAccountResponse(account *entity.VirtualAccount) *params.VirtualAccountResponse {
	return &params.VirtualAccountResponse{
		ID:            account.ID,
		BankName:      account.BankName,
		BankCode:      account.BankCode,
		AccountNumber: account.AccountNumber,
		AccountName:   account.AccountName,
		Provider:      account.Provider,
		CreatedAt:     account.CreatedAt,
	}
}

func bankNameForCode(code string) string {
	if code == "058" {
		return "GTBank"
	}
	return "Squad Bank"
}

func formatDob(user *entity.User) string {
	if user.DateOfBirth == nil {
		// Sandbox fallback.
		return "01/01/1990"
	}
	return user.DateOfBirth.Format("02/01/2006")
}

func mapGender(gender *string) string {
	if gender == nil {
		return "1"
	}
	switch strings.ToLower(*gender) {
	case "female", "f":
		return "2"
	default:
		return "1"
	}
}

func addressOrDefault(address *string) string {
	if address == nil || *address == "" {
		return "Lagos, Nigeria"
	}
	return *address
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
