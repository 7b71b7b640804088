package usecase

import (
	"context"
	"time"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/repository"
	"go-bills-wallet/pkg/hashing"
	"go-bills-wallet/pkg/token"

	"github.com/sirupsen/logrus"
)

type AuthUsecase interface {
	Register(ctx context.Context, req *params.RegisterRequest) (*params.AuthResponse, *response.CustomError)
	Login(ctx context.Context, req *params.LoginRequest) (*params.AuthResponse, *response.CustomError)
}

type AuthUsecaseImpl struct {
	userRepo   repository.UserRepository
	logger     *logrus.Logger
	jwtManager *token.TokenManager
	hasher     hashing.Hasher
}

func NewAuthUsecase(userRepo repository.UserRepository, logger *logrus.Logger, jwtManager *token.TokenManager, hasher hashing.Hasher) AuthUsecase {
	return &AuthUsecaseImpl{
		userRepo:   userRepo,
		logger:     logger,
		jwtManager: jwtManager,
		hasher:     hasher,
	}
}

func (s *AuthUsecaseImpl) Register(ctx context.Context, req *params.RegisterRequest) (*params.AuthResponse, *response.CustomError) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		s.logger.WithField("email", req.Email).Warn("Registration attempt with existing email")
		return nil, response.BadRequestError("user with this email already exists")
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		return nil, response.GeneralError("failed to hash password")
	}

	user := &entity.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  hashedPassword,
	}
	if req.MiddleName != "" {
		user.MiddleName = &req.MiddleName
	}
	if req.BVN != "" {
		user.BVN = &req.BVN
	}
	if req.Gender != "" {
		user.Gender = &req.Gender
	}
	if req.Address != "" {
		user.Address = &req.Address
	}
	if req.DateOfBirth != "" {
		if dob, parseErr := time.Parse("2006-01-02", req.DateOfBirth); parseErr == nil {
			user.DateOfBirth = &dob
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.WithError(err).WithField("email", req.Email).Error("Failed to create user")
		return nil, response.RepositoryError("failed to create user")
	}

	jwt, err := s.jwtManager.GenerateToken(user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to generate token")
		return nil, response.GeneralError("failed to generate token")
	}

	resp := &params.AuthResponse{Token: jwt}
	resp.User.ID = user.ID
	resp.User.FirstName = user.FirstName
	resp.User.LastName = user.LastName
	resp.User.Email = user.Email

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered successfully")

	return resp, nil
}

func (s *AuthUsecaseImpl) Login(ctx context.Context, req *params.LoginRequest) (*params.AuthResponse, *response.CustomError) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.WithField("email", req.Email).Warn("Login attempt with non-existing email")
		return nil, response.BadRequestError("invalid email or password")
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   req.Email,
		}).Warn("Login attempt with invalid password")
		return nil, response.BadRequestError("invalid email or password")
	}

	jwt, err := s.jwtManager.GenerateToken(user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to generate token")
		return nil, response.GeneralError("failed to generate token")
	}

	resp := &params.AuthResponse{Token: jwt}
	resp.User.ID = user.ID
	resp.User.FirstName = user.FirstName
	resp.User.LastName = user.LastName
	resp.User.Email = user.Email

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User logged in successfully")

	return resp, nil
}
