package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/hash"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/mailer"
	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/stripe"
	"github.com/parapharma/shop/internal/transport"
)

const resetTokenTTL = 10 * time.Minute

type UserService struct {
	Repo      *repo.GormRepo
	Stripe    *stripe.Client
	Mailer    mailer.Mailer
	JWTSecret []byte
	BaseURL   string
}

// Register creates an unverified account and mails the verification link.
// When the mail cannot be delivered the token is cleared so a stale link can
// never activate the account; the caller is expected to retry registration.
func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	if req.FirstName == "" || req.LastName == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: first_name, last_name and password required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	role := req.Role
	switch role {
	case "":
		role = models.RolePharmacist
	case models.RoleAdmin, models.RoleVendor, models.RolePharmacist:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	if _, err := s.Repo.UserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		PasswordHash:      passwordHash,
		Role:              role,
		VerificationToken: token,
	}

	// Payment customers are provisioned eagerly when possible; a provider
	// outage here is recoverable, the payment flow provisions lazily.
	if customer, err := s.Stripe.CreateCustomer(ctx, user.Email, user.FirstName+" "+user.LastName, user.Phone); err != nil {
		logging.FromContext(ctx).Warn("stripe_customer_deferred", "email", user.Email, "error", err)
	} else {
		user.StripeCustomerID = customer.ID
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	verifyURL := s.BaseURL + "/api/users/verify/" + token
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Verify your account",
		HTML:    mailer.VerificationEmail(verifyURL),
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		user.VerificationToken = ""
		if saveErr := s.Repo.SaveUser(ctx, user); saveErr != nil {
			logging.FromContext(ctx).Error("verification_token_rollback_failed", "user_id", user.ID, "error", saveErr)
		}
		return nil, fmt.Errorf("%w: verification email could not be sent", ErrUpstream)
	}

	return user, nil
}

// VerifyEmail consumes a verification token; each token works once.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Repo.UserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: verification token", ErrNotFound)
		}
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	user, err := s.Repo.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if !user.IsVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrUnauthorized)
	}

	token, err := auth.SignToken(user.ID, user.Role, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &transport.LoginResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
	}, nil
}

// ForgotPassword issues a short-lived reset token and mails the reset link.
// Like Register, a failed send rolls the token back.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expire := time.Now().UTC().Add(resetTokenTTL)
	user.ResetPasswordToken = token
	user.ResetPasswordExpire = &expire
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return err
	}

	resetURL := s.BaseURL + "/api/users/resetpassword/" + token
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Reset your password",
		HTML:    mailer.ResetPasswordEmail(resetURL),
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if saveErr := s.Repo.SaveUser(ctx, user); saveErr != nil {
			logging.FromContext(ctx).Error("reset_token_rollback_failed", "user_id", user.ID, "error", saveErr)
		}
		return fmt.Errorf("%w: reset email could not be sent", ErrUpstream)
	}
	return nil
}

// CheckResetToken reports whether a reset token is known and unexpired,
// without consuming it.
func (s *UserService) CheckResetToken(ctx context.Context, token string) error {
	if _, err := s.Repo.UserByResetToken(ctx, token, time.Now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reset token invalid or expired", ErrNotFound)
		}
		return err
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and replaces the password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	user, err := s.Repo.UserByResetToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reset token invalid or expired", ErrNotFound)
		}
		return err
	}

	passwordHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	return s.Repo.SaveUser(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) AddAddress(ctx context.Context, userID uuid.UUID, req transport.AddressRequest) (*models.UserAddress, error) {
	if req.Address == "" || req.City == "" || req.PostalCode == "" || req.Country == "" {
		return nil, fmt.Errorf("%w: address, city, postal_code and country required", ErrValidation)
	}

	address := &models.UserAddress{
		UserID:     userID,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := s.Repo.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *UserService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error) {
	return s.Repo.AddressesByUser(ctx, userID)
}

func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req transport.AddressRequest) (*models.UserAddress, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.Address != "" {
		address.Address = req.Address
	}
	if req.City != "" {
		address.City = req.City
	}
	if req.PostalCode != "" {
		address.PostalCode = req.PostalCode
	}
	if req.Country != "" {
		address.Country = req.Country
	}

	if err := s.Repo.SaveAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.Repo.DeleteAddress(ctx, addressID)
}

func (s *UserService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.UserAddress, error) {
	address, err := s.Repo.AddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address", ErrNotFound)
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("%w: address", ErrNotFound)
	}
	return address, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
