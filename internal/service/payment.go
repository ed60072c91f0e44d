package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/stripe"
	"github.com/parapharma/shop/internal/transport"
)

type PaymentService struct {
	Repo   *repo.GormRepo
	Stripe *stripe.Client
}

// CreateIntent opens a card payment intent for the given amount in euro
// cents, provisioning the provider customer on first use.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uuid.UUID, req transport.CreateIntentRequest) (*transport.CreateIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if req.OrderID != uuid.Nil {
		if _, err := s.Repo.OrderByID(ctx, req.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: order", ErrNotFound)
			}
			return nil, err
		}
	}

	user, err := s.customerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	intent, err := s.Stripe.CreatePaymentIntent(ctx, req.Amount, "eur", user.StripeCustomerID)
	if err != nil {
		return nil, wrapStripe(err)
	}
	return &transport.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		CustomerID:      user.StripeCustomerID,
	}, nil
}

func (s *PaymentService) ConfirmIntent(ctx context.Context, req transport.ConfirmPaymentRequest) (*stripe.PaymentIntent, error) {
	if req.PaymentIntentID == "" || req.PaymentMethodID == "" {
		return nil, fmt.Errorf("%w: payment_intent_id and payment_method_id required", ErrValidation)
	}

	intent, err := s.Stripe.ConfirmPaymentIntent(ctx, req.PaymentIntentID, req.PaymentMethodID)
	if err != nil {
		return nil, wrapStripe(err)
	}
	return intent, nil
}

// AddPaymentMethod attaches a provider card to the user's customer, makes it
// the default and stores the card summary locally.
func (s *PaymentService) AddPaymentMethod(ctx context.Context, userID uuid.UUID, providerMethodID string) (*models.PaymentMethod, error) {
	if providerMethodID == "" {
		return nil, fmt.Errorf("%w: payment_method_id required", ErrValidation)
	}

	if _, err := s.Repo.PaymentMethodByProviderID(ctx, userID, providerMethodID); err == nil {
		return nil, fmt.Errorf("%w: payment method already saved", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.customerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	attached, err := s.Stripe.AttachPaymentMethod(ctx, providerMethodID, user.StripeCustomerID)
	if err != nil {
		return nil, wrapStripe(err)
	}
	if err := s.Stripe.SetDefaultPaymentMethod(ctx, user.StripeCustomerID, attached.ID); err != nil {
		return nil, wrapStripe(err)
	}

	method := &models.PaymentMethod{
		UserID:           userID,
		ProviderMethodID: attached.ID,
		Brand:            attached.Card.Brand,
		Last4:            attached.Card.Last4,
		ExpMonth:         attached.Card.ExpMonth,
		ExpYear:          attached.Card.ExpYear,
	}
	if err := s.Repo.CreatePaymentMethod(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *PaymentService) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	return s.Repo.PaymentMethodsByUser(ctx, userID)
}

// RemovePaymentMethod detaches the card at the provider, then drops the local
// record.
func (s *PaymentService) RemovePaymentMethod(ctx context.Context, userID uuid.UUID, providerMethodID string) error {
	method, err := s.Repo.PaymentMethodByProviderID(ctx, userID, providerMethodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: payment method", ErrNotFound)
		}
		return err
	}

	if err := s.Stripe.DetachPaymentMethod(ctx, method.ProviderMethodID); err != nil {
		return wrapStripe(err)
	}
	return s.Repo.DeletePaymentMethod(ctx, method.ID)
}

// customerFor loads the user and provisions a provider customer if none was
// created at registration.
func (s *PaymentService) customerFor(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	if user.StripeCustomerID != "" {
		return user, nil
	}

	customer, err := s.Stripe.CreateCustomer(ctx, user.Email, user.FirstName+" "+user.LastName, user.Phone)
	if err != nil {
		return nil, wrapStripe(err)
	}
	user.StripeCustomerID = customer.ID
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func wrapStripe(err error) error {
	var apiErr *stripe.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return fmt.Errorf("%w: %s", ErrValidation, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
