package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/stripe"
	"github.com/parapharma/shop/internal/transport"
)

func newPaymentService(t *testing.T) *PaymentService {
	t.Helper()

	srv := fakeStripeServer(t)
	return &PaymentService{
		Repo:   newTestRepo(t),
		Stripe: stripe.NewClient("sk_test", srv.URL),
	}
}

func TestCreateIntentProvisionsCustomer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newPaymentService(t)
	user := seedUser(t, svc.Repo, "intent@example.com", models.RoleVendor)
	require.Empty(t, user.StripeCustomerID)

	resp, err := svc.CreateIntent(ctx, user.ID, transport.CreateIntentRequest{Amount: 2500})
	require.NoError(t, err)
	assert.Equal(t, "pi_test", resp.PaymentIntentID)
	assert.Equal(t, "pi_test_secret", resp.ClientSecret)
	assert.Equal(t, "cus_test", resp.CustomerID)

	// the provisioned customer is persisted for next time
	stored, err := svc.Repo.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cus_test", stored.StripeCustomerID)
}

func TestCreateIntentValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newPaymentService(t)
	user := seedUser(t, svc.Repo, "intent-bad@example.com", models.RoleVendor)

	_, err := svc.CreateIntent(ctx, user.ID, transport.CreateIntentRequest{Amount: 0})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateIntent(ctx, user.ID, transport.CreateIntentRequest{Amount: -100})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPaymentMethodLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newPaymentService(t)
	user := seedUser(t, svc.Repo, "pm@example.com", models.RoleVendor)

	method, err := svc.AddPaymentMethod(ctx, user.ID, "pm_test")
	require.NoError(t, err)
	assert.Equal(t, "pm_test", method.ProviderMethodID)
	assert.Equal(t, "visa", method.Brand)
	assert.Equal(t, "4242", method.Last4)

	_, err = svc.AddPaymentMethod(ctx, user.ID, "pm_test")
	require.ErrorIs(t, err, ErrConflict)

	list, err := svc.ListPaymentMethods(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.RemovePaymentMethod(ctx, user.ID, "pm_test"))

	list, err = svc.ListPaymentMethods(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.RemovePaymentMethod(ctx, user.ID, "pm_test")
	require.ErrorIs(t, err, ErrNotFound)
}
