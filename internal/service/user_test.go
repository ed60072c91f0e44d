package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parapharma/shop/internal/mailer"
	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/stripe"
	"github.com/parapharma/shop/internal/transport"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last(t *testing.T) mailer.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// fakeStripeServer answers just enough of the provider API for the flows
// under test.
func fakeStripeServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "cus_test", "email": r.FormValue("email")})
	})
	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "pi_test", "client_secret": "pi_test_secret", "status": "requires_payment_method",
		})
	})
	mux.HandleFunc("/v1/payment_methods/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/attach"):
			json.NewEncoder(w).Encode(map[string]any{
				"id": "pm_test", "type": "card",
				"card": map[string]any{"brand": "visa", "last4": "4242", "exp_month": 4, "exp_year": 2030},
			})
		case strings.HasSuffix(r.URL.Path, "/detach"):
			json.NewEncoder(w).Encode(map[string]any{"id": "pm_test"})
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/v1/customers/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "cus_test"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newUserService(t *testing.T, m mailer.Mailer) *UserService {
	t.Helper()

	srv := fakeStripeServer(t)
	return &UserService{
		Repo:      newTestRepo(t),
		Stripe:    stripe.NewClient("sk_test", srv.URL),
		Mailer:    m,
		JWTSecret: []byte("test-secret"),
		BaseURL:   "http://localhost:8080",
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fm := &fakeMailer{}
	svc := newUserService(t, fm)

	req := transport.RegisterRequest{
		FirstName: "Marie", LastName: "Curie",
		Email: "marie@example.com", Phone: "0601020304",
		Password: "radium1898", Role: models.RolePharmacist,
	}
	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.Equal(t, "cus_test", user.StripeCustomerID)
	assert.NotEqual(t, "radium1898", user.PasswordHash)

	// unverified accounts cannot sign in
	_, err = svc.Login(ctx, transport.LoginRequest{Email: req.Email, Password: req.Password})
	require.ErrorIs(t, err, ErrUnauthorized)

	msg := fm.last(t)
	assert.Equal(t, req.Email, msg.To)
	assert.Contains(t, msg.HTML, user.VerificationToken)

	verified, err := svc.VerifyEmail(ctx, user.VerificationToken)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken)

	resp, err := svc.Login(ctx, transport.LoginRequest{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.ID)
	assert.NotEmpty(t, resp.Token)

	// a token only works once
	_, err = svc.VerifyEmail(ctx, user.VerificationToken)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newUserService(t, &fakeMailer{})

	req := transport.RegisterRequest{
		FirstName: "A", LastName: "B",
		Email: "dup@example.com", Password: "password",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterMailFailureRollsBackToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fm := &fakeMailer{fail: true}
	svc := newUserService(t, fm)

	_, err := svc.Register(ctx, transport.RegisterRequest{
		FirstName: "A", LastName: "B",
		Email: "rollback@example.com", Password: "password",
	})
	require.ErrorIs(t, err, ErrUpstream)

	user, err := svc.Repo.UserByEmail(ctx, "rollback@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.VerificationToken, "token must not survive a failed send")
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newUserService(t, &fakeMailer{})

	user, err := svc.Register(ctx, transport.RegisterRequest{
		FirstName: "A", LastName: "B",
		Email: "wrongpass@example.com", Password: "password",
	})
	require.NoError(t, err)
	_, err = svc.VerifyEmail(ctx, user.VerificationToken)
	require.NoError(t, err)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "wrongpass@example.com", Password: "nope"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "password"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fm := &fakeMailer{}
	svc := newUserService(t, fm)

	user, err := svc.Register(ctx, transport.RegisterRequest{
		FirstName: "A", LastName: "B",
		Email: "reset@example.com", Password: "oldpassword",
	})
	require.NoError(t, err)
	_, err = svc.VerifyEmail(ctx, user.VerificationToken)
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "reset@example.com"))

	stored, err := svc.Repo.UserByEmail(ctx, "reset@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpire)
	assert.Contains(t, fm.last(t).HTML, stored.ResetPasswordToken)

	require.NoError(t, svc.CheckResetToken(ctx, stored.ResetPasswordToken))
	require.ErrorIs(t, svc.CheckResetToken(ctx, "bogus"), ErrNotFound)

	require.NoError(t, svc.ResetPassword(ctx, stored.ResetPasswordToken, "newpassword"))

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "reset@example.com", Password: "oldpassword"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "reset@example.com", Password: "newpassword"})
	require.NoError(t, err)

	// the consumed token is gone
	err = svc.ResetPassword(ctx, stored.ResetPasswordToken, "anotherpassword")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddressOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newUserService(t, &fakeMailer{})
	r := svc.Repo
	owner := seedUser(t, r, "addr-owner@example.com", models.RoleVendor)
	other := seedUser(t, r, "addr-other@example.com", models.RoleVendor)

	address, err := svc.AddAddress(ctx, owner.ID, transport.AddressRequest{
		Address: "2 avenue Foch", City: "Lyon", PostalCode: "69006", Country: "FR",
	})
	require.NoError(t, err)

	_, err = svc.UpdateAddress(ctx, other.ID, address.ID, transport.AddressRequest{City: "Nice"})
	require.ErrorIs(t, err, ErrNotFound, "foreign addresses must be invisible")

	err = svc.DeleteAddress(ctx, other.ID, address.ID)
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateAddress(ctx, owner.ID, address.ID, transport.AddressRequest{City: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, "Nice", updated.City)
	assert.Equal(t, "2 avenue Foch", updated.Address)

	require.NoError(t, svc.DeleteAddress(ctx, owner.ID, address.ID))
	list, err := svc.ListAddresses(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
