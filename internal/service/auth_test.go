package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeep/notekeep-go/internal/crypto"
	"github.com/notekeep/notekeep-go/internal/model"
	"github.com/notekeep/notekeep-go/internal/testutil"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthService(t *testing.T, store *testutil.Store) *AuthService {
	t.Helper()
	tokens, err := crypto.NewTokenService("test-secret", 60*time.Minute)
	require.NoError(t, err)

	svc, err := NewAuthService(store.Users(), crypto.NewHasher(testutil.FastHashParams), tokens)
	require.NoError(t, err)
	svc.now = func() time.Time { return testNow }
	return svc
}

func signup(t *testing.T, svc *AuthService, email, password string) model.UserResponse {
	t.Helper()
	user, err := svc.Signup(context.Background(), model.SignupRequest{Email: email, Password: password})
	require.NoError(t, err)
	return user
}

func TestSignup(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())

	user := signup(t, svc, "  Alice@Example.COM ", "pw1")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestSignup_Validation(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())

	tests := []struct {
		name    string
		req     model.SignupRequest
		wantErr error
	}{
		{"empty email", model.SignupRequest{Email: "", Password: "pw"}, ErrInvalidEmail},
		{"not an email", model.SignupRequest{Email: "alice", Password: "pw"}, ErrInvalidEmail},
		{"display name", model.SignupRequest{Email: "Alice <alice@example.com>", Password: "pw"}, ErrInvalidEmail},
		{"dotless domain", model.SignupRequest{Email: "a@x", Password: "pw"}, ErrInvalidEmail},
		{"empty domain label", model.SignupRequest{Email: "a@x..com", Password: "pw"}, ErrInvalidEmail},
		{"trailing dot", model.SignupRequest{Email: "a@x.com.", Password: "pw"}, ErrInvalidEmail},
		{"ip literal", model.SignupRequest{Email: "a@[127.0.0.1]", Password: "pw"}, ErrInvalidEmail},
		{"empty password", model.SignupRequest{Email: "alice@example.com", Password: ""}, ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewAuthService_HasherFailure(t *testing.T) {
	tokens, err := crypto.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	broken := crypto.NewHasher(crypto.HashParams{Iterations: crypto.MaxIterations + 1})
	svc, err := NewAuthService(testutil.NewStore().Users(), broken, tokens)
	assert.ErrorIs(t, err, crypto.ErrInvalidHashParams)
	assert.Nil(t, svc)
}

func TestAuthenticate_UnknownEmailVerifiesDummyDigest(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())
	require.NotEmpty(t, svc.dummyHash)
	assert.False(t, svc.hasher.Verify("notekeep-dummy-password-x", svc.dummyHash))
	assert.True(t, svc.hasher.Verify("notekeep-dummy-password", svc.dummyHash))
}

func TestSignup_DuplicateCaseVariant(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())

	signup(t, svc, "a@x.com", "pw1")

	_, err := svc.Signup(context.Background(), model.SignupRequest{Email: "A@X.COM", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_StoresHashNotPassword(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)

	signup(t, svc, "a@x.com", "pw1")

	stored, err := store.Users().GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, svc.hasher.Verify("pw1", stored.PasswordHash))
}

func TestAuthenticate(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())
	created := signup(t, svc, "a@x.com", "pw1")
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "A@x.COM", "pw1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	unknown, errUnknown := svc.Authenticate(ctx, "nobody@x.com", "pw1")
	wrong, errWrong := svc.Authenticate(ctx, "a@x.com", "wrong")

	assert.Nil(t, unknown)
	assert.NoError(t, errUnknown)
	assert.Nil(t, wrong)
	assert.NoError(t, errWrong)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	store.Fail(errors.New("db down"))

	_, err := svc.Authenticate(context.Background(), "a@x.com", "pw1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())
	created := signup(t, svc, "a@x.com", "pw1")

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	userID, err := svc.tokens.Validate(resp.AccessToken, testNow)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
}

func TestLogin_InvalidCredentialsAreUniform(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())
	signup(t, svc, "a@x.com", "pw1")

	_, errUnknown := svc.Login(context.Background(), model.LoginRequest{Email: "b@x.com", Password: "pw1"})
	_, errWrong := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com", Password: "pw2"})

	assert.Equal(t, ErrInvalidCredentials, errUnknown)
	assert.Equal(t, ErrInvalidCredentials, errWrong)
}

func TestResolve(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())
	created := signup(t, svc, "a@x.com", "pw1")

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	user, err := svc.Resolve(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestResolve_Expiry(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())
	signup(t, svc, "a@x.com", "pw1")

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(59*time.Minute + 59*time.Second) }
	_, err = svc.Resolve(context.Background(), resp.AccessToken)
	assert.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(60 * time.Minute) }
	_, err = svc.Resolve(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolve_DeletedUserLooksLikeBadToken(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	created := signup(t, svc, "a@x.com", "pw1")

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), &model.User{ID: created.ID}))

	_, errDeleted := svc.Resolve(context.Background(), resp.AccessToken)
	_, errGarbage := svc.Resolve(context.Background(), "garbage")

	assert.Equal(t, ErrUnauthenticated, errDeleted)
	assert.Equal(t, ErrUnauthenticated, errGarbage)
}

func TestResolve_StoreFailureIsNotAuthFailure(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	signup(t, svc, "a@x.com", "pw1")

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	store.Fail(errors.New("db down"))
	_, err = svc.Resolve(context.Background(), resp.AccessToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestDeleteAccount_RemovesNotes(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	alice := signup(t, svc, "a@x.com", "pw1")
	bob := signup(t, svc, "b@x.com", "pw2")

	ctx := context.Background()
	_, err := store.Notes().Create(ctx, alice.ID, "mine", "")
	require.NoError(t, err)
	_, err = store.Notes().Create(ctx, bob.ID, "bob's", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, &model.User{ID: alice.ID}))

	assert.Equal(t, 1, store.NoteCount())
	_, err = store.Users().GetByID(ctx, alice.ID)
	assert.Error(t, err)
}
