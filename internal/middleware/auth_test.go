package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notekeep/notekeep-go/internal/model"
	"github.com/notekeep/notekeep-go/internal/service"
)

type resolverFunc func(ctx context.Context, token string) (*model.User, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*model.User, error) {
	return f(ctx, token)
}

var stubResolver = resolverFunc(func(ctx context.Context, token string) (*model.User, error) {
	switch token {
	case "good":
		return &model.User{ID: 7, Email: "a@x.com"}, nil
	case "broken":
		return nil, errors.New("db down")
	default:
		return nil, service.ErrUnauthenticated
	}
})

func serve(header string) (*httptest.ResponseRecorder, *model.User) {
	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	BearerAuth(stubResolver)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestBearerAuth_Accepts(t *testing.T) {
	for _, header := range []string{"Bearer good", "bearer good", "BEARER  good "} {
		rec, user := serve(header)
		assert.Equal(t, http.StatusNoContent, rec.Code, header)
		if assert.NotNil(t, user, header) {
			assert.Equal(t, int64(7), user.ID)
		}
	}
}

func TestBearerAuth_Rejects(t *testing.T) {
	for _, header := range []string{"", "good", "Basic good", "Bearer", "Bearer ", "Bearer expired"} {
		rec, user := serve(header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"), header)
		assert.JSONEq(t, `{"error":"could not validate credentials"}`, rec.Body.String())
		assert.Nil(t, user)
	}
}

func TestBearerAuth_StoreFailureIs500(t *testing.T) {
	rec, user := serve("Bearer broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
	assert.Nil(t, user)
}

func TestUserFromContext_Missing(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
