package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/logger"
)

func setupMockIdentity(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer service-key" || r.Header.Get("apikey") != "service-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return New(server.URL+"/", "service-key", server.Client(), logger.Nop())
}

func TestListUsers(t *testing.T) {
	client := setupMockIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/admin/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[
			{"id":"u1","email":"a@example.com","app_metadata":{"provider":"google"},
			 "user_metadata":{"full_name":"A"},"created_at":"2026-01-02T03:04:05Z"},
			{"id":"u2","email":"b@example.com","phone":"+7700","app_metadata":{"provider":"email"},
			 "created_at":"2026-01-03T00:00:00Z","last_sign_in_at":"2026-02-01T00:00:00Z"}
		]}`))
	})

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "google", users[0].Provider)
	assert.Equal(t, "A", users[0].MetaString("full_name"))
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), users[0].CreatedAt)
	assert.Nil(t, users[0].LastSignInAt)

	assert.Equal(t, "+7700", users[1].Phone)
	require.NotNil(t, users[1].LastSignInAt)
}

func TestDeleteUser(t *testing.T) {
	var deleted string
	client := setupMockIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/admin/users/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"msg":"User not found"}`))
			return
		}
		deleted = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, client.DeleteUser(context.Background(), "u1"))
	assert.Equal(t, "/admin/users/u1", deleted)

	err := client.DeleteUser(context.Background(), "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateUserMetadata(t *testing.T) {
	client := setupMockIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req updateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doctor", req.UserMetadata["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(remoteUser{
			ID:           "u1",
			Email:        "a@example.com",
			UserMetadata: req.UserMetadata,
		})
	})

	acc, err := client.UpdateUserMetadata(context.Background(), "u1", map[string]any{"role": "doctor"})
	require.NoError(t, err)
	assert.Equal(t, "doctor", acc.MetaString("role"))
}

func TestServerErrorIsUnavailable(t *testing.T) {
	client := setupMockIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListUsers(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable))
	assert.True(t, apperr.Degradable(err))
}

func TestUnreachableIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(url, "service-key", nil, logger.Nop())
	_, err := client.ListUsers(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}

func TestDeadlineIsTimeout(t *testing.T) {
	client := setupMockIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListUsers(ctx)
	assert.True(t, apperr.IsKind(err, apperr.KindTimeout))
}

func TestBadServiceKeyIsSystemError(t *testing.T) {
	client := setupMockIdentity(t, func(w http.ResponseWriter, r *http.Request) {})
	client.serviceKey = "wrong"

	_, err := client.ListUsers(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindSystem))
}
