package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake store implementation of the handlers.UsersStore interface

type fakeUsersStore struct {
	listFn   func(ctx context.Context) ([]user.User, error)
	getFn    func(ctx context.Context, id int64) (user.User, error)
	createFn func(ctx context.Context, name, email, passwordHash string) (user.User, error)
	updateFn func(ctx context.Context, id int64, req user.UpdateUserRequest) error
	deleteFn func(ctx context.Context, id int64) error

	calls int
}

func (f *fakeUsersStore) List(ctx context.Context) ([]user.User, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

func (f *fakeUsersStore) GetByID(ctx context.Context, id int64) (user.User, error) {
	f.calls++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, nil
}

func (f *fakeUsersStore) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	f.calls++
	if f.createFn != nil {
		return f.createFn(ctx, name, email, passwordHash)
	}
	return user.User{}, nil
}

func (f *fakeUsersStore) Update(ctx context.Context, id int64, req user.UpdateUserRequest) error {
	f.calls++
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return nil
}

func (f *fakeUsersStore) Delete(ctx context.Context, id int64) error {
	f.calls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// small helper which returns a gin engine mounting one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func TestCreateUserHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
		wantStoreCalls int
	}{
		{
			name: "success",
			body: `{"name":"Ana","email":"ana@example.com","password":"secret123"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.createFn = func(ctx context.Context, name, email, passwordHash string) (user.User, error) {
					if passwordHash == "secret123" {
						return user.User{}, errors.New("plaintext reached the store")
					}
					return user.User{
						ID:           1,
						Name:         name,
						Email:        email,
						PasswordHash: passwordHash,
						CreatedAt:    now,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
			wantStoreCalls: 1,
		},
		{
			name:           "missing_email_rejected_before_store",
			body:           `{"name":"Ana","password":"secret123"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStoreCalls: 0,
		},
		{
			name:           "malformed_email_rejected_before_store",
			body:           `{"name":"Ana","email":"not-an-email","password":"secret123"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStoreCalls: 0,
		},
		{
			name:           "short_password_rejected_before_store",
			body:           `{"name":"Ana","email":"ana@example.com","password":"short"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStoreCalls: 0,
		},
		{
			name: "store_error",
			body: `{"name":"Ana","email":"ana@example.com","password":"secret123"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.createFn = func(ctx context.Context, name, email, passwordHash string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStoreCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeStore := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(fakeStore)
			}

			h := handlers.NewUsersHandler(fakeStore)

			r := setupRouter(http.MethodPost, "/api/addnew", h.CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/api/addnew", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if fakeStore.calls != tt.wantStoreCalls {
				t.Fatalf("got %d store calls, want %d", fakeStore.calls, tt.wantStoreCalls)
			}
		})
	}
}

func TestCreateUserResponseBody(t *testing.T) {
	now := time.Now().UTC()

	fakeStore := &fakeUsersStore{
		createFn: func(ctx context.Context, name, email, passwordHash string) (user.User, error) {
			return user.User{ID: 7, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now}, nil
		},
	}

	h := handlers.NewUsersHandler(fakeStore)
	r := setupRouter(http.MethodPost, "/api/addnew", h.CreateUser)

	body := `{"name":"Ana","email":"ana@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/addnew", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp["id"].(float64) != 7 {
		t.Fatalf("got id %v, want 7", resp["id"])
	}
	if resp["name"] != "Ana" || resp["email"] != "ana@example.com" {
		t.Fatalf("echoed fields mismatch: %v", resp)
	}

	// the stored hash must never appear in any response body
	for _, key := range []string{"password", "password_hash", "PasswordHash"} {
		if _, leaked := resp[key]; leaked {
			t.Fatalf("response leaks %q: %s", key, w.Body.String())
		}
	}
	if strings.Contains(w.Body.String(), "secret123") {
		t.Fatalf("response contains plaintext password: %s", w.Body.String())
	}
}

func TestGetUserByIDHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		url            string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/api/users/1",
			storeSetUp: func(f *fakeUsersStore) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{ID: id, Name: "Ana", Email: "ana@example.com", CreatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/api/users/42",
			storeSetUp: func(f *fakeUsersStore) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "non_numeric_id_is_not_found",
			url:            "/api/users/abc",
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "store_error",
			url:  "/api/users/1",
			storeSetUp: func(f *fakeUsersStore) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeStore := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(fakeStore)
			}

			h := handlers.NewUsersHandler(fakeStore)
			r := setupRouter(http.MethodGet, "/api/users/:id", h.GetUserByID)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusNotFound {
				var resp struct {
					Message string `json:"message"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Message != "User not found" {
					t.Fatalf("got message %q, want %q", resp.Message, "User not found")
				}
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Users user.User `json:"users"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Users.ID != 1 {
					t.Fatalf("got id %d, want 1", resp.Users.ID)
				}
			}
		})
	}
}

func TestListUsersHandler(t *testing.T) {
	now := time.Now().UTC()

	fakeStore := &fakeUsersStore{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{
				{ID: 1, Name: "Ana", Email: "ana@example.com", CreatedAt: now},
				{ID: 2, Name: "Ben", Email: "ben@example.com", CreatedAt: now},
			}, nil
		},
	}

	h := handlers.NewUsersHandler(fakeStore)
	r := setupRouter(http.MethodGet, "/api/users", h.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []user.User `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
}

func TestUpdateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
		wantMessage    string
		wantStoreCalls int
	}{
		{
			name: "success",
			url:  "/api/usersupdate/1",
			body: `{"name":"Ana B","email":"anab@example.com"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.updateFn = func(ctx context.Context, id int64, req user.UpdateUserRequest) error {
					if req.Name != "Ana B" || req.Email != "anab@example.com" {
						return errors.New("unexpected update payload")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "User successfully updated",
			wantStoreCalls: 1,
		},
		{
			name: "not_found",
			url:  "/api/usersupdate/42",
			body: `{"name":"Ana B","email":"anab@example.com"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.updateFn = func(ctx context.Context, id int64, req user.UpdateUserRequest) error {
					return user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
			wantStoreCalls: 1,
		},
		{
			name:           "validation_error_skips_store",
			url:            "/api/usersupdate/1",
			body:           `{"name":""}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStoreCalls: 0,
		},
		{
			name: "store_error",
			url:  "/api/usersupdate/1",
			body: `{"name":"Ana B","email":"anab@example.com"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.updateFn = func(ctx context.Context, id int64, req user.UpdateUserRequest) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStoreCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeStore := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(fakeStore)
			}

			h := handlers.NewUsersHandler(fakeStore)
			r := setupRouter(http.MethodPut, "/api/usersupdate/:id", h.UpdateUser)

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if fakeStore.calls != tt.wantStoreCalls {
				t.Fatalf("got %d store calls, want %d", fakeStore.calls, tt.wantStoreCalls)
			}

			if tt.wantMessage != "" {
				var resp struct {
					Message string `json:"message"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Message != tt.wantMessage {
					t.Fatalf("got message %q, want %q", resp.Message, tt.wantMessage)
				}
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "success",
			url:  "/api/usersdelete/1",
			storeSetUp: func(f *fakeUsersStore) {
				f.deleteFn = func(ctx context.Context, id int64) error {
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
			// the misspelling is part of the published contract
			wantMessage: "User succesfully deleted",
		},
		{
			name: "second_delete_is_not_found",
			url:  "/api/usersdelete/1",
			storeSetUp: func(f *fakeUsersStore) {
				f.deleteFn = func(ctx context.Context, id int64) error {
					return user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
		},
		{
			name:           "non_numeric_id_is_not_found",
			url:            "/api/usersdelete/abc",
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeStore := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(fakeStore)
			}

			h := handlers.NewUsersHandler(fakeStore)
			r := setupRouter(http.MethodDelete, "/api/usersdelete/:id", h.DeleteUser)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			var resp struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Message != tt.wantMessage {
				t.Fatalf("got message %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

// fake list cache for the read-through test

type fakeListCache struct {
	stored []user.User
	sets   int
}

func (c *fakeListCache) GetList(ctx context.Context) ([]user.User, error) {
	return c.stored, nil
}

func (c *fakeListCache) SetList(ctx context.Context, list []user.User) error {
	c.stored = list
	c.sets++
	return nil
}

func (c *fakeListCache) Invalidate(ctx context.Context) error {
	c.stored = nil
	return nil
}

func TestListUsersHandler_CacheHit(t *testing.T) {
	now := time.Now().UTC()

	fakeStore := &fakeUsersStore{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{{ID: 1, Name: "Ana", Email: "ana@example.com", CreatedAt: now}}, nil
		},
	}
	c := &fakeListCache{}

	h := handlers.NewUsersHandlerWithCache(fakeStore, c)
	r := setupRouter(http.MethodGet, "/api/users", h.ListUsers)

	// First request: cache miss -> store called
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if w1.Code != http.StatusOK {
		t.Fatalf("first call got %d body=%s", w1.Code, w1.Body.String())
	}

	// Second request: cache hit -> store should NOT be called again
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if w2.Code != http.StatusOK {
		t.Fatalf("second call got %d body=%s", w2.Code, w2.Body.String())
	}

	if fakeStore.calls != 1 {
		t.Fatalf("expected store calls=1, got %d", fakeStore.calls)
	}
}
