package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	Update(ctx context.Context, id int64, req user.UpdateUserRequest) error
	Delete(ctx context.Context, id int64) error
}

// ListCache is the read-through cache for the full users list. May be
// nil when redis is not configured.
type ListCache interface {
	GetList(ctx context.Context) ([]user.User, error)
	SetList(ctx context.Context, list []user.User) error
	Invalidate(ctx context.Context) error
}

type UsersHandler struct {
	store UsersStore
	cache ListCache
}

func NewUsersHandler(store UsersStore) *UsersHandler {
	return &UsersHandler{store: store}
}

func NewUsersHandlerWithCache(store UsersStore, cache ListCache) *UsersHandler {
	return &UsersHandler{store: store, cache: cache}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if h.cache != nil {
		cached, err := h.cache.GetList(cctx)

		if err == nil && cached != nil {
			ctx.JSON(http.StatusOK, gin.H{"results": cached})
			return
		}
	}

	users, err := h.store.List(cctx)

	if err != nil {
		RespondServerError(ctx, "Something went wrong", err)
		return
	}

	if h.cache != nil {
		_ = h.cache.SetList(cctx, users)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"results": users,
	})
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id, ok := parseID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondServerError(ctx, "Something went wrong", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": u,
	})
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	// validation runs before any mutation; invalid input never reaches
	// the store
	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondServerError(ctx, "User creation failed", err)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.store.Create(cctx, req.Name, req.Email, hash)

	if err != nil {
		RespondServerError(ctx, "User creation failed", err)
		return
	}

	h.invalidate(cctx)

	// the hash is stripped by serialization, not by handler logic
	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := parseID(ctx)

	if !ok {
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.store.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondServerError(ctx, "Something went wrong", err)
		return
	}

	h.invalidate(cctx)

	RespondMessage(ctx, http.StatusOK, "User successfully updated")
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondServerError(ctx, "Something went wrong", err)
		return
	}

	h.invalidate(cctx)

	// the message spelling is part of the published contract
	RespondMessage(ctx, http.StatusOK, "User succesfully deleted")
}

// parseID reads the :id path param. A non-numeric id behaves like an
// absent row, matching lookups by primary key.
func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondNotFound(ctx, "User not found")
		return 0, false
	}

	return id, true
}

func (h *UsersHandler) invalidate(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.Invalidate(ctx)
	}
}
