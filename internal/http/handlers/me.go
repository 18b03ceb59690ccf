package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// MeHandler serves GET /api/user: the authenticated principal. It sits
// behind the JWT middleware and is independent of the CRUD flow.
type MeHandler struct {
	store UsersStore
}

func NewMeHandler(store UsersStore) *MeHandler {
	return &MeHandler{store: store}
}

func (h *MeHandler) CurrentUser(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Unauthenticated.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "Unauthenticated.")
			return
		}
		RespondServerError(ctx, "Something went wrong", err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}
