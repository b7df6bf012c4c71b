package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/redmonkez12/account-api/internal/httputil"
	"github.com/redmonkez12/account-api/internal/logging"
)

// Handler contains HTTP handlers for the administrative user endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BulkRequest is the body shared by block, unblock and delete
type BulkRequest struct {
	UserIDs []int64 `json:"userIds"`
}

// Block handles bulk blocking
// @Summary      Block users
// @Description  Set status=blocked on every listed user. Blocked users cannot log in.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest true "User IDs"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid input"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/block [post]
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "block", "Users blocked successfully", h.service.Block)
}

// Unblock handles bulk unblocking
// @Summary      Unblock users
// @Description  Set status=active on every listed user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest true "User IDs"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid input"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/unblock [post]
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "unblock", "Users unblocked successfully", h.service.Unblock)
}

// Delete handles bulk deletion
// @Summary      Delete users
// @Description  Permanently remove every listed user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest true "User IDs"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid input"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/delete [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "delete", "Users deleted successfully", h.service.Delete)
}

// List handles listing all users
// @Summary      List users
// @Description  Return every account. Password hashes are never included.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  User
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("list users failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, users, http.StatusOK)
}

type bulkFunc func(ctx context.Context, ids []int64) (int64, error)

func (h *Handler) bulk(w http.ResponseWriter, r *http.Request, action, message string, op bulkFunc) {
	logger := logging.GetLoggerFromContext(r.Context()).WithFields(map[string]any{"action": action})

	var req BulkRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid bulk request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid input: user IDs should be an array.", httputil.CodeInvalidInput, http.StatusBadRequest)
		return
	}

	count, err := op(r.Context(), req.UserIDs)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			logger.Warn("bulk operation rejected", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidInput, http.StatusBadRequest)
			return
		}
		logger.Error("bulk operation failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to "+action+" users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("bulk operation completed", "requested", len(req.UserIDs), "affected", count)

	httputil.RespondJSON(w, httputil.MessageResponse{Message: message, Count: count}, http.StatusOK)
}
