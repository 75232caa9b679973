package rbac

import (
	"net/http"

	"dayflow/internal/shared/apperror"
	"dayflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) ListPolicies(c *gin.Context) {
	policies, err := h.service.ListPolicies()
	if err != nil {
		h.logger.Error("list policies failed", zap.Error(err))
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, policies, nil)
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	allowed, err := h.service.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		h.logger.Error("enforce failed", zap.Error(err))
		response.AbortWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

func (h *Handler) Reload(c *gin.Context) {
	if err := h.service.LoadPolicy(c.Request.Context()); err != nil {
		h.logger.Error("reload policy failed", zap.Error(err))
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reloaded": true}, nil)
}
