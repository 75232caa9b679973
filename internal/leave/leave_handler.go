package leave

import (
	"net/http"

	"dayflow/internal/identity"
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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" validation failed", zap.Error(err))
	appErr := apperror.MapValidationError(err)
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
}

func (h *Handler) principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return identity.Principal{}, false
	}
	return p, true
}

func (h *Handler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	h.logger.Debug("http create leave", zap.String("user_id", p.UserID))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "create leave", err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), p, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, LeaveMessageResponse{Leave: resp, Message: msgLeaveSubmitted}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, "list leaves", err)
		return
	}

	result, err := h.service.GetAll(c.Request.Context(), p, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(result.Total, result.Page, result.Limit)
	response.Success(c, http.StatusOK, result.Items, &meta)
}

func (h *Handler) GetPending(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetPending(c.Request.Context(), p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBalance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetBalance(c.Request.Context(), p, c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http approve leave", zap.String("leave_id", id), zap.String("actor_id", p.UserID))

	var req DecisionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeBindError(c, "approve leave", err)
		return
	}

	res, err := h.service.Approve(c.Request.Context(), p, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ApproveMessageResponse{
		Leave:               res.Leave,
		UpdatedLeaveBalance: res.UpdatedLeaveBalance,
		Message:             msgLeaveApproved,
	}, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http reject leave", zap.String("leave_id", id), zap.String("actor_id", p.UserID))

	var req DecisionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeBindError(c, "reject leave", err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), p, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LeaveMessageResponse{Leave: resp, Message: msgLeaveRejected}, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), p, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, MessageResponse{Message: msgLeaveDeleted}, nil)
}

// bindOptionalJSON accepts an empty body for decisions without comments.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
