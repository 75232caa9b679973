package attendance

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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}

func (h *Handler) CheckIn(c *gin.Context) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req CheckInRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), p, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"attendance": resp,
		"message":    "Checked in successfully",
	}, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req CheckOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), p, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"attendance": resp,
		"work_hours": resp.WorkHours,
		"message":    "Checked out successfully",
	}, nil)
}

func (h *Handler) Mark(c *gin.Context) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	resp, created, err := h.service.Mark(c.Request.Context(), p, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{
		"attendance": resp,
		"message":    "Attendance marked successfully",
	}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	res, err := h.service.GetAll(c.Request.Context(), p, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(res.Total, res.Page, res.Limit)
	response.Success(c, http.StatusOK, gin.H{
		"attendance": res.Items,
		"summary":    res.Summary,
	}, &meta)
}
