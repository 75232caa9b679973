package auth

import (
	"net/http"
	"time"

	"dayflow/internal/identity"
	"dayflow/internal/shared/apperror"
	platform "dayflow/internal/shared/request"
	"dayflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// CookieConfig controls the cookies handed to browser clients.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	service Service
	cookies CookieConfig
	logger  *zap.Logger
}

func NewHandler(s Service, cookies CookieConfig, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, cookies: cookies, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeTokens(c *gin.Context, pair TokenPair, user AuthResponse) {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	if platform.IsWebClient(clientType) {
		h.setCookie(c, accessCookie, pair.AccessToken, int(h.cookies.AccessTTL.Seconds()))
		h.setCookie(c, refreshCookie, pair.RefreshToken, int(h.cookies.RefreshTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	pair, user, err := h.service.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeTokens(c, pair, user)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))

	var refreshToken string
	if platform.IsWebClient(clientType) {
		v, err := c.Cookie(refreshCookie)
		if err != nil || v == "" {
			response.Error(c, http.StatusUnauthorized, "NO_REFRESH_TOKEN", "Missing refresh token", nil)
			return
		}
		refreshToken = v
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Refresh token is required", nil)
			return
		}
		refreshToken = req.RefreshToken
	}

	pair, user, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeTokens(c, pair, user)
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	userResp, err := h.service.GetMe(c.Request.Context(), p.UserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	p, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, appErr.Details)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), p, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"changed": true}, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, accessCookie, "", -1)
	h.setCookie(c, refreshCookie, "", -1)

	response.Success(c, http.StatusOK, "Logout success.", nil)
}
