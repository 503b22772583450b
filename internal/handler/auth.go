package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chitkaraconnect/internal/account"
	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/auth"
	"chitkaraconnect/internal/metrics"
	"chitkaraconnect/internal/numeric"
)

func (h *Handler) login(c *gin.Context) {
	var req struct {
		UserID   numeric.Int `json:"userId"`
		Password numeric.Int `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.UserID.Valid || !req.Password.Valid {
		metrics.LoginAttempts.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid userId or password format"})
		return
	}

	acc, err := h.svc.Accounts.Authenticate(c.Request.Context(), req.UserID.Value, req.Password.Value)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginAttempts.WithLabelValues("error").Inc()
		}
		h.fail(c, err, "Server error")
		return
	}

	token, _, err := h.issuer.Issue(acc.Claims())
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		h.fail(c, err, "Server error")
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	c.SetCookie(auth.CookieName, token, int(h.issuer.TTL.Seconds()), "/", "", h.opts.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "role": acc.Role})
}

func (h *Handler) logout(c *gin.Context) {
	if tok := auth.RequestToken(c); tok != "" {
		if err := h.issuer.Revoke(c.Request.Context(), tok); err != nil {
			h.fail(c, err, "Server error")
			return
		}
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.opts.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) decode(c *gin.Context, token string) {
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token", "error": "token required"})
		return
	}
	claims, err := h.issuer.Verify(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token decoded successfully", "decoded": claims})
}

func (h *Handler) decodePathToken(c *gin.Context) {
	h.decode(c, c.Param("token"))
}

func (h *Handler) decodeRequestToken(c *gin.Context) {
	h.decode(c, auth.RequestToken(c))
}

func (h *Handler) userDetails(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	role, ok := account.ParseRole(claims.Role)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	details, err := h.svc.Accounts.Details(c.Request.Context(), role, claims.UserID)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, details)
}
