// Package handler exposes the portal's REST API over gin.
package handler

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"chitkaraconnect/internal/account"
	"chitkaraconnect/internal/activity"
	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/attendance"
	"chitkaraconnect/internal/auth"
	"chitkaraconnect/internal/faq"
	"chitkaraconnect/internal/gatepass"
	"chitkaraconnect/internal/httpmiddleware"
	"chitkaraconnect/internal/notice"
	"chitkaraconnect/internal/performance"
	"chitkaraconnect/internal/query"
	"chitkaraconnect/internal/support"
	"chitkaraconnect/internal/syllabus"
)

// Services are the domain services behind the routes.
type Services struct {
	Accounts    *account.Service
	Gatepasses  *gatepass.Service
	Queries     *query.Service
	Attendance  *attendance.Service
	Notices     *notice.Service
	Syllabus    *syllabus.Service
	Support     *support.Service
	Performance *performance.Service
	Activity    activity.Store
	FAQ         []faq.Entry
}

// Options tune the auth surface.
type Options struct {
	CookieSecure bool
	// EnforceRoles turns on server-side role checks for role-specific routes.
	EnforceRoles bool
	// LoginLimiter, when set, applies to /api/login on top of any global limit.
	LoginLimiter httpmiddleware.Limiter
}

// Handler serves the API.
type Handler struct {
	svc    Services
	issuer *auth.Issuer
	opts   Options
}

// New creates a handler.
func New(svc Services, issuer *auth.Issuer, opts Options) *Handler {
	return &Handler{svc: svc, issuer: issuer, opts: opts}
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err under the "message" key. Internal errors are logged and
// replaced with fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	h.failKey(c, "message", err, fallback)
}

func (h *Handler) failKey(c *gin.Context, key string, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s failed: %v", httpmiddleware.RequestIDFrom(c), c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{key: apperr.Message(err, fallback)})
}

// actor identifies the caller from claims attached by the auth middleware.
func actor(c *gin.Context) activity.Actor {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return activity.Actor{}
	}
	return activity.Actor{Role: claims.Role, ID: claims.RoleID()}
}

// text accepts a JSON string or a bare number. Form fields such as phone
// numbers and ids arrive either way.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}
