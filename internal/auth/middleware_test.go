package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(iss *Issuer, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "role": claims.Role})
	})
	r.GET("/x", handlers...)
	return r
}

func TestCookieAuth(t *testing.T) {
	iss := NewIssuer("secret", "chitkara-connect", time.Hour, nil)
	tok, _, err := iss.Issue(studentClaims())
	require.NoError(t, err)
	r := newRouter(iss, CookieAuth(iss))

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"bad cookie", "nope", http.StatusForbidden},
		{"good cookie", tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	iss := NewIssuer("secret", "chitkara-connect", time.Hour, nil)
	studentTok, _, err := iss.Issue(studentClaims())
	require.NoError(t, err)
	teacherTok, _, err := iss.Issue(Claims{UserID: "t1", Role: RoleTeacher, TeacherID: 501})
	require.NoError(t, err)

	enforced := newRouter(iss, RequireRole(true, iss, RoleTeacher, RoleAdmin))
	open := newRouter(iss, RequireRole(false, iss, RoleTeacher))

	tests := []struct {
		name   string
		router *gin.Engine
		bearer string
		want   int
	}{
		{"enforced no token", enforced, "", http.StatusUnauthorized},
		{"enforced bad token", enforced, "junk", http.StatusUnauthorized},
		{"enforced wrong role", enforced, studentTok, http.StatusForbidden},
		{"enforced right role", enforced, teacherTok, http.StatusOK},
		{"not enforced", open, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			tt.router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestIdentifyReadsCookieOrBearer(t *testing.T) {
	iss := NewIssuer("secret", "chitkara-connect", time.Hour, nil)
	tok, _, err := iss.Issue(studentClaims())
	require.NoError(t, err)
	r := newRouter(iss, Identify(iss))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"ok":true,"role":"student"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "bearer junk")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"role":""}`, rec.Body.String())
}
