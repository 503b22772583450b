package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"chitkaraconnect/internal/account"
	"chitkaraconnect/internal/activity"
	"chitkaraconnect/internal/attendance"
	"chitkaraconnect/internal/auth"
	"chitkaraconnect/internal/faq"
	"chitkaraconnect/internal/gatepass"
	"chitkaraconnect/internal/httpmiddleware"
	"chitkaraconnect/internal/notice"
	"chitkaraconnect/internal/performance"
	"chitkaraconnect/internal/query"
	"chitkaraconnect/internal/queue"
	"chitkaraconnect/internal/store"
	"chitkaraconnect/internal/support"
	"chitkaraconnect/internal/syllabus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testConfig struct {
	enforce bool
	strict  bool
	login   httpmiddleware.Limiter
}

type server struct {
	t        *testing.T
	router   *gin.Engine
	activity *activity.MemoryStore
	perf     *store.MemoryDocs
}

func newServer(t *testing.T, cfg testConfig) *server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	accounts := account.NewMemoryStore()
	accounts.Add(account.Student, bson.M{"RollNo": int32(2021001), "password": int32(1234), "name": "Asha", "email": "asha@example.edu", "group": "G7"})
	accounts.Add(account.Teacher, bson.M{"teacherId": int32(501), "password": int32(1111), "name": "Dr. Rao", "email": "rao@example.edu"})
	accounts.Add(account.Admin, bson.M{"adminId": int32(9001), "password": int32(4242), "name": "Root", "email": "root@example.edu"})

	q := queue.NewInMemory(64)
	acts := activity.NewMemoryStore()
	go func() { _ = activity.Consume(ctx, q, acts) }()
	pub := activity.NewPublisher(q)

	perf := store.NewMemoryDocs()
	issuer := auth.NewIssuer("test-secret", "chitkaraconnect", time.Hour, auth.NewMemoryDenylist("test-secret"))
	h := New(Services{
		Accounts:    account.NewService(accounts, true),
		Gatepasses:  gatepass.NewService(gatepass.NewMemoryStore(), pub, cfg.strict),
		Queries:     query.NewService(query.NewMemoryStore(), pub),
		Attendance:  attendance.NewService(attendance.NewMemoryRepository(), pub),
		Notices:     notice.NewService(store.NewMemoryDocs()),
		Syllabus:    syllabus.NewService(store.NewMemoryDocs()),
		Support:     support.NewService(store.NewMemoryDocs()),
		Performance: performance.NewService(perf),
		Activity:    acts,
		FAQ:         faq.MustLoad(),
	}, issuer, Options{EnforceRoles: cfg.enforce, LoginLimiter: cfg.login})

	r := gin.New()
	r.Use(httpmiddleware.RequestID())
	h.Register(r)
	return &server{t: t, router: r, activity: acts, perf: perf}
}

type call struct {
	method string
	path   string
	body   any
	token  string
	cookie string
}

func (s *server) do(c call) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		if raw, ok := c.body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(s.t, json.NewEncoder(&buf).Encode(c.body))
		}
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.cookie})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) login(userID, password any) string {
	s.t.Helper()
	w := s.do(call{method: http.MethodPost, path: "/api/login", body: gin.H{"userId": userID, "password": password}})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
