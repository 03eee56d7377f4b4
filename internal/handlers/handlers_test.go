package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/notifier"
	"github.com/yukikurage/task-tracker-api/internal/realtime"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/storage"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"gopkg.in/mail.v2"
	"gorm.io/gorm"
)

// stubDialer records messages instead of talking to an SMTP server
type stubDialer struct {
	mu   sync.Mutex
	err  error
	sent []*mail.Message
}

func (d *stubDialer) DialAndSend(m ...*mail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func (d *stubDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

// handlerEnv wires real services over an in-memory database
type handlerEnv struct {
	db       *gorm.DB
	tokens   *auth.TokenManager
	denylist *auth.MemoryDenylist
	store    *storage.LocalStore
	dialer   *stubDialer
	hub      *realtime.Hub

	authService      *services.AuthService
	userService      *services.UserService
	taskService      *services.TaskService
	courierService   *services.CourierService
	dashboardService *services.DashboardService
	reportService    *services.ReportService

	admin     *models.User
	employee  *models.User
	colleague *models.User
}

func setupHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewInMemoryDB(t)

	store, err := storage.NewLocalStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	env := &handlerEnv{
		db:       db,
		tokens:   auth.NewTokenManager("handler-secret", "task-tracker-test", time.Hour),
		denylist: auth.NewMemoryDenylist(),
		store:    store,
		dialer:   &stubDialer{},
		hub:      realtime.NewHub(),
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	updateRepo := repository.NewTaskUpdateRepository(db)

	mailer := notifier.NewMailNotifierWithDialer(notifier.Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		From:     "tasks@example.com",
		AppURL:   "http://localhost:3000",
	}, env.dialer)

	env.userService = services.NewUserService(userRepo)
	env.authService = services.NewAuthService(userRepo, env.userService, env.tokens, env.denylist)
	env.taskService = services.NewTaskService(taskRepo, updateRepo, userRepo, env.hub)
	env.courierService = services.NewCourierService(repository.NewCourierRepository(db))
	env.dashboardService = services.NewDashboardService(taskRepo, userRepo)
	env.reportService = services.NewReportService(taskRepo, updateRepo, userRepo, mailer)

	env.admin = testutil.CreateUser(t, db, "admin", models.RoleAdministrator)
	env.employee = testutil.CreateUser(t, db, "employee", models.RoleEmployee)
	env.colleague = testutil.CreateUser(t, db, "colleague", models.RoleEmployee)
	return env
}

// authContext builds a context as RequireAuth would leave it. A nil user
// yields an unauthenticated request.
func authContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyRole, user.Role)
	}
	return c, w
}

func withParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}
