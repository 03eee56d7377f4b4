package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

type stubUsers map[uint64]*models.User

func (s stubUsers) GetUser(id uint64) (*models.User, error) {
	user, ok := s[id]
	if !ok {
		return nil, &apierrors.NotFoundError{Resource: "user"}
	}
	return user, nil
}

type brokenDenylist struct{}

func (brokenDenylist) Revoke(context.Context, string, time.Time) error { return nil }
func (brokenDenylist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type stubAccess struct {
	allowed map[uint64]bool
}

func (s stubAccess) CheckAccess(taskID uint64, actor auth.Actor) error {
	if actor.IsAdministrator() || s.allowed[taskID] {
		return nil
	}
	return &apierrors.AuthorizationError{Message: "not assigned to this task"}
}

func setup(t *testing.T) (*auth.TokenManager, *auth.MemoryDenylist, stubUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := stubUsers{
		1: {ID: 1, Username: "admin", Role: models.RoleAdministrator, IsActive: true},
		2: {ID: 2, Username: "employee", Role: models.RoleEmployee, IsActive: true},
		3: {ID: 3, Username: "former", Role: models.RoleEmployee, IsActive: false},
	}
	return auth.NewTokenManager("secret", "test", time.Hour), auth.NewMemoryDenylist(), users
}

func issue(t *testing.T, tokens *auth.TokenManager, userID uint64, role models.Role) *auth.IssuedToken {
	t.Helper()
	issued, err := tokens.Generate(userID, string(role))
	require.NoError(t, err)
	return issued
}

func TestRequireAuth(t *testing.T) {
	tokens, denylist, users := setup(t)

	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, denylist, users), func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		tokenID, expires, ok := GetToken(c)
		require.True(t, ok)
		assert.NotEmpty(t, tokenID)
		assert.False(t, expires.IsZero())
		c.String(http.StatusOK, string(actor.Role))
	})

	employeeToken := issue(t, tokens, 2, models.RoleEmployee)
	revokedToken := issue(t, tokens, 2, models.RoleEmployee)
	require.NoError(t, denylist.Revoke(context.Background(), revokedToken.ID, revokedToken.ExpiresAt))

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed", "Bearer not-a-token", "", http.StatusUnauthorized},
		{"valid header", "Bearer " + employeeToken.Token, "", http.StatusOK},
		{"valid query", "", employeeToken.Token, http.StatusOK},
		{"revoked", "Bearer " + revokedToken.Token, "", http.StatusUnauthorized},
		{"inactive", "Bearer " + issue(t, tokens, 3, models.RoleEmployee).Token, "", http.StatusUnauthorized},
		{"unknown user", "Bearer " + issue(t, tokens, 99, models.RoleEmployee).Token, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/protected"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAuth_RoleFromStore(t *testing.T) {
	tokens, denylist, users := setup(t)

	r := gin.New()
	r.GET("/whoami", RequireAuth(tokens, denylist, users), func(c *gin.Context) {
		role, _ := GetRole(c)
		c.String(http.StatusOK, string(role))
	})

	// token claims Administrator but the account is an Employee
	token := issue(t, tokens, 2, models.RoleAdministrator)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.RoleEmployee), w.Body.String())
}

func TestRequireAuth_DenylistUnavailable(t *testing.T) {
	tokens, _, users := setup(t)

	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, brokenDenylist{}, users), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, 1, models.RoleAdministrator).Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireRole(t *testing.T) {
	tokens, denylist, users := setup(t)

	r := gin.New()
	r.Use(RequireAuth(tokens, denylist, users))
	r.GET("/admin", RequireAdministrator(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tt := range []struct {
		name   string
		userID uint64
		role   models.Role
		status int
	}{
		{"administrator", 1, models.RoleAdministrator, http.StatusOK},
		{"employee", 2, models.RoleEmployee, http.StatusForbidden},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+issue(t, tokens, tt.userID, tt.role).Token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireTaskAccess(t *testing.T) {
	tokens, denylist, users := setup(t)
	checker := stubAccess{allowed: map[uint64]bool{7: true}}

	r := gin.New()
	r.Use(RequireAuth(tokens, denylist, users))
	r.GET("/tasks/:id", RequireTaskAccess(checker, "id"), func(c *gin.Context) {
		id, ok := GetTaskID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	employee := issue(t, tokens, 2, models.RoleEmployee).Token
	admin := issue(t, tokens, 1, models.RoleAdministrator).Token

	for _, tt := range []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"assigned", employee, "/tasks/7", http.StatusOK},
		{"not assigned", employee, "/tasks/8", http.StatusForbidden},
		{"admin", admin, "/tasks/8", http.StatusOK},
		{"bad id", admin, "/tasks/abc", http.StatusBadRequest},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/login", RateLimit(1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
