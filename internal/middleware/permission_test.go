package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/database/testutil"
	"github.com/ardiansyah/workforce/internal/models"
)

func newPermissionRouter(t *testing.T) (*gin.Engine, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	perm := models.Permission{Name: "view_shifts", DisplayName: "View Shifts", Group: "shifts", IsActive: true}
	require.NoError(t, db.Create(&perm).Error)
	role := models.Role{Name: "viewer", IsActive: true, Permissions: []models.Permission{perm}}
	require.NoError(t, db.Create(&role).Error)
	user := models.User{Name: "Ana", Email: "mw@example.com", Password: "x", IsActive: true, RoleID: &role.ID}
	require.NoError(t, db.Create(&user).Error)

	checker, err := access.NewChecker(db)
	require.NoError(t, err)
	r := gin.New()
	r.GET("/shifts",
		func(c *gin.Context) {
			if uid := c.Query("as"); uid != "" {
				c.Set(CtxUserIDKey, uid)
			}
			c.Next()
		},
		RequirePermission(checker, "view_shifts"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r, &user
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	r, _ := newPermissionRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/shifts", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermissionAllowed(t *testing.T) {
	r, user := newPermissionRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/shifts?as="+user.ID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDeniedForUnknownUser(t *testing.T) {
	r, _ := newPermissionRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/shifts?as=not-a-user", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
