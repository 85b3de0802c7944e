package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/placementcell/internal/api/handlers"
	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/security"
)

func newRouter() (*gin.Engine, Deps) {
	gin.SetMode(gin.TestMode)
	d := Deps{
		StudentTokens: security.NewTokenManager("student-secret", "placementcell", security.AudienceStudent, time.Hour),
		AdminTokens:   security.NewTokenManager("admin-secret", "placementcell", security.AudienceAdmin, time.Hour),
		Auth:          handlers.NewAuthHandler(nil),
		Jobs:          handlers.NewJobHandler(nil, nil),
		Applications:  handlers.NewApplicationHandler(nil),
		Resumes:       handlers.NewResumeHandler(nil),
		Students:      handlers.NewStudentHandler(nil),
		Dashboard:     handlers.NewDashboardHandler(nil),
		Events:        handlers.NewEventHandler(nil),
	}
	r := gin.New()
	RegisterRoutes(r, d)
	return r, d
}

func serve(r http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestPing(t *testing.T) {
	r, _ := newRouter()
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", ""))
}

func TestPortalsRequireMatchingToken(t *testing.T) {
	r, d := newRouter()
	studentTok, _, err := d.StudentTokens.Issue("stu-1", string(models.RoleStudent), "")
	require.NoError(t, err)
	adminTok, _, err := d.AdminTokens.Issue("adm-1", string(models.RoleAdmin), "")
	require.NoError(t, err)

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/student/dashboard"},
		{http.MethodGet, "/student/jobs"},
		{http.MethodPost, "/student/resumes/upload"},
		{http.MethodGet, "/student/applications/stats"},
	}
	for _, tc := range cases {
		assert.Equal(t, http.StatusUnauthorized, serve(r, tc.method, tc.path, ""), tc.path)
		assert.Equal(t, http.StatusUnauthorized, serve(r, tc.method, tc.path, adminTok), tc.path)
	}

	admin := []struct {
		method, path string
	}{
		{http.MethodPost, "/placement-cell/jobs"},
		{http.MethodGet, "/placement-cell/students"},
		{http.MethodPatch, "/placement-cell/applications/a1/status"},
	}
	for _, tc := range admin {
		assert.Equal(t, http.StatusUnauthorized, serve(r, tc.method, tc.path, ""), tc.path)
		assert.Equal(t, http.StatusUnauthorized, serve(r, tc.method, tc.path, studentTok), tc.path)
	}
}
