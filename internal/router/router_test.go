package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/auth"
	"github.com/defectrack/defectrack/internal/middleware"
	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	db.DB = conn

	require.NoError(t, auth.SetJWTSecret("router-test-secret"))

	return &testServer{t: t, engine: NewRouter([]string{"http://localhost:3000"})}
}

func (s *testServer) user(username string, role types.Role, companyID uint) (models.User, string) {
	s.t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(s.t, err)

	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: hash, Role: role}
	if companyID != 0 {
		id := companyID
		user.CompanyID = &id
	}
	require.NoError(s.t, db.DB.Create(&user).Error)

	token, err := auth.GenerateJWT(user.ID, user.Username, user.Role)
	require.NoError(s.t, err)
	return user, token
}

func (s *testServer) company(name string) models.Company {
	s.t.Helper()
	company := models.Company{Name: name}
	require.NoError(s.t, db.DB.Create(&company).Error)
	return company
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRegisterTokenMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "eve",
		"email":    "eve@example.com",
		"password": "password123",
		"role":     "engineer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "eve",
		"email":    "eve2@example.com",
		"password": "password123",
		"role":     "engineer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/token", "", gin.H{"username": "eve", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	form := url.Values{"username": {"eve"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, w, &token)
	assert.Equal(t, "bearer", token.TokenType)

	w = s.do(http.MethodGet, "/api/auth/users/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me types.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "eve", me.Username)
	assert.Equal(t, types.RoleEngineer, me.Role)
	assert.Nil(t, me.CompanyID)

	w = s.do(http.MethodGet, "/api/auth/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	_, engineerToken := s.user("eve", types.RoleEngineer, 0)
	_, managerToken := s.user("mia", types.RoleManager, 0)

	w := s.do(http.MethodPost, "/api/company/create", engineerToken, gin.H{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/company/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/defect/my-defects", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/project/my-projects", engineerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompanyEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("root", types.RoleAdmin, 0)
	member, memberToken := s.user("mia", types.RoleManager, 0)
	_, strangerToken := s.user("oz", types.RoleManager, 0)

	w := s.do(http.MethodPost, "/api/company/create", adminToken, gin.H{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var company types.CompanyResponse
	decode(t, w, &company)
	assert.Equal(t, "Acme", company.Name)

	companyPath := "/api/company/" + itoa(company.ID)

	w = s.do(http.MethodPost, companyPath+"/users", adminToken, gin.H{"user_id": member.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, companyPath+"/users", adminToken, gin.H{"user_id": member.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorOf(t, w), "already a member")

	w = s.do(http.MethodPost, "/api/company/4242/users", adminToken, gin.H{"user_id": member.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/company/my-companies?company_id="+itoa(company.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail types.CompanyDetail
	decode(t, w, &detail)
	assert.Equal(t, "Acme", detail.Name)
	require.Len(t, detail.Managers, 1)
	assert.Equal(t, member.ID, detail.Managers[0].ID)

	w = s.do(http.MethodGet, "/api/company/my-companies?company_id="+itoa(company.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/company/my-companies", memberToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/company/all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []types.CompanyListEntry
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].UsersCount)

	w = s.do(http.MethodDelete, companyPath+"/users/"+itoa(member.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, companyPath, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, companyPath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/company/abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectAndDefectEndpoints(t *testing.T) {
	s := newTestServer(t)
	acme := s.company("Acme")
	_, adminToken := s.user("root", types.RoleAdmin, 0)
	_, managerToken := s.user("mia", types.RoleManager, acme.ID)
	e1, e1Token := s.user("eve", types.RoleEngineer, acme.ID)
	e2, _ := s.user("ed", types.RoleEngineer, acme.ID)

	w := s.do(http.MethodPost, "/api/project", managerToken, gin.H{"name": "P1", "company_id": acme.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project types.ProjectResponse
	decode(t, w, &project)
	projectPath := "/api/project/" + itoa(project.ID)

	w = s.do(http.MethodPost, projectPath+"/engineers", managerToken, gin.H{"engineer_ids": []uint{e1.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var added types.EngineersAdded
	decode(t, w, &added)
	assert.Equal(t, 1, added.AddedEngineersCount)

	w = s.do(http.MethodPost, projectPath+"/engineers", managerToken, gin.H{"engineer_ids": []uint{4242}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, errorOf(t, w), "4242")

	w = s.do(http.MethodPost, projectPath+"/engineers", managerToken, gin.H{"engineer_ids": []uint{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/defect", e1Token, gin.H{"name": "D1", "project_id": project.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var defect types.DefectResponse
	decode(t, w, &defect)
	require.NotNil(t, defect.EngineerID)
	assert.Equal(t, e1.ID, *defect.EngineerID)

	w = s.do(http.MethodGet, "/api/defect/my-defects?limit=5", e1Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var defects []types.DefectResponse
	decode(t, w, &defects)
	assert.Len(t, defects, 1)

	w = s.do(http.MethodGet, "/api/defect/my-defects?skip=-1", e1Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/defect/defects/"+itoa(defect.ID)+"/assign-engineer", adminToken, gin.H{"engineer_id": e2.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var assignment types.EngineerAssignment
	decode(t, w, &assignment)
	assert.Contains(t, assignment.Message, "changed")

	w = s.do(http.MethodGet, "/api/project/my-projects/"+itoa(project.ID), managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &project)
	require.Len(t, project.Defects, 1)
	assert.Equal(t, e2.ID, *project.Defects[0].EngineerID)

	w = s.do(http.MethodDelete, "/api/defect/"+itoa(defect.ID)+"/remove-engineer", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, "/api/defect/"+itoa(defect.ID)+"/remove-engineer", managerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, projectPath+"/manager", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, projectPath, managerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
