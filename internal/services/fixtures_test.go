package services

import (
	"context"
	"testing"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: newTestDB(t)}
}

func (f *fixture) company(name string) models.Company {
	f.t.Helper()
	company := models.Company{Name: name}
	require.NoError(f.t, f.db.Create(&company).Error)
	return company
}

// user creates a user with the given role, affiliated with companyID when it
// is non-zero.
func (f *fixture) user(username string, role types.Role, companyID uint) models.User {
	f.t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	if companyID != 0 {
		id := companyID
		user.CompanyID = &id
	}
	require.NoError(f.t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) project(name string, companyID uint, manager *models.User) models.Project {
	f.t.Helper()
	project := models.Project{Name: name, CompanyID: companyID}
	if manager != nil {
		id := manager.ID
		project.ManagerID = &id
	}
	require.NoError(f.t, f.db.Create(&project).Error)
	return project
}

func (f *fixture) roster(projectID uint, engineers ...models.User) {
	f.t.Helper()
	for _, engineer := range engineers {
		require.NoError(f.t, f.db.Create(&models.ProjectEngineer{ProjectID: projectID, UserID: engineer.ID}).Error)
	}
}

func (f *fixture) defect(name string, projectID uint, engineer *models.User) models.Defect {
	f.t.Helper()
	defect := models.Defect{Name: name, ProjectID: projectID}
	if engineer != nil {
		id := engineer.ID
		defect.EngineerID = &id
	}
	require.NoError(f.t, f.db.Create(&defect).Error)
	return defect
}

// actor reloads the user so that membership changes are reflected.
func (f *fixture) actor(user models.User) types.Actor {
	f.t.Helper()
	var fresh models.User
	require.NoError(f.t, f.db.First(&fresh, user.ID).Error)
	return fresh.Actor()
}

func (f *fixture) reloadUser(id uint) models.User {
	f.t.Helper()
	var user models.User
	require.NoError(f.t, f.db.First(&user, id).Error)
	return user
}

func (f *fixture) reloadProject(id uint) models.Project {
	f.t.Helper()
	var project models.Project
	require.NoError(f.t, f.db.First(&project, id).Error)
	return project
}

func (f *fixture) reloadDefect(id uint) models.Defect {
	f.t.Helper()
	var defect models.Defect
	require.NoError(f.t, f.db.First(&defect, id).Error)
	return defect
}

func (f *fixture) rosterOf(projectID uint) []uint {
	f.t.Helper()
	var ids []uint
	require.NoError(f.t, f.db.Model(&models.ProjectEngineer{}).Where("project_id = ?", projectID).Order("user_id").Pluck("user_id", &ids).Error)
	return ids
}

func (f *fixture) count(model interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func adminActor() types.Actor {
	return types.Actor{ID: 9999, Role: types.RoleAdmin}
}

var ctx = context.Background()
