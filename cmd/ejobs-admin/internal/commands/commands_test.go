package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/config"
	"github.com/justsurfingit/ejobs/internal/database"
	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/models"
)

// setup points the CLI at a fresh SQLite file, migrates it and returns a
// second connection for seeding and assertions.
func setup(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ejobs.sqlite")
	t.Setenv("EJOBS_DB_TYPE", config.SqliteDbType)
	t.Setenv("EJOBS_DB_DSN", dsn)
	t.Setenv("EJOBS_LOG_LEVEL", config.LogLevelError)
	t.Setenv("EJOBS_LOG_TYPE", config.LogTypeConsole)
	t.Setenv("EJOBS_ADMIN_PASSWORD", "")

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied")

	db, err := database.Connect(config.DatabaseSettings{Type: config.SqliteDbType, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seedEmployer(t *testing.T, db *gorm.DB, username, company string) *models.EmployerProfile {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: models.RoleEmployer, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	profile := &models.EmployerProfile{UserID: user.ID, CompanyName: company}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func TestCreateAdmin(t *testing.T) {
	db := setup(t)

	out, err := execute(t, "create-admin", "--username", "root", "--password", "password123", "--email", "root@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, `created admin "root"`)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "root").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = execute(t, "create-admin", "--username", "root", "--password", "password123")
	assert.Error(t, err, "duplicate username")

	_, err = execute(t, "create-admin", "--username", "other")
	assert.ErrorContains(t, err, "EJOBS_ADMIN_PASSWORD")

	t.Setenv("EJOBS_ADMIN_PASSWORD", "from-the-environment")
	_, err = execute(t, "create-admin", "--username", "other")
	assert.NoError(t, err)

	_, err = execute(t, "create-admin", "--password", "password123")
	assert.Error(t, err, "username flag is required")
}

func TestApproveEmployer(t *testing.T) {
	db := setup(t)
	profile := seedEmployer(t, db, "acme-owner", "Acme")

	out, err := execute(t, "approve-employer", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "approved employer 1 (Acme)")

	var stored models.EmployerProfile
	require.NoError(t, db.First(&stored, profile.ID).Error)
	assert.True(t, stored.IsApproved)

	_, err = execute(t, "approve-employer", "abc")
	assert.ErrorContains(t, err, "invalid employer id")

	_, err = execute(t, "approve-employer", "999")
	assert.Error(t, err)

	_, err = execute(t, "approve-employer")
	assert.Error(t, err)
}

func TestListJobPosts(t *testing.T) {
	db := setup(t)
	acme := seedEmployer(t, db, "acme-owner", "Acme")
	category := &models.JobCategory{Name: "Engineering", Active: true}
	require.NoError(t, db.Create(category).Error)
	for _, p := range []models.JobPost{
		{Title: "Backend Engineer", Status: models.JobStatusOpening, Location: "Hanoi"},
		{Title: "Frontend Engineer", Status: models.JobStatusClosed, Location: "Saigon"},
	} {
		p.EmployerID, p.CategoryID, p.Description, p.Active = acme.ID, category.ID, "desc", true
		require.NoError(t, db.Create(&p).Error)
	}

	out, err := execute(t, "list-jobposts")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Frontend Engineer")
	assert.Contains(t, out, "2 job posts in total")
	assert.Regexp(t, `Backend Engineer\s+Acme\s+OPENING\s+false\s+true`, out)
	assert.Regexp(t, `Frontend Engineer\s+Acme\s+CLOSED\s+false\s+false`, out)

	out, err = execute(t, "list-jobposts", "--status", models.JobStatusClosed, "--q", "acme")
	require.NoError(t, err)
	assert.NotContains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Frontend Engineer")
	assert.Contains(t, out, "Acme")

	out, err = execute(t, "list-jobposts", "--location", "hanoi", "--featured=false")
	require.NoError(t, err)
	assert.Contains(t, out, "1 job posts in total")

	_, err = execute(t, "list-jobposts", "--status", "DRAFT")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	db := setup(t)
	seedEmployer(t, db, "acme-owner", "Acme")

	out, err := execute(t, "stats")
	require.NoError(t, err)

	var report dtos.StatsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []dtos.UserStat{{Role: models.RoleEmployer, Total: 1}}, report.UserStats)
	assert.Empty(t, report.RevenueStats)
}
