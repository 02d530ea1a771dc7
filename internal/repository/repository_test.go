package repository

import (
	"testing"

	"github.com/softdesk/support-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Contributor{},
		&models.Issue{},
		&models.Comment{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, title string, authorID uint64) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:    title,
		Type:     models.ProjectTypeBackend,
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTestContributor(t *testing.T, db *gorm.DB, projectID, userID uint64) *models.Contributor {
	t.Helper()
	contributor := &models.Contributor{
		ProjectID: projectID,
		UserID:    userID,
	}
	require.NoError(t, db.Create(contributor).Error)
	return contributor
}

func createTestIssue(t *testing.T, db *gorm.DB, title string, projectID, authorID uint64) *models.Issue {
	t.Helper()
	issue := &models.Issue{
		Title:     title,
		Priority:  models.PriorityMedium,
		Tag:       models.TagTask,
		Status:    models.StatusTodo,
		ProjectID: projectID,
		AuthorID:  authorID,
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}

func createTestComment(t *testing.T, db *gorm.DB, issueID, authorID uint64) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Description: "a comment",
		IssueID:     issueID,
		AuthorID:    authorID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
