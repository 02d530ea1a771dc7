package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/softdesk/support-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGormUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	victim := createTestUser(t, db, "victim")
	other := createTestUser(t, db, "other")

	// Project authored by the victim, with the other user on board.
	authored := createTestProject(t, db, "Victim's project", victim.ID)
	createTestContributor(t, db, authored.ID, victim.ID)
	createTestContributor(t, db, authored.ID, other.ID)
	authoredIssue := createTestIssue(t, db, "Issue in victim's project", authored.ID, other.ID)
	createTestComment(t, db, authoredIssue.ID, other.ID)

	// Project of the other user, where the victim contributed content and is
	// assigned an issue.
	foreign := createTestProject(t, db, "Other's project", other.ID)
	createTestContributor(t, db, foreign.ID, victim.ID)
	victimIssue := createTestIssue(t, db, "Victim's issue", foreign.ID, victim.ID)
	createTestComment(t, db, victimIssue.ID, victim.ID)

	surviving := createTestIssue(t, db, "Assigned to victim", foreign.ID, other.ID)
	require.NoError(t, db.Model(surviving).Update("assignee_id", victim.ID).Error)

	require.NoError(t, repo.Delete(victim.ID))

	// The account and everything it authored is gone.
	var count int64
	db.Model(&models.User{}).Where("id = ?", victim.ID).Count(&count)
	require.Zero(t, count)
	db.Model(&models.Project{}).Where("id = ?", authored.ID).Count(&count)
	require.Zero(t, count)
	db.Model(&models.Issue{}).Where("project_id = ?", authored.ID).Count(&count)
	require.Zero(t, count)
	db.Model(&models.Issue{}).Where("id = ?", victimIssue.ID).Count(&count)
	require.Zero(t, count)
	db.Model(&models.Comment{}).Where("author_id = ?", victim.ID).Count(&count)
	require.Zero(t, count)
	db.Model(&models.Contributor{}).Where("user_id = ?", victim.ID).Count(&count)
	require.Zero(t, count)

	// The foreign project survives, with the assignment cleared.
	db.Model(&models.Project{}).Where("id = ?", foreign.ID).Count(&count)
	require.Equal(t, int64(1), count)

	var kept models.Issue
	require.NoError(t, db.First(&kept, surviving.ID).Error)
	require.Nil(t, kept.AssigneeID)
}

func TestGormUserRepository_TouchedProjectIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, db, "user")
	other := createTestUser(t, db, "other")

	// One project per way the user can leave a trace.
	authored := createTestProject(t, db, "Authored", user.ID)
	joined := createTestProject(t, db, "Joined", other.ID)
	createTestContributor(t, db, joined.ID, user.ID)
	issueHome := createTestProject(t, db, "Issue home", other.ID)
	createTestIssue(t, db, "User's issue", issueHome.ID, user.ID)
	commentHome := createTestProject(t, db, "Comment home", other.ID)
	commented := createTestIssue(t, db, "Other's issue", commentHome.ID, other.ID)
	createTestComment(t, db, commented.ID, user.ID)

	// A second trace in an already counted project must not duplicate it.
	createTestIssue(t, db, "Another issue", issueHome.ID, user.ID)

	// A project without any trace stays out.
	createTestProject(t, db, "Untouched", other.ID)

	ids, err := repo.TouchedProjectIDs(user.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{authored.ID, joined.ID, issueHome.ID, commentHome.ID}, ids)
}

func TestGormUserRepository_FindByUsernameQuery(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
		AddRow(uint64(1), "alice", "alice@example.com", "hash")
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `users` WHERE username = ? ORDER BY `users`.`id` LIMIT ?")).
		WithArgs("alice", 1).
		WillReturnRows(rows)

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	require.Equal(t, uint64(1), user.ID)
	require.Equal(t, "alice", user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}
