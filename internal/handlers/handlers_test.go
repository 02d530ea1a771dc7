package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/softdesk/support-api/internal/cache"
	"github.com/softdesk/support-api/internal/constants"
	"github.com/softdesk/support-api/internal/models"
	"github.com/softdesk/support-api/internal/repository"
	"github.com/softdesk/support-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the full stack against in-memory sqlite and miniredis.
type testEnv struct {
	db    *gorm.DB
	redis *miniredis.Miniredis

	projectHandler     *ProjectHandler
	contributorHandler *ContributorHandler
	issueHandler       *IssueHandler
	commentHandler     *CommentHandler
	userHandler        *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	mr := miniredis.RunT(t)
	client := cache.NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		client.Close()
	})

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	contributorRepo := repository.NewContributorRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	resolver := repository.NewResolver(db)

	lists := cache.NewListCache(client, constants.ListCacheTTL)
	invalidator := cache.NewInvalidator(client, resolver)

	return &testEnv{
		db:    db,
		redis: mr,
		projectHandler: NewProjectHandler(
			services.NewProjectService(projectRepo, resolver, lists, invalidator)),
		contributorHandler: NewContributorHandler(
			services.NewContributorService(contributorRepo, userRepo, resolver, lists, invalidator)),
		issueHandler: NewIssueHandler(
			services.NewIssueService(issueRepo, resolver, lists, invalidator, nil)),
		commentHandler: NewCommentHandler(
			services.NewCommentService(commentRepo, resolver, lists, invalidator)),
		userHandler: NewUserHandler(
			services.NewUserService(userRepo, invalidator)),
	}
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) createProject(t *testing.T, title string, authorID uint64) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:    title,
		Type:     models.ProjectTypeBackend,
		AuthorID: authorID,
	}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Contributor{
		ProjectID: project.ID,
		UserID:    authorID,
	}).Error)
	return project
}

func (env *testEnv) addContributor(t *testing.T, projectID, userID uint64) *models.Contributor {
	t.Helper()
	contributor := &models.Contributor{ProjectID: projectID, UserID: userID}
	require.NoError(t, env.db.Create(contributor).Error)
	return contributor
}

func (env *testEnv) createIssue(t *testing.T, title string, projectID, authorID uint64) *models.Issue {
	t.Helper()
	issue := &models.Issue{
		Title:     title,
		Priority:  models.PriorityMedium,
		Tag:       models.TagTask,
		Status:    models.StatusTodo,
		ProjectID: projectID,
		AuthorID:  authorID,
	}
	require.NoError(t, env.db.Create(issue).Error)
	return issue
}

func (env *testEnv) createComment(t *testing.T, issueID, authorID uint64) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Description: "a comment",
		IssueID:     issueID,
		AuthorID:    authorID,
	}
	require.NoError(t, env.db.Create(comment).Error)
	return comment
}

// authedContext builds a request context for a direct handler call, with the
// session middleware's work already done. userID 0 leaves the request
// anonymous.
func authedContext(method, url string, body []byte, userID uint64, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Params = params
	if userID != 0 {
		c.Set(constants.ContextKeyUserID, userID)
	}

	return c, w
}

func idParam(id uint64) gin.Param {
	return gin.Param{Key: "id", Value: strconv.FormatUint(id, 10)}
}
