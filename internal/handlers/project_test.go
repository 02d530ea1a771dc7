package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/softdesk/support-api/internal/dto"
	"github.com/softdesk/support-api/internal/models"
	"github.com/stretchr/testify/suite"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	env *testEnv
}

func (suite *ProjectHandlerTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestCreateProjectMakesAuthorContributor() {
	author := suite.env.createUser(suite.T(), "author")

	body, _ := json.Marshal(map[string]string{
		"title":       "Support backend",
		"description": "Ticketing",
		"type":        "BACKEND",
	})
	c, w := authedContext(http.MethodPost, "/api/projects", body, author.ID)
	suite.env.projectHandler.CreateProject(c)

	suite.Equal(http.StatusCreated, w.Code)

	var response dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Support backend", response.Title)
	suite.Equal(author.ID, response.Author.ID)

	var count int64
	suite.env.db.Model(&models.Contributor{}).
		Where("project_id = ? AND user_id = ?", response.ID, author.ID).
		Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *ProjectHandlerTestSuite) TestCreateProjectRejectsUnknownType() {
	author := suite.env.createUser(suite.T(), "author")

	body, _ := json.Marshal(map[string]string{
		"title": "Support backend",
		"type":  "MAINFRAME",
	})
	c, w := authedContext(http.MethodPost, "/api/projects", body, author.ID)
	suite.env.projectHandler.CreateProject(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestGetProjectRequiresMembership() {
	author := suite.env.createUser(suite.T(), "author")
	outsider := suite.env.createUser(suite.T(), "outsider")
	project := suite.env.createProject(suite.T(), "Private", author.ID)

	c, w := authedContext(http.MethodGet, "/api/projects/1", nil, outsider.ID, idParam(project.ID))
	suite.env.projectHandler.GetProject(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodGet, "/api/projects/1", nil, author.ID, idParam(project.ID))
	suite.env.projectHandler.GetProject(c)
	suite.Equal(http.StatusOK, w.Code)

	var response dto.ProjectDetailDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(project.ID, response.ID)
	suite.Len(response.Contributors, 1)
}

func (suite *ProjectHandlerTestSuite) TestUpdateProjectAuthorOnly() {
	author := suite.env.createUser(suite.T(), "author")
	member := suite.env.createUser(suite.T(), "member")
	project := suite.env.createProject(suite.T(), "Original", author.ID)
	suite.env.addContributor(suite.T(), project.ID, member.ID)

	body, _ := json.Marshal(map[string]string{"title": "Renamed"})

	// A plain contributor cannot mutate the project.
	c, w := authedContext(http.MethodPatch, "/api/projects/1", body, member.ID, idParam(project.ID))
	suite.env.projectHandler.UpdateProject(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodPatch, "/api/projects/1", body, author.ID, idParam(project.ID))
	suite.env.projectHandler.UpdateProject(c)
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Project
	suite.Require().NoError(suite.env.db.First(&updated, project.ID).Error)
	suite.Equal("Renamed", updated.Title)
}

func (suite *ProjectHandlerTestSuite) TestDeleteProjectCascades() {
	author := suite.env.createUser(suite.T(), "author")
	member := suite.env.createUser(suite.T(), "member")
	project := suite.env.createProject(suite.T(), "Doomed", author.ID)
	suite.env.addContributor(suite.T(), project.ID, member.ID)
	issue := suite.env.createIssue(suite.T(), "Bug", project.ID, member.ID)
	suite.env.createComment(suite.T(), issue.ID, member.ID)

	c, w := authedContext(http.MethodDelete, "/api/projects/1", nil, member.ID, idParam(project.ID))
	suite.env.projectHandler.DeleteProject(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodDelete, "/api/projects/1", nil, author.ID, idParam(project.ID))
	suite.env.projectHandler.DeleteProject(c)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.env.db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	suite.Zero(count)
	suite.env.db.Model(&models.Issue{}).Where("project_id = ?", project.ID).Count(&count)
	suite.Zero(count)
	suite.env.db.Model(&models.Comment{}).Where("issue_id = ?", issue.ID).Count(&count)
	suite.Zero(count)
}

// The list endpoint serves a cached page until a mutation bumps the actor's
// version counter.
func (suite *ProjectHandlerTestSuite) TestListProjectsCacheLifecycle() {
	author := suite.env.createUser(suite.T(), "author")
	suite.env.createProject(suite.T(), "First", author.ID)

	c, w := authedContext(http.MethodGet, "/api/projects", nil, author.ID)
	suite.env.projectHandler.ListProjects(c)
	suite.Equal(http.StatusOK, w.Code)

	var response dto.ProjectListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(1), response.TotalCount)

	// A direct database write bypasses invalidation, so the stale page keeps
	// being served.
	suite.Require().NoError(suite.env.db.Create(&models.Project{
		Title:    "Sneaky",
		Type:     models.ProjectTypeBackend,
		AuthorID: author.ID,
	}).Error)

	c, w = authedContext(http.MethodGet, "/api/projects", nil, author.ID)
	suite.env.projectHandler.ListProjects(c)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(1), response.TotalCount)

	// A mutation through the handler invalidates and the next list is fresh.
	body, _ := json.Marshal(map[string]string{
		"title": "Second",
		"type":  "FRONTEND",
	})
	c, w = authedContext(http.MethodPost, "/api/projects", body, author.ID)
	suite.env.projectHandler.CreateProject(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	c, w = authedContext(http.MethodGet, "/api/projects", nil, author.ID)
	suite.env.projectHandler.ListProjects(c)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(3), response.TotalCount)
}

// A cached page only matches the exact window it was stored for; changing the
// limit runs a fresh query instead of serving another window's payload.
func (suite *ProjectHandlerTestSuite) TestListProjectsLimitChangesWindow() {
	author := suite.env.createUser(suite.T(), "author")
	suite.env.createProject(suite.T(), "First", author.ID)
	suite.env.createProject(suite.T(), "Second", author.ID)

	c, w := authedContext(http.MethodGet, "/api/projects?page=1&limit=2", nil, author.ID)
	suite.env.projectHandler.ListProjects(c)
	suite.Equal(http.StatusOK, w.Code)

	var response dto.ProjectListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Projects, 2)

	c, w = authedContext(http.MethodGet, "/api/projects?page=1&limit=1", nil, author.ID)
	suite.env.projectHandler.ListProjects(c)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Projects, 1)
	suite.Equal(1, response.PageSize)
	suite.Equal(int64(2), response.TotalCount)
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
