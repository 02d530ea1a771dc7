package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/softdesk/support-api/internal/dto"
	"github.com/softdesk/support-api/internal/models"
	"github.com/stretchr/testify/suite"
)

// IssueHandlerTestSuite defines the test suite for IssueHandler
type IssueHandlerTestSuite struct {
	suite.Suite
	env *testEnv
}

func (suite *IssueHandlerTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
}

func (suite *IssueHandlerTestSuite) TestCreateIssueRequiresMembership() {
	author := suite.env.createUser(suite.T(), "author")
	member := suite.env.createUser(suite.T(), "member")
	outsider := suite.env.createUser(suite.T(), "outsider")
	project := suite.env.createProject(suite.T(), "Support", author.ID)
	suite.env.addContributor(suite.T(), project.ID, member.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Crash on login",
		"priority": "HIGH",
		"tag":      "BUG",
		"project":  project.ID,
	})

	c, w := authedContext(http.MethodPost, "/api/issues", body, outsider.ID)
	suite.env.issueHandler.CreateIssue(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodPost, "/api/issues", body, member.ID)
	suite.env.issueHandler.CreateIssue(c)
	suite.Equal(http.StatusCreated, w.Code)

	var response dto.IssueDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Crash on login", response.Title)
	suite.Equal(models.StatusTodo, response.Status)
	suite.Equal(member.ID, response.Author.ID)
}

func (suite *IssueHandlerTestSuite) TestCreateIssueUnknownProjectDenied() {
	member := suite.env.createUser(suite.T(), "member")

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Orphan",
		"priority": "LOW",
		"tag":      "TASK",
		"project":  9999,
	})
	c, w := authedContext(http.MethodPost, "/api/issues", body, member.ID)
	suite.env.issueHandler.CreateIssue(c)

	// An unresolvable reference is a denial, never a lookup error.
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *IssueHandlerTestSuite) TestCreateIssueAssigneeMustBeMember() {
	author := suite.env.createUser(suite.T(), "author")
	outsider := suite.env.createUser(suite.T(), "outsider")
	project := suite.env.createProject(suite.T(), "Support", author.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Needs hands",
		"priority": "MEDIUM",
		"tag":      "TASK",
		"project":  project.ID,
		"assignee": outsider.ID,
	})
	c, w := authedContext(http.MethodPost, "/api/issues", body, author.ID)
	suite.env.issueHandler.CreateIssue(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IssueHandlerTestSuite) TestUpdateIssueAuthorOnly() {
	author := suite.env.createUser(suite.T(), "author")
	member := suite.env.createUser(suite.T(), "member")
	project := suite.env.createProject(suite.T(), "Support", author.ID)
	suite.env.addContributor(suite.T(), project.ID, member.ID)
	issue := suite.env.createIssue(suite.T(), "Original", project.ID, member.ID)

	body, _ := json.Marshal(map[string]string{"status": "IN_PROGRESS"})

	// Even the project author cannot touch someone else's issue.
	c, w := authedContext(http.MethodPatch, "/api/issues/1", body, author.ID, idParam(issue.ID))
	suite.env.issueHandler.UpdateIssue(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodPatch, "/api/issues/1", body, member.ID, idParam(issue.ID))
	suite.env.issueHandler.UpdateIssue(c)
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Issue
	suite.Require().NoError(suite.env.db.First(&updated, issue.ID).Error)
	suite.Equal(models.StatusInProgress, updated.Status)
}

func (suite *IssueHandlerTestSuite) TestUpdateIssueClearAssignee() {
	author := suite.env.createUser(suite.T(), "author")
	project := suite.env.createProject(suite.T(), "Support", author.ID)
	issue := suite.env.createIssue(suite.T(), "Assigned", project.ID, author.ID)
	suite.Require().NoError(suite.env.db.Model(issue).Update("assignee_id", author.ID).Error)

	body := []byte(`{"assignee": null}`)
	c, w := authedContext(http.MethodPatch, "/api/issues/1", body, author.ID, idParam(issue.ID))
	suite.env.issueHandler.UpdateIssue(c)
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Issue
	suite.Require().NoError(suite.env.db.First(&updated, issue.ID).Error)
	suite.Nil(updated.AssigneeID)
}

func (suite *IssueHandlerTestSuite) TestDeleteIssueAuthorOnly() {
	author := suite.env.createUser(suite.T(), "author")
	member := suite.env.createUser(suite.T(), "member")
	project := suite.env.createProject(suite.T(), "Support", author.ID)
	suite.env.addContributor(suite.T(), project.ID, member.ID)
	issue := suite.env.createIssue(suite.T(), "Doomed", project.ID, member.ID)
	suite.env.createComment(suite.T(), issue.ID, author.ID)

	c, w := authedContext(http.MethodDelete, "/api/issues/1", nil, author.ID, idParam(issue.ID))
	suite.env.issueHandler.DeleteIssue(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodDelete, "/api/issues/1", nil, member.ID, idParam(issue.ID))
	suite.env.issueHandler.DeleteIssue(c)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.env.db.Model(&models.Issue{}).Where("id = ?", issue.ID).Count(&count)
	suite.Zero(count)
	suite.env.db.Model(&models.Comment{}).Where("issue_id = ?", issue.ID).Count(&count)
	suite.Zero(count)
}

func (suite *IssueHandlerTestSuite) TestListIssuesScopedToMembership() {
	author := suite.env.createUser(suite.T(), "author")
	member := suite.env.createUser(suite.T(), "member")
	project := suite.env.createProject(suite.T(), "Support", author.ID)
	suite.env.addContributor(suite.T(), project.ID, member.ID)
	foreign := suite.env.createProject(suite.T(), "Foreign", author.ID)

	suite.env.createIssue(suite.T(), "Visible", project.ID, author.ID)
	suite.env.createIssue(suite.T(), "Hidden", foreign.ID, author.ID)

	c, w := authedContext(http.MethodGet, "/api/issues", nil, member.ID)
	suite.env.issueHandler.ListIssues(c)
	suite.Equal(http.StatusOK, w.Code)

	var response dto.IssueListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(1), response.TotalCount)
	suite.Require().Len(response.Issues, 1)
	suite.Equal("Visible", response.Issues[0].Title)
}

func TestIssueHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IssueHandlerTestSuite))
}
