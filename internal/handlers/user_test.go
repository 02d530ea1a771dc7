package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/softdesk/support-api/internal/dto"
	"github.com/softdesk/support-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_CreateUserIsPublic(t *testing.T) {
	env := newTestEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"username":           "newcomer",
		"email":              "newcomer@example.com",
		"password":           "longenough",
		"age":                20,
		"can_be_contacted":   true,
		"can_data_be_shared": false,
	})
	require.NoError(t, err)

	// No session at all; account creation is open to anonymous callers.
	c, w := authedContext(http.MethodPost, "/api/users", body, 0)
	env.userHandler.CreateUser(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newcomer", response.Username)
	require.True(t, response.CanBeContacted)
}

func TestUserHandler_CreateUserUnderage(t *testing.T) {
	env := newTestEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"username": "tooyoung",
		"email":    "kid@example.com",
		"password": "longenough",
		"age":      12,
	})
	require.NoError(t, err)

	c, w := authedContext(http.MethodPost, "/api/users", body, 0)
	env.userHandler.CreateUser(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_CreateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "taken")

	body, err := json.Marshal(map[string]interface{}{
		"username": "taken",
		"email":    "other@example.com",
		"password": "longenough",
	})
	require.NoError(t, err)

	c, w := authedContext(http.MethodPost, "/api/users", body, 0)
	env.userHandler.CreateUser(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_GetUserSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")

	c, w := authedContext(http.MethodGet, "/api/users/1", nil, other.ID, idParam(owner.ID))
	env.userHandler.GetUser(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodGet, "/api/users/1", nil, owner.ID, idParam(owner.ID))
	env.userHandler.GetUser(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, owner.ID, response.ID)
}

func TestUserHandler_DeleteUserRemovesAuthoredProjects(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")
	project := env.createProject(t, "Owned", owner.ID)
	env.addContributor(t, project.ID, member.ID)

	// Someone else cannot delete the account.
	c, w := authedContext(http.MethodDelete, "/api/users/1", nil, member.ID, idParam(owner.ID))
	env.userHandler.DeleteUser(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = authedContext(http.MethodDelete, "/api/users/1", nil, owner.ID, idParam(owner.ID))
	env.userHandler.DeleteUser(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", owner.ID).Count(&count)
	require.Zero(t, count)
	env.db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	require.Zero(t, count)

	// The former member survives with their membership gone.
	env.db.Model(&models.User{}).Where("id = ?", member.ID).Count(&count)
	require.Equal(t, int64(1), count)
	env.db.Model(&models.Contributor{}).Where("user_id = ?", member.ID).Count(&count)
	require.Zero(t, count)
}

// Deleting an account also removes the user's memberships, issues and
// comments in other users' projects, so cached listings held by those
// projects' members must be refreshed too.
func TestUserHandler_DeleteUserInvalidatesJoinedProjectListings(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")
	project := env.createProject(t, "Shared", owner.ID)
	env.addContributor(t, project.ID, member.ID)

	// The owner's contributor list lands in the cache with both rows.
	c, w := authedContext(http.MethodGet, "/api/contributors", nil, owner.ID)
	env.contributorHandler.ListContributors(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ContributorListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, int64(2), response.TotalCount)

	c, w = authedContext(http.MethodDelete, "/api/users/2", nil, member.ID, idParam(member.ID))
	env.userHandler.DeleteUser(c)
	require.Equal(t, http.StatusOK, w.Code)

	// The next list must not be served from the stale page.
	c, w = authedContext(http.MethodGet, "/api/contributors", nil, owner.ID)
	env.contributorHandler.ListContributors(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, int64(1), response.TotalCount)
}
