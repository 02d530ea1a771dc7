package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/softdesk/support-api/internal/errors"
	"github.com/softdesk/support-api/internal/middleware"
	"github.com/softdesk/support-api/internal/permissions"
)

// requestContext assembles the permission context for the current request:
// the actor from the session, the intended action and the object targeted by
// the :id path parameter. Body references are filled in by the handler after
// binding, since only it knows the payload shape.
func requestContext(c *gin.Context, action permissions.Action) permissions.Context {
	rc := permissions.Context{Action: action, ActorID: middleware.ActorID(c)}
	if raw := c.Param("id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			rc.ObjectID = id
		}
	}
	return rc
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// respondDenial writes a 403 when err is an authorization denial and reports
// whether it did so.
func respondDenial(c *gin.Context, err error) bool {
	var denial *permissions.Denial
	if errors.As(err, &denial) {
		apierrors.Forbidden(c, denial.Message)
		return true
	}
	return false
}
