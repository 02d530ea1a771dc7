package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/softdesk/support-api/internal/constants"
	apierrors "github.com/softdesk/support-api/internal/errors"
)

// RequireAuth rejects requests that carry no authenticated session. The
// actor's ID is normalized to uint64 on the way in, so handlers can feed it
// straight into their permission context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := sessionActorID(sessions.Default(c).Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, actorID)
		c.Next()
	}
}

// sessionActorID coerces the stored session value. Session stores round-trip
// integers through gob, so the concrete type depends on the store.
func sessionActorID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, true
	case uint:
		return uint64(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	}
	return 0, false
}

// ActorID returns the authenticated user's ID, 0 for anonymous requests.
func ActorID(c *gin.Context) uint64 {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}
