package middleware

import (
	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// actorKey is the key under which the authenticated actor is stored.
const actorKey = contextKey("actor")

// SetActor stores the authenticated actor in the Gin context.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(string(actorKey), actor)
}

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// The boolean reports whether the auth middleware ran.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	val, exists := c.Get(string(actorKey))
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := val.(domain.Actor)
	if !ok {
		return domain.Actor{}, false
	}
	return actor, true
}
