package server

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	obslogger "github.com/smallbiznis/crm/internal/observability/logger"
)

const (
	defaultActor   = "anonymous"
	maxActorLength = 100
	contextActor   = "actor"
)

// Actor resolves the audit identity from the X-User header once per request.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextActor, normalizeActor(c.GetHeader(obslogger.HeaderUser)))
		c.Next()
	}
}

func normalizeActor(raw string) string {
	actor := strings.TrimSpace(raw)
	if actor == "" {
		return defaultActor
	}
	if utf8.RuneCountInString(actor) > maxActorLength {
		actor = string([]rune(actor)[:maxActorLength])
	}
	return actor
}

func actorFrom(c *gin.Context) string {
	if actor := c.GetString(contextActor); actor != "" {
		return actor
	}
	return normalizeActor(c.GetHeader(obslogger.HeaderUser))
}
