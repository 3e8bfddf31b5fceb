package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	shdomain "github.com/smallbiznis/crm/internal/stagehistory/domain"
)

// ListEntityStageHistory lists the transitions of one entity, newest first.
func (s *Server) ListEntityStageHistory(c *gin.Context) {
	tenantID, err := tenantFromPath(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	entityID, err := pathUUID(c, "entity_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	entityType := strings.TrimSpace(c.Param("entity_type"))
	page, err := pageFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.stageHistorySvc.List(c.Request.Context(), shdomain.ListRequest{
		TenantID:   &tenantID,
		EntityType: &entityType,
		EntityID:   &entityID,
		Page:       page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
