package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

// kindService is the service shape every routed entity kind exposes. Kinds
// whose service differs are adapted in kinds.go.
type kindService[T, L, C, U any] interface {
	List(ctx context.Context, req L) (pagination.Envelope[*T], error)
	Create(ctx context.Context, tenantID uuid.UUID, req C, actor string) (*T, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*T, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req U, actor string) (*T, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// kindRoutes describes how one kind is exposed under the tenant and admin
// scopes. item is the full path of a single row and param the path
// parameter that addresses it; an empty item mounts collection routes only.
type kindRoutes[L any] struct {
	collection string
	item       string
	param      string
	list       func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (L, error)

	// adminWrites mounts create and delete on the admin scope only.
	adminWrites bool
	noUpdate    bool
	noDelete    bool
}

func byID[L any](collection string, list func(*gin.Context, *uuid.UUID, pagination.Page) (L, error)) kindRoutes[L] {
	return kindRoutes[L]{
		collection: collection,
		item:       collection + "/:id",
		param:      "id",
		list:       list,
	}
}

type tenantResolver func(c *gin.Context) (uuid.UUID, error)

func tenantFromPath(c *gin.Context) (uuid.UUID, error) {
	return pathUUID(c, "tenant_id")
}

type kindHandlers[T, L, C, U any] struct {
	svc    kindService[T, L, C, U]
	routes kindRoutes[L]
}

func mountKind[T, L, C, U any](tenant, admin *gin.RouterGroup, svc kindService[T, L, C, U], r kindRoutes[L]) {
	h := kindHandlers[T, L, C, U]{svc: svc, routes: r}

	tenant.GET(r.collection, h.tenantList)
	admin.GET(r.collection, h.adminList)
	if !r.adminWrites {
		tenant.POST(r.collection, h.tenantCreate)
	}
	admin.POST(r.collection, h.adminCreate)

	if r.item == "" {
		return
	}
	for _, scope := range []struct {
		group    *gin.RouterGroup
		resolve  tenantResolver
		canWrite bool
	}{
		{tenant, tenantFromPath, !r.adminWrites},
		{admin, requiredTenantQuery, true},
	} {
		scope.group.GET(r.item, h.get(scope.resolve))
		if !r.noUpdate {
			scope.group.PUT(r.item, h.update(scope.resolve))
			scope.group.PATCH(r.item, h.update(scope.resolve))
		}
		if !r.noDelete && scope.canWrite {
			scope.group.DELETE(r.item, h.delete(scope.resolve))
		}
	}
}

func (h kindHandlers[T, L, C, U]) tenantList(c *gin.Context) {
	tenantID, err := tenantFromPath(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	h.list(c, &tenantID)
}

// adminList lists across tenants unless tenant_id narrows it.
func (h kindHandlers[T, L, C, U]) adminList(c *gin.Context) {
	tenantID, err := queryUUID(c, "tenant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	h.list(c, tenantID)
}

func (h kindHandlers[T, L, C, U]) list(c *gin.Context, tenantID *uuid.UUID) {
	page, err := pageFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req, err := h.routes.list(c, tenantID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// tenantCreate ignores any tenant_id in the body; the path decides.
func (h kindHandlers[T, L, C, U]) tenantCreate(c *gin.Context) {
	tenantID, err := tenantFromPath(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	h.create(c, tenantID, req)
}

type tenantBody struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

// adminCreate takes the tenant from the body. A tenant_id query parameter,
// when present, must name the same tenant.
func (h kindHandlers[T, L, C, U]) adminCreate(c *gin.Context) {
	asserted, err := queryUUID(c, "tenant_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var body tenantBody
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := lifecycle.AssertTenant(asserted, body.TenantID); err != nil {
		AbortWithError(c, err)
		return
	}

	var req C
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	h.create(c, body.TenantID, req)
}

func (h kindHandlers[T, L, C, U]) create(c *gin.Context, tenantID uuid.UUID, req C) {
	resp, err := h.svc.Create(c.Request.Context(), tenantID, req, actorFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h kindHandlers[T, L, C, U]) get(tenantOf tenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, id, err := h.address(c, tenantOf)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func (h kindHandlers[T, L, C, U]) update(tenantOf tenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, id, err := h.address(c, tenantOf)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req U
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req, actorFrom(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func (h kindHandlers[T, L, C, U]) delete(tenantOf tenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, id, err := h.address(c, tenantOf)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (h kindHandlers[T, L, C, U]) address(c *gin.Context, tenantOf tenantResolver) (uuid.UUID, uuid.UUID, error) {
	tenantID, err := tenantOf(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := pathUUID(c, h.routes.param)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return tenantID, id, nil
}
