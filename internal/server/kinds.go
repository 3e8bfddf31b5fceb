package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	aedomain "github.com/smallbiznis/crm/internal/automationexecution/domain"
	csatdomain "github.com/smallbiznis/crm/internal/csatsurvey/domain"
	gpdomain "github.com/smallbiznis/crm/internal/groupprofile/domain"
	icdomain "github.com/smallbiznis/crm/internal/inboundchannel/domain"
	kbadomain "github.com/smallbiznis/crm/internal/kbarticle/domain"
	kbcdomain "github.com/smallbiznis/crm/internal/kbcategory/domain"
	shdomain "github.com/smallbiznis/crm/internal/stagehistory/domain"
	macrodomain "github.com/smallbiznis/crm/internal/supportmacro/domain"
	viewdomain "github.com/smallbiznis/crm/internal/supportview/domain"
	formdomain "github.com/smallbiznis/crm/internal/ticketform/domain"
	tffdomain "github.com/smallbiznis/crm/internal/ticketformfield/domain"
	sladomain "github.com/smallbiznis/crm/internal/ticketslastate/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

func (s *Server) registerKinds(tenant, admin *gin.RouterGroup) {
	mountKind[gpdomain.GroupProfile, gpdomain.ListRequest, gpdomain.CreateRequest, gpdomain.UpdateRequest](tenant, admin, s.groupProfileSvc,
		byID("/group_profiles", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (gpdomain.ListRequest, error) {
			isSupportQueue, err := queryBool(c, "is_support_queue")
			if err != nil {
				return gpdomain.ListRequest{}, err
			}
			return gpdomain.ListRequest{
				TenantID:       tenantID,
				ProfileType:    parseOptionalString(c.Query("profile_type")),
				IsSupportQueue: isSupportQueue,
				Page:           page,
			}, nil
		}))

	mountKind[icdomain.InboundChannel, icdomain.ListRequest, icdomain.CreateRequest, icdomain.UpdateRequest](tenant, admin, s.inboundChannelSvc,
		byID("/inbound_channels", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (icdomain.ListRequest, error) {
			isActive, err := queryBool(c, "is_active")
			if err != nil {
				return icdomain.ListRequest{}, err
			}
			return icdomain.ListRequest{
				TenantID:    tenantID,
				ChannelType: parseOptionalString(c.Query("channel_type")),
				IsActive:    isActive,
				Page:        page,
			}, nil
		}))

	mountKind[kbadomain.KbArticle, kbadomain.ListRequest, kbadomain.CreateRequest, kbadomain.UpdateRequest](tenant, admin, s.kbArticleSvc,
		byID("/kb_articles", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (kbadomain.ListRequest, error) {
			sectionID, err := queryUUID(c, "kb_section_id")
			if err != nil {
				return kbadomain.ListRequest{}, err
			}
			return kbadomain.ListRequest{TenantID: tenantID, KbSectionID: sectionID, Page: page}, nil
		}))

	mountKind[kbcdomain.KbCategory, kbcdomain.ListRequest, kbcdomain.CreateRequest, kbcdomain.UpdateRequest](tenant, admin, s.kbCategorySvc,
		byID("/kb_categories", func(_ *gin.Context, tenantID *uuid.UUID, page pagination.Page) (kbcdomain.ListRequest, error) {
			return kbcdomain.ListRequest{TenantID: tenantID, Page: page}, nil
		}))

	mountKind[macrodomain.SupportMacro, macrodomain.ListRequest, macrodomain.CreateRequest, macrodomain.UpdateRequest](tenant, admin, s.supportMacroSvc,
		byID("/support_macros", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (macrodomain.ListRequest, error) {
			isActive, err := queryBool(c, "is_active")
			return macrodomain.ListRequest{TenantID: tenantID, IsActive: isActive, Page: page}, err
		}))

	mountKind[viewdomain.SupportView, viewdomain.ListRequest, viewdomain.CreateRequest, viewdomain.UpdateRequest](tenant, admin, s.supportViewSvc,
		byID("/support_views", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (viewdomain.ListRequest, error) {
			isActive, err := queryBool(c, "is_active")
			return viewdomain.ListRequest{TenantID: tenantID, IsActive: isActive, Page: page}, err
		}))

	mountKind[formdomain.TicketForm, formdomain.ListRequest, formdomain.CreateRequest, formdomain.UpdateRequest](tenant, admin, s.ticketFormSvc,
		byID("/ticket_forms", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (formdomain.ListRequest, error) {
			isActive, err := queryBool(c, "is_active")
			return formdomain.ListRequest{TenantID: tenantID, IsActive: isActive, Page: page}, err
		}))

	mountKind[tffdomain.TicketFormField, tffdomain.ListRequest, tffdomain.CreateRequest, tffdomain.UpdateRequest](tenant, admin, s.ticketFormFieldSvc,
		byID("/ticket_form_fields", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (tffdomain.ListRequest, error) {
			formID, err := queryUUID(c, "ticket_form_id")
			if err != nil {
				return tffdomain.ListRequest{}, err
			}
			defID, err := queryUUID(c, "ticket_field_def_id")
			if err != nil {
				return tffdomain.ListRequest{}, err
			}
			return tffdomain.ListRequest{TenantID: tenantID, TicketFormID: formID, TicketFieldDefID: defID, Page: page}, nil
		}))

	mountKind[csatdomain.CsatSurvey, csatdomain.ListRequest, csatdomain.CreateRequest, csatdomain.UpdateRequest](tenant, admin, s.csatSurveySvc,
		byID("/csat_surveys", func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (csatdomain.ListRequest, error) {
			isActive, err := queryBool(c, "is_active")
			return csatdomain.ListRequest{TenantID: tenantID, IsActive: isActive, Page: page}, err
		}))

	// SLA state rows are addressed by ticket and written by orchestration
	// through the admin scope.
	mountKind[sladomain.TicketSlaState, sladomain.ListRequest, sladomain.CreateRequest, sladomain.UpdateRequest](tenant, admin, s.ticketSlaStateSvc,
		kindRoutes[sladomain.ListRequest]{
			collection:  "/ticket_sla_states",
			item:        "/tickets/:ticket_id/sla_state",
			param:       "ticket_id",
			adminWrites: true,
			list: func(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (sladomain.ListRequest, error) {
				ticketID, err := queryUUID(c, "ticket_id")
				if err != nil {
					return sladomain.ListRequest{}, err
				}
				policyID, err := queryUUID(c, "sla_policy_id")
				if err != nil {
					return sladomain.ListRequest{}, err
				}
				return sladomain.ListRequest{TenantID: tenantID, TicketID: ticketID, SLAPolicyID: policyID, Page: page}, nil
			},
		})

	mountKind[aedomain.AutomationActionExecution, aedomain.ListRequest, aedomain.CreateRequest, aedomain.UpdateRequest](tenant, admin, executionRoutes{s.automationExecutionSvc},
		kindRoutes[aedomain.ListRequest]{
			collection: "/automation_executions",
			item:       "/automation_executions/:id",
			param:      "id",
			noDelete:   true,
			list:       executionListRequest,
		})

	mountKind[shdomain.StageHistory, shdomain.ListRequest, shdomain.CreateRequest, struct{}](tenant, admin, stageHistoryRoutes{s.stageHistorySvc},
		kindRoutes[shdomain.ListRequest]{
			collection: "/stage_history",
			noUpdate:   true,
			noDelete:   true,
			list:       stageHistoryListRequest,
		})
	tenant.GET("/stage_history/:entity_type/:entity_id", s.ListEntityStageHistory)
}

func executionListRequest(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (aedomain.ListRequest, error) {
	actionID, err := queryUUID(c, "action_id")
	if err != nil {
		return aedomain.ListRequest{}, err
	}
	entityID, err := queryUUID(c, "entity_id")
	if err != nil {
		return aedomain.ListRequest{}, err
	}
	return aedomain.ListRequest{
		TenantID:   tenantID,
		ActionID:   actionID,
		EntityType: parseOptionalString(c.Query("entity_type")),
		EntityID:   entityID,
		Status:     parseOptionalString(c.Query("status")),
		Page:       page,
	}, nil
}

func stageHistoryListRequest(c *gin.Context, tenantID *uuid.UUID, page pagination.Page) (shdomain.ListRequest, error) {
	entityID, err := queryUUID(c, "entity_id")
	if err != nil {
		return shdomain.ListRequest{}, err
	}
	pipelineID, err := queryUUID(c, "pipeline_id")
	if err != nil {
		return shdomain.ListRequest{}, err
	}
	return shdomain.ListRequest{
		TenantID:   tenantID,
		EntityType: parseOptionalString(c.Query("entity_type")),
		EntityID:   entityID,
		PipelineID: pipelineID,
		Page:       page,
	}, nil
}

// executionRoutes adapts the execution service, which records no actor and
// has no delete.
type executionRoutes struct {
	aedomain.Service
}

func (r executionRoutes) Create(ctx context.Context, tenantID uuid.UUID, req aedomain.CreateRequest, _ string) (*aedomain.AutomationActionExecution, error) {
	return r.Service.Create(ctx, tenantID, req)
}

func (r executionRoutes) Update(ctx context.Context, tenantID, id uuid.UUID, req aedomain.UpdateRequest, _ string) (*aedomain.AutomationActionExecution, error) {
	return r.Service.Update(ctx, tenantID, id, req)
}

func (executionRoutes) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return ErrNotFound
}

// stageHistoryRoutes adapts the append-only stage history service.
type stageHistoryRoutes struct {
	shdomain.Service
}

func (r stageHistoryRoutes) Create(ctx context.Context, tenantID uuid.UUID, req shdomain.CreateRequest, _ string) (*shdomain.StageHistory, error) {
	return r.Service.Record(ctx, tenantID, req)
}

func (stageHistoryRoutes) Update(context.Context, uuid.UUID, uuid.UUID, struct{}, string) (*shdomain.StageHistory, error) {
	return nil, ErrNotFound
}

func (stageHistoryRoutes) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return ErrNotFound
}
