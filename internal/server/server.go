package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/crm/internal/automationexecution"
	aedomain "github.com/smallbiznis/crm/internal/automationexecution/domain"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/csatsurvey"
	csatdomain "github.com/smallbiznis/crm/internal/csatsurvey/domain"
	"github.com/smallbiznis/crm/internal/groupprofile"
	gpdomain "github.com/smallbiznis/crm/internal/groupprofile/domain"
	"github.com/smallbiznis/crm/internal/inboundchannel"
	icdomain "github.com/smallbiznis/crm/internal/inboundchannel/domain"
	"github.com/smallbiznis/crm/internal/kbarticle"
	kbadomain "github.com/smallbiznis/crm/internal/kbarticle/domain"
	"github.com/smallbiznis/crm/internal/kbcategory"
	kbcdomain "github.com/smallbiznis/crm/internal/kbcategory/domain"
	"github.com/smallbiznis/crm/internal/observability"
	obsmiddleware "github.com/smallbiznis/crm/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/crm/internal/observability/metrics"
	obstracing "github.com/smallbiznis/crm/internal/observability/tracing"
	"github.com/smallbiznis/crm/internal/stagehistory"
	shdomain "github.com/smallbiznis/crm/internal/stagehistory/domain"
	"github.com/smallbiznis/crm/internal/supportmacro"
	macrodomain "github.com/smallbiznis/crm/internal/supportmacro/domain"
	"github.com/smallbiznis/crm/internal/supportview"
	viewdomain "github.com/smallbiznis/crm/internal/supportview/domain"
	"github.com/smallbiznis/crm/internal/ticketform"
	formdomain "github.com/smallbiznis/crm/internal/ticketform/domain"
	"github.com/smallbiznis/crm/internal/ticketformfield"
	tffdomain "github.com/smallbiznis/crm/internal/ticketformfield/domain"
	"github.com/smallbiznis/crm/internal/ticketslastate"
	sladomain "github.com/smallbiznis/crm/internal/ticketslastate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	groupprofile.Module,
	inboundchannel.Module,
	kbarticle.Module,
	kbcategory.Module,
	supportmacro.Module,
	supportview.Module,
	ticketform.Module,
	ticketformfield.Module,
	csatsurvey.Module,
	ticketslastate.Module,
	automationexecution.Module,
	stagehistory.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine                 *gin.Engine
	groupProfileSvc        gpdomain.Service
	inboundChannelSvc      icdomain.Service
	kbArticleSvc           kbadomain.Service
	kbCategorySvc          kbcdomain.Service
	supportMacroSvc        macrodomain.Service
	supportViewSvc         viewdomain.Service
	ticketFormSvc          formdomain.Service
	ticketFormFieldSvc     tffdomain.Service
	csatSurveySvc          csatdomain.Service
	ticketSlaStateSvc      sladomain.Service
	automationExecutionSvc aedomain.Service
	stageHistorySvc        shdomain.Service
}

type ServerParams struct {
	fx.In

	Engine                 *gin.Engine
	GroupProfileSvc        gpdomain.Service
	InboundChannelSvc      icdomain.Service
	KbArticleSvc           kbadomain.Service
	KbCategorySvc          kbcdomain.Service
	SupportMacroSvc        macrodomain.Service
	SupportViewSvc         viewdomain.Service
	TicketFormSvc          formdomain.Service
	TicketFormFieldSvc     tffdomain.Service
	CsatSurveySvc          csatdomain.Service
	TicketSlaStateSvc      sladomain.Service
	AutomationExecutionSvc aedomain.Service
	StageHistorySvc        shdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:                 p.Engine,
		groupProfileSvc:        p.GroupProfileSvc,
		inboundChannelSvc:      p.InboundChannelSvc,
		kbArticleSvc:           p.KbArticleSvc,
		kbCategorySvc:          p.KbCategorySvc,
		supportMacroSvc:        p.SupportMacroSvc,
		supportViewSvc:         p.SupportViewSvc,
		ticketFormSvc:          p.TicketFormSvc,
		ticketFormFieldSvc:     p.TicketFormFieldSvc,
		csatSurveySvc:          p.CsatSurveySvc,
		ticketSlaStateSvc:      p.TicketSlaStateSvc,
		automationExecutionSvc: p.AutomationExecutionSvc,
		stageHistorySvc:        p.StageHistorySvc,
	}
}

// RegisterRoutes mounts every entity kind under /tenants/:tenant_id and
// /admin.
func (s *Server) RegisterRoutes() {
	tenant := s.engine.Group("/tenants/:tenant_id", Actor())
	admin := s.engine.Group("/admin", Actor())
	s.registerKinds(tenant, admin)
}
