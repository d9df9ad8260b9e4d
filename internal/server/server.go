package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/facturier/internal/backup"
	"github.com/smallbiznis/facturier/internal/catalog"
	catalogdomain "github.com/smallbiznis/facturier/internal/catalog/domain"
	"github.com/smallbiznis/facturier/internal/clock"
	"github.com/smallbiznis/facturier/internal/config"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	obsmiddleware "github.com/smallbiznis/facturier/internal/observability/logger"
	obstracing "github.com/smallbiznis/facturier/internal/observability/tracing"
	"github.com/smallbiznis/facturier/internal/profile"
	"github.com/smallbiznis/facturier/internal/providers"
	"github.com/smallbiznis/facturier/internal/providers/pdf"
	"github.com/smallbiznis/facturier/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	docrepo.Module,
	catalog.Module,
	profile.Module,
	session.Module,
	backup.Module,
	providers.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           !cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowOrigins = cfg.CORSOrigins
	if len(cc.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
	}
	cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cc.AllowHeaders = append(cc.AllowHeaders, "X-Request-Id", "X-Correlation-Id")
	cc.ExposeHeaders = []string{"Content-Disposition", "X-Request-Id", "X-Correlation-Id"}
	cc.MaxAge = 12 * time.Hour
	return cc
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	clock      clock.Clock
	session    *session.Session
	history    *docrepo.History
	catalogSvc catalogdomain.Service
	profileSvc *profile.Service
	backupSvc  *backup.Service
	pdf        pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Clock      clock.Clock
	Session    *session.Session
	History    *docrepo.History
	CatalogSvc catalogdomain.Service
	ProfileSvc *profile.Service
	BackupSvc  *backup.Service
	PDF        pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http"),
		clock:      p.Clock,
		session:    p.Session,
		history:    p.History,
		catalogSvc: p.CatalogSvc,
		profileSvc: p.ProfileSvc,
		backupSvc:  p.BackupSvc,
		pdf:        p.PDF,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	draft := api.Group("/draft")
	{
		draft.GET("", s.GetDraft)
		draft.PUT("", s.ReplaceDraft)
		draft.POST("/new", s.NewDraft)
		draft.POST("/save", s.SaveDraft)
		draft.POST("/type", s.ChangeDraftType)
		draft.POST("/refresh-number", s.RefreshDraftNumber)
		draft.POST("/items", s.AddDraftItem)
		draft.DELETE("/items/:itemID", s.RemoveDraftItem)
		draft.PUT("/items/:itemID/description", s.SetItemDescription)
		draft.POST("/client/:id", s.ApplyClientToDraft)
		draft.GET("/pdf", s.DraftPDF)
	}

	documents := api.Group("/documents")
	{
		documents.GET("", s.ListDocuments)
		documents.GET("/:id/pdf", s.DocumentPDF)
		documents.POST("/:id/open", s.OpenDocument)
		documents.DELETE("/:id", s.DeleteDocument)
		documents.POST("/:id/toggle-status", s.ToggleDocumentStatus)
		documents.POST("/:id/convert", s.ConvertDocument)
	}

	api.GET("/dashboard", s.Dashboard)

	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.GET("/profile", s.GetProfile)
	api.PUT("/profile", s.SaveProfile)

	api.GET("/backup", s.ExportBackup)
	api.POST("/backup", s.ImportBackup)
	api.GET("/backup/workbook", s.ExportWorkbook)
}

// registerFallback serves the built browser UI from ./public.
func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		if fileExists("./public", c.Request.URL.Path) {
			c.File("./public" + c.Request.URL.Path)
			return
		}
		if fileExists("./public", "/index.html") {
			c.File("./public/index.html")
			return
		}
		AbortWithError(c, ErrNotFound)
	})
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean(reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" || clean == ".." {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
