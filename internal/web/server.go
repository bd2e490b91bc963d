// Package web serves the projects section of the portfolio.
//
// The page is delivered with a loading indicator and pulls the cards from
// /projects once it is in the browser, so the Loading phase is visible to
// visitors. Every fragment request runs a fresh load.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

type Settings struct {
	User        string
	Timeout     time.Duration
	CORSOrigins []string
}

type Server struct {
	feeder   pipeline.Feeder
	settings Settings
	tracker  *Tracker
	engine   *gin.Engine
}

func New(feeder pipeline.Feeder, settings Settings) *Server {
	s := &Server{
		feeder:   feeder,
		settings: settings,
		tracker:  &Tracker{},
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.index)
	r.GET("/projects", s.projects)
	r.POST("/projects/refresh", s.projects)
	r.GET("/health", s.health)

	api := r.Group("/api")
	api.Use(corsMiddleware(settings.CORSOrigins))
	api.GET("/projects", s.projectsJSON)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", addr).Info("Serving portfolio feed")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// load runs one pipeline invocation and returns the freshest accepted
// result, which is res itself unless a newer overlapping load won.
func (s *Server) load(ctx context.Context) pipeline.Result {
	token := s.tracker.Begin()
	res := pipeline.Run(ctx, s.feeder, s.settings.User, pipeline.Options{Timeout: s.settings.Timeout})
	if s.tracker.Complete(token, res) {
		return res
	}
	log.WithField("token", token).Debug("Discarding stale projects result")
	latest, _ := s.tracker.Latest()
	return latest
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"User":    s.settings.User,
		"Loading": feed.LoadingMessage,
	})
}

func (s *Server) projects(c *gin.Context) {
	c.HTML(http.StatusOK, "projects.html", s.load(c.Request.Context()))
}

func (s *Server) projectsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.load(c.Request.Context()))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Origin", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("Request")
	}
}
