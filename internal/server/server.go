package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/config"
	"github.com/agenthands/mechcheck/internal/core"
	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
	"github.com/agenthands/mechcheck/internal/core/summary"
	"github.com/agenthands/mechcheck/internal/core/translate"
)

type Server struct {
	Config  *config.Config
	Checker *core.Checker
	Metrics *Metrics
	Logger  *zap.Logger
}

func NewServer(cfg *config.Config, checker *core.Checker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Config:  cfg,
		Checker: checker,
		Metrics: NewMetrics(),
		Logger:  logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/versions", s.ListVersions)
	r.POST("/check", s.Check)
	r.GET("/check/:version", s.CheckVersion)
	r.POST("/translate", s.Translate)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})))

	return r
}

func (s *Server) ListVersions(c *gin.Context) {
	names := make([]string, 0, len(s.Config.Versions))
	for _, v := range s.Config.Versions {
		names = append(names, v.Name)
	}
	c.JSON(http.StatusOK, gin.H{"versions": names})
}

type CheckRequest struct {
	Versions []string `json:"versions"`
	Publish  bool     `json:"publish"`
}

func (s *Server) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	versions := s.Config.Versions
	if len(req.Versions) > 0 {
		versions = versions[:0:0]
		for _, name := range req.Versions {
			v, ok := s.Config.Version(name)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown version " + name})
				return
			}
			versions = append(versions, v)
		}
	}

	results := s.Checker.RunAll(c.Request.Context(), versions)
	s.Metrics.Observe(results)

	if req.Publish {
		if err := s.Checker.Publish(c.Request.Context(), results); err != nil {
			s.Logger.Error("Failed to publish results", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish results"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "summary": summary.Summarize(results)})
}

func (s *Server) CheckVersion(c *gin.Context) {
	v, ok := s.Config.Version(c.Param("version"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown version"})
		return
	}

	res, err := s.Checker.Run(c.Request.Context(), v)
	s.Metrics.Observe([]*model.VersionResult{res})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrIO) || errors.Is(err, common.ErrFormat) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error(), "result": res})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": res})
}

type TranslateRequest struct {
	Version string `json:"version"`
	Name    string `json:"name"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type TranslateResponse struct {
	Name       string   `json:"name"`
	Translated string   `json:"translated"`
	Mass       *float64 `json:"mass,omitempty"`
}

func (s *Server) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	v, ok := s.Config.Version(req.Version)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown version"})
		return
	}
	from := v.Primary()
	if req.From != "" {
		from = model.Convention(req.From)
	}
	to := v.Structural()
	if req.To != "" {
		to = model.Convention(req.To)
	}

	tbl, err := s.Checker.Tables.Get(v.Path(v.Database), v.Markers.Separator)
	if err != nil {
		s.Logger.Error("Failed to load table", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load translation table"})
		return
	}

	tr := translate.NewTranslator(tbl, v.Policy(), s.Logger)
	translated, err := tr.Translate(req.Name, from, to)
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := TranslateResponse{Name: req.Name, Translated: translated}
	if row, err := tr.Row(req.Name, from); err == nil && tbl.HasColumn(v.Mass()) {
		if mass, err := tbl.Mass(row, v.Mass()); err == nil {
			resp.Mass = &mass
		}
	}
	c.JSON(http.StatusOK, resp)
}
