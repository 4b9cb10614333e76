// Package server exposes triage runs over HTTP.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/inbox-triage/internal/config"
	"github.com/mikey/inbox-triage/internal/core"
	"github.com/mikey/inbox-triage/internal/monitoring"
	"github.com/mikey/inbox-triage/internal/rules"
)

// Server wires the triage service into a gin router. Only one run may be
// in flight at a time; concurrent triggers are rejected with 409.
type Server struct {
	service     *core.TriageService
	credentials core.CredentialProvider
	cfg         *config.Config
	metrics     *monitoring.Metrics
	logger      *zap.Logger
	running     sync.Mutex
}

// New creates a new HTTP server façade
func New(service *core.TriageService, credentials core.CredentialProvider, cfg *config.Config, metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	return &Server{
		service:     service,
		credentials: credentials,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

// Router builds the gin engine
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/triage", s.handleTriage)
	api.POST("/mark", s.handleMark)

	return router
}

// triageRequest lets a caller override the configured rule inputs per run
type triageRequest struct {
	DryRun       *bool  `json:"dry_run"`
	DaysBack     string `json:"days_back"`
	VIPSenders   string `json:"vip_senders"`
	LowSenders   string `json:"low_senders"`
	HighSubjects string `json:"high_subjects"`
	LowSubjects  string `json:"low_subjects"`
}

func (s *Server) handleTriage(c *gin.Context) {
	if !s.running.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a triage run is already in flight"})
		return
	}
	defer s.running.Unlock()

	var req triageRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dryRun := s.cfg.GetTriage().DryRun
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	session, ruleSet, err := s.prepare(c, req)
	if err != nil {
		return
	}

	result, err := s.service.Run(c.Request.Context(), session, ruleSet, dryRun)
	if err != nil {
		s.metrics.ObserveRun("triage", "error", 0)
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveRun("triage", "ok", result.Elapsed)
	s.metrics.MessagesFetched.Add(float64(len(result.PriorityList) + len(result.LowPriorityList)))
	if !result.DryRun {
		s.metrics.MessagesMarked.Add(float64(result.MarkedCount))
		if result.Mark != nil {
			s.metrics.MarkFailures.Add(float64(len(result.Mark.Failed)))
		}
	}

	c.JSON(http.StatusOK, toTriageResponse(result))
}

func (s *Server) handleMark(c *gin.Context) {
	if !s.running.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a triage run is already in flight"})
		return
	}
	defer s.running.Unlock()

	var req triageRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, ruleSet, err := s.prepare(c, req)
	if err != nil {
		return
	}

	started := time.Now()
	marked, mark, err := s.service.MarkLowPriority(c.Request.Context(), session, ruleSet)
	if err != nil {
		s.metrics.ObserveRun("mark", "error", 0)
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveRun("mark", "ok", time.Since(started))
	s.metrics.MessagesMarked.Add(float64(marked))
	s.metrics.MarkFailures.Add(float64(len(mark.Failed)))

	c.JSON(http.StatusOK, gin.H{
		"marked_count": marked,
		"succeeded":    len(mark.Succeeded),
		"failed":       mark.Failed,
	})
}

// prepare resolves the session and rule set for one request. On failure
// it writes the error response and returns a non-nil error.
func (s *Server) prepare(c *gin.Context, req triageRequest) (core.Session, core.RuleSet, error) {
	credential, err := s.credentials.Credential(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return core.Session{}, core.RuleSet{}, err
	}

	triageConfig := s.cfg.GetTriage()
	input := rules.Input{
		HighSenders:  firstNonEmpty(req.VIPSenders, triageConfig.VIPSenders),
		LowSenders:   firstNonEmpty(req.LowSenders, triageConfig.LowSenders),
		HighSubjects: firstNonEmpty(req.HighSubjects, triageConfig.HighSubjects),
		LowSubjects:  firstNonEmpty(req.LowSubjects, triageConfig.LowSubjects),
		DaysBack:     firstNonEmpty(req.DaysBack, triageConfig.DaysBack),
	}

	session := core.Session{
		UserAddress: normalizeAddress(s.cfg.GetUserAddress()),
		Credential:  credential,
	}
	return session, rules.Resolve(input), nil
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if core.IsAuthError(err) {
		status = http.StatusUnauthorized
	}
	s.logger.Error("Run failed", zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
