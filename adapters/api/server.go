package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"goaffect/app"
	"goaffect/domain/core"
	"goaffect/internal"
	"goaffect/internal/errors"
	"goaffect/ports"
)

// Server exposes the analysis engine over HTTP. The analyze route is
// bounded by a weighted semaphore so a burst of expensive runs cannot
// starve the read paths.
type Server struct {
	router   *gin.Engine
	service  *app.AnalysisService
	ledger   ports.ReportReaderPort
	analyses *semaphore.Weighted
	log      *internal.Logger
}

// NewServer wires the routes. maxConcurrent bounds simultaneous analysis
// runs; values below 1 are raised to 1.
func NewServer(service *app.AnalysisService, ledger ports.ReportReaderPort, maxConcurrent int64, logger *internal.Logger) *Server {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Server{
		router:   gin.New(),
		service:  service,
		ledger:   ledger,
		analyses: semaphore.NewWeighted(maxConcurrent),
		log:      logger.WithComponent("api-server"),
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	v1.GET("/health", s.handleHealth)
	v1.POST("/analyses", s.handleCreateAnalysis)
	v1.GET("/analyses", s.handleListAnalyses)
	v1.GET("/analyses/:id", s.handleGetAnalysis)
	v1.GET("/sessions/:session/latest", s.handleLatestForSession)
}

// Start runs the server on the given address
func (s *Server) Start(addr string) error {
	s.log.Info("Starting analysis API on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCreateAnalysis(c *gin.Context) {
	if !s.analyses.TryAcquire(1) {
		c.Header("Retry-After", "1")
		s.respondError(c, http.StatusServiceUnavailable, errors.CodeCapacityExhausted,
			"analysis capacity exhausted, retry shortly")
		return
	}
	defer s.analyses.Release(1)

	var payload analyzeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.CodeInvalidInput,
			"malformed request body: "+err.Error())
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, errors.CodeInvalidInput, err.Error())
		return
	}

	report, err := s.service.Run(c.Request.Context(), req)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	c.Header("Location", "/api/v1/analyses/"+report.ID.String())
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	id, err := core.ParseReportID(c.Param("id"))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, errors.CodeInvalidInput, err.Error())
		return
	}
	report, err := s.ledger.GetReport(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	filters := ports.ReportFilters{}
	if raw := c.Query("session_id"); raw != "" {
		session := core.SessionID(raw)
		filters.SessionID = &session
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filters.Limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filters.Offset = n
		}
	}

	summaries, err := s.ledger.ListReports(c.Request.Context(), filters)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": summaries, "count": len(summaries)})
}

func (s *Server) handleLatestForSession(c *gin.Context) {
	session := core.SessionID(c.Param("session"))
	report, err := s.ledger.LatestReportForSession(c.Request.Context(), session)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// respondServiceError maps domain sentinels and app error codes onto
// HTTP statuses
func (s *Server) respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch {
	case core.IsNotFoundError(err) || code == errors.CodeNotFound:
		status = http.StatusNotFound
		code = errors.CodeNotFound
	case core.IsValidationError(err) || code == errors.CodeInvalidInput || code == errors.CodeValidationError:
		status = http.StatusBadRequest
		if code == "UNKNOWN" {
			code = errors.CodeInvalidInput
		}
	case core.IsInsufficientData(err) || code == errors.CodeInsufficientData:
		status = http.StatusUnprocessableEntity
		code = errors.CodeInsufficientData
	case code == errors.CodeIngestError || code == errors.CodeExternalService:
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed: %v", err)
	}
	s.respondError(c, status, code, err.Error())
}

func (s *Server) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Code: code, Error: message})
}
