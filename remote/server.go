package remote

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/dayplan/internal/session"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/store"
)

const userKeyCtx = "dayplan.user"

// Server is a reference remote task store. Ledgers are validated on write and
// kept in a store.DB, scoped by the user each bearer token maps to.
type Server struct {
	db     store.DB
	router *gin.Engine
	log    *slog.Logger
	tokens map[string]string
}

// NewServer returns a server backed by db. tokens maps bearer tokens to user
// keys; when it is empty every request is served as the anonymous user.
func NewServer(db store.DB, tokens map[string]string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	s := &Server{
		db:     db,
		router: router,
		log:    logger.With(slog.String("component", "server")),
		tokens: tokens,
	}

	router.Use(gin.Recovery(), s.logRequest)

	api := router.Group("/api")
	api.Use(s.authenticate)
	{
		api.GET("/tasks/:date", s.handleGetTasks)
		api.POST("/tasks/:date", s.handlePostTasks)
	}

	return s
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("listening", slog.String("addr", addr))

	err := s.router.Run(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()

	c.Next()

	s.log.Info(
		"request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("latency", time.Since(start)),
	)
}

func (s *Server) authenticate(c *gin.Context) {
	if len(s.tokens) == 0 {
		c.Set(userKeyCtx, session.AnonymousKey)
		c.Next()

		return
	}

	header := c.GetHeader("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	user, ok := s.tokens[strings.TrimSpace(token)]
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(userKeyCtx, user)
	c.Next()
}

// dateParam returns the validated :date path parameter.
func dateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")

	if _, err := time.Parse(timeutil.DateFormat, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return "", false
	}

	return date, true
}

func (s *Server) handleGetTasks(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}

	tasks, found := s.db.Get(c.GetString(userKeyCtx), date)
	if !found {
		c.JSON(http.StatusOK, TaskList{})
		return
	}

	c.JSON(http.StatusOK, TaskList{Tasks: tasks})
}

func (s *Server) handlePostTasks(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var p Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := ledger.FromTasks(date, p.Tasks)
	if err := l.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := c.GetString(userKeyCtx)

	_, existed := s.db.Get(user, date)

	if err := s.db.Set(user, date, l.Tasks()); err != nil {
		s.log.Error("saving ledger failed", slog.String("date", date), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save tasks"})

		return
	}

	s.log.Debug(
		"ledger saved",
		slog.String("user", user),
		slog.String("date", date),
		slog.Int("efficiency", p.Summary.Efficiency),
	)

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}

	c.JSON(status, TaskList{Tasks: l.Tasks()})
}
