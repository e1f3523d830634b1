// Package server exposes tree generation over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/willbeason/tree-armature/pkg/config"
	"github.com/willbeason/tree-armature/pkg/export"
	"github.com/willbeason/tree-armature/pkg/metrics"
	"github.com/willbeason/tree-armature/pkg/tree"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type Server struct {
	generator *tree.Generator
	defaults  config.TreeConfig
	logger    *slog.Logger
	engine    *gin.Engine
}

// New returns a server generating trees with gen. Requests start from defaults
// and override whichever fields they set.
func New(gen *tree.Generator, defaults config.TreeConfig, logger *slog.Logger) *Server {
	s := &Server{
		generator: gen,
		defaults:  defaults,
		logger:    logger,
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.observe())
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.POST("/v1/trees", s.createTree)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) createTree(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	req := s.defaults
	err = c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	gen := *s.generator
	gen.Parallel = req.Parallel
	params := req.Parameters()

	start := time.Now()
	trunk, err := gen.Generate(c.Request.Context(), params)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("rejected").Inc()
		s.logger.WarnContext(c.Request.Context(), "rejected tree parameters", "error", err)
		c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	metrics.GenerationsTotal.WithLabelValues("ok").Inc()
	metrics.SegmentsGenerated.Observe(float64(trunk.Count()))

	var buf bytes.Buffer
	err = export.Encode(&buf, export.NewDocument("Tree", params, trunk), format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tree.ErrInvalidParameter), errors.Is(err, tree.ErrInvalidTopology), errors.Is(err, tree.ErrResourceLimit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
