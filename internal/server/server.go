package server

import (
	"context"
	"errors"
	"github.com/brpaz/echozap"
	"github.com/cirruslabs/hashmap/internal/hashmap"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net"
	"net/http"
	"strings"
	"time"
)

type Server struct {
	listener   net.Listener
	httpServer *http.Server
	logger     *zap.SugaredLogger

	hashMap        *hashmap.HashMap
	bodyLimitBytes uint64
}

func New(addr string, hashMap *hashmap.HashMap, opts ...Option) (*Server, error) {
	server := &Server{
		hashMap: hashMap,
	}

	// Apply options
	for _, opt := range opts {
		opt(server)
	}

	// Apply defaults
	if server.logger == nil {
		server.logger = zap.NewNop().Sugar()
	}

	// Listen on the desired port
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	server.listener = listener

	// Configure HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echozap.ZapLogger(server.logger.Desugar()))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})

	group := e.Group("/api/map")
	group.GET("/:key", server.get)
	group.POST("/:key", server.set)
	group.PUT("/:key", server.update)
	group.DELETE("/:key", server.delete)

	server.httpServer = &http.Server{
		Handler:           e,
		ReadHeaderTimeout: 30 * time.Second,
	}

	return server, nil
}

func (server *Server) Addr() string {
	return strings.ReplaceAll(server.listener.Addr().String(), "[::]", "127.0.0.1")
}

func (server *Server) Run(ctx context.Context) error {
	server.logger.Infof("listening on %s", server.Addr())

	go func() {
		<-ctx.Done()

		_ = server.httpServer.Close()
	}()

	if err := server.httpServer.Serve(server.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
