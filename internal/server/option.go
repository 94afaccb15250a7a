package server

import (
	"go.uber.org/zap"
)

type Option func(server *Server)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(server *Server) {
		server.logger = logger
	}
}

// WithBodyLimit rejects values larger than limitBytes with HTTP 413.
func WithBodyLimit(limitBytes uint64) Option {
	return func(server *Server) {
		server.bodyLimitBytes = limitBytes
	}
}
