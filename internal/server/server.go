package server

import (
	"context"
	"errors"
	"net/http"

	"sneakerhub/internal/handler"
	"sneakerhub/internal/middleware"
	"sneakerhub/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	e      *echo.Echo
	addr   string
	logger *zap.Logger
}

// New は echo を組み立ててルートを登録する
func New(addr string, logger *zap.Logger, h Handlers, g handler.Guards) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewRequestValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, h, g)

	return &Server{e: e, addr: addr, logger: logger}
}

// テストから httptest で叩く用
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start は Shutdown されるまで戻らない
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.addr))
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
