package rpc

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

// ServeHTTP exposes the same protocol over HTTP POST. One request body, one
// response body; notifications get 202 with no payload. Shuts down when the
// context is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	if !config.GlobalConfig.GetDebugRPC() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/rpc", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(nil, CodeParseError, "could not read request body"))
			return
		}
		resp := s.Handle(c.Request.Context(), body)
		if resp == nil {
			c.Status(http.StatusAccepted)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("http transport listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return hwerrors.WrapAndTrace(err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err != nil && !hwerrors.Is(err, http.ErrServerClosed) {
			return hwerrors.WrapAndTrace(err)
		}
		return nil
	}
}
