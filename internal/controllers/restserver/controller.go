package restserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/layout"
	"github.com/danielsamet/room-sensor-data/internal/types"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ChartSource produces a fresh set of readings and room charts ending at now
type ChartSource interface {
	Charts(ctx context.Context, now time.Time) ([]layout.RoomChart, []types.Reading, error)
	Mount() string
}

// Controller represents the REST server controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	Server   http.Server
	source   ChartSource
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller listening on addr
func NewController(ctx context.Context, wg *sync.WaitGroup, source ChartSource, addr string, logger *zap.SugaredLogger) *Controller {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		source: source,
		logger: logger,
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = addr
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl
}

// Handler returns the router wrapped in access logging and compression
func (c *Controller) Handler() http.Handler {
	accessLog := zap.NewStdLog(c.logger.Desugar()).Writer()
	return handlers.LoggingHandler(accessLog, handlers.CompressHandler(c.setupRouter()))
}

// StartController binds the listen address and starts the REST server. A bind
// failure is returned to the caller.
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %s...", c.Server.Addr)

	ln, err := net.Listen("tcp", c.Server.Addr)
	if err != nil {
		return fmt.Errorf("REST server could not listen on %s: %w", c.Server.Addr, err)
	}
	// port 0 resolves to the port actually bound
	c.Server.Addr = ln.Addr().String()

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.Serve(ln); err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}

// Addr is the host:port the server listens on, resolved once started
func (c *Controller) Addr() string {
	return c.Server.Addr
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", c.handlers.ServeCharts).Methods(http.MethodGet)
	router.HandleFunc("/layout", c.handlers.GetLayout).Methods(http.MethodGet)
	router.HandleFunc("/readings", c.handlers.GetReadings).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{room}/{metric}.png", c.handlers.ServeRoomPNG).Methods(http.MethodGet)

	return router
}
