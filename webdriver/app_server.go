package webdriver

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/phayes/freeport"
	"github.com/sirupsen/logrus"
)

//go:embed fixtures/portal.html
var portalFixture []byte

// Values the fixture portal renders or accepts. Runs against the fixture
// fill blank credentials with these.
const (
	FixtureEmail        = "qa@example.com"
	FixtureMobileNumber = "9876543210"
	FixtureOTP          = "123456"
	FixtureSupportEmail = "support@example.com"
)

// AppServer is an abstraction for navigating an instance of the portal.
type AppServer interface {
	// Hook for closing whatever serves the portal.
	io.Closer

	// GetPortalURL returns the URL for the given path on the running portal.
	GetPortalURL(path string) string
}

type remoteAppServer struct {
	baseURL string
}

func (s *remoteAppServer) GetPortalURL(path string) string {
	return s.baseURL + path
}

func (s *remoteAppServer) Close() error {
	return nil // Nothing needed here :)
}

// NewRemoteAppServer targets an already deployed portal.
func NewRemoteAppServer(baseURL string) AppServer {
	return &remoteAppServer{baseURL: strings.TrimRight(baseURL, "/")}
}

// FixtureServerInstance serves a static rendition of the portal's login,
// profile and support surfaces on localhost, for running the suite without
// a deployed environment.
type FixtureServerInstance interface {
	AppServer

	// AwaitReady waits until the server answers its health check.
	AwaitReady(ctx context.Context) error
}

type fixtureServerInstance struct {
	host           string
	port           int
	startupTimeout time.Duration

	server    *http.Server
	accessLog *io.PipeWriter
	errc      chan error
}

// NewFixtureServer starts the fixture server on a free port. Access logs go
// to log at debug level.
func NewFixtureServer(log *logrus.Entry) (FixtureServerInstance, error) {
	port, err := freeport.GetFreePort()
	if err != nil {
		return nil, fmt.Errorf("pick fixture port: %w", err)
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	i := &fixtureServerInstance{
		host:           "localhost",
		port:           port,
		startupTimeout: 15 * time.Second,
		accessLog:      log.WriterLevel(logrus.DebugLevel),
		errc:           make(chan error, 1),
	}
	i.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", i.host, i.port),
		Handler:           handlers.LoggingHandler(i.accessLog, fixtureRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	listener, err := net.Listen("tcp", i.server.Addr)
	if err != nil {
		i.accessLog.Close()
		return nil, fmt.Errorf("listen on %s: %w", i.server.Addr, err)
	}
	go func() {
		i.errc <- i.server.Serve(listener)
	}()
	return i, nil
}

func fixtureRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.PathPrefix("/static/").HandlerFunc(http.NotFound)
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(portalFixture)
	}).Methods(http.MethodGet)
	return r
}

func (i *fixtureServerInstance) GetPortalURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", i.host, i.port, path)
}

func (i *fixtureServerInstance) AwaitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, i.startupTimeout)
	defer cancel()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-i.errc:
			i.errc <- err
			return fmt.Errorf("fixture server exited: %w", err)
		case <-ctx.Done():
			return fmt.Errorf("fixture server not ready after %s: %w", i.startupTimeout, ctx.Err())
		case <-ticker.C:
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.GetPortalURL("/healthz"), nil)
		if err != nil {
			return err
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			continue
		}
		res.Body.Close()
		if res.StatusCode == http.StatusOK {
			return nil
		}
	}
}

func (i *fixtureServerInstance) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := i.server.Shutdown(ctx)
	i.accessLog.Close()
	if serveErr := <-i.errc; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	return err
}

// NewAppServer returns the fixture server, started and ready, when fixture
// is set and the remote portal at baseURL otherwise.
func NewAppServer(ctx context.Context, baseURL string, fixture bool, log *logrus.Entry) (AppServer, error) {
	if !fixture {
		if baseURL == "" {
			return nil, errors.New("no portal base URL and fixture server disabled")
		}
		return NewRemoteAppServer(baseURL), nil
	}
	app, err := NewFixtureServer(log)
	if err != nil {
		return nil, err
	}
	if err := app.AwaitReady(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}
