package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/webmention/internal/config"
	"github.com/emrgen/webmention/internal/jobs"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/queue"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server represents the server
type Server struct {
	grpcPort string
	httpPort string
}

// NewServer creates a new server
func NewServer(grpcPort, httpPort string) *Server {
	return &Server{
		grpcPort: grpcPort,
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.grpcPort, s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start runs the webmention endpoint, the workers and the scheduled jobs
// until the process is signalled.
func Start(grpcPort, httpPort string) error {
	var err error

	grpcPort = ":" + grpcPort
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	app, err := NewApp(cnf)
	if err != nil {
		return err
	}
	defer app.Close()

	gl, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		gl.Close()
		return err
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
			UnaryGrpcRecoveryInterceptor(),
			// log the request time
			UnaryGrpcRequestTimeInterceptor(),
		)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Redis.Ping(ctx); err != nil {
		logrus.Errorf("redis is not reachable: %v", err)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	}

	pool := queue.NewPool(app.Queue, cnf.Workers, func(ctx context.Context, req *mention.Request) {
		app.Service.Process(ctx, req)
	})
	if err := pool.Start(ctx); err != nil {
		return err
	}

	executor := jobs.NewTaskExecutor(nil, []jobs.CronJob{
		jobs.NewStatsTrimmer(cnf.JobSchedule, cnf.StatsRetention, app.Status),
		jobs.NewCaptureCleaner(cnf.JobSchedule, cnf.CaptureRetention, app.Store),
	})
	if err := executor.Run(); err != nil {
		return err
	}
	defer executor.Stop()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"}, // senders post from anywhere
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	})

	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           c.Handler(RequestTime(NewHandler(app.Queue, app.Status).Routes())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting webmention endpoint on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting webmention endpoint: %v", err)
			}
		}
		logrus.Infof("webmention endpoint stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting grpc health server on: ", grpcPort)
		if err := grpcServer.Serve(gl); err != nil {
			logrus.Infof("grpc failed to start: %v", err)
		}
		logrus.Infof("grpc server stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	healthServer.Shutdown()
	err = restServer.Shutdown(context.Background())
	if err != nil {
		logrus.Errorf("error stopping webmention endpoint: %v", err)
	}
	grpcServer.GracefulStop()

	// nothing publishes anymore, let the workers empty the queue
	if err := pool.Drain(); err != nil {
		logrus.Errorf("error closing webmention queue: %v", err)
	}
	cancel()
	wg.Wait()

	return nil
}
