package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"farmconnect/pkg/domain/service"
	"farmconnect/pkg/infrastructure/app"
	"farmconnect/pkg/infrastructure/event"
	"farmconnect/pkg/infrastructure/monitor"
	"farmconnect/pkg/infrastructure/notify"
	"farmconnect/pkg/infrastructure/password"
	"farmconnect/pkg/infrastructure/repository"
	"farmconnect/pkg/infrastructure/seed"
	"farmconnect/pkg/infrastructure/storage"
	"farmconnect/pkg/infrastructure/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	a := &cli.App{
		Name:  appID,
		Usage: "farm marketplace console",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "seed empty slots and serve the HTTP API",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "write demo data into empty slots",
				Action: seedStore,
			},
			{
				Name:   "migrate",
				Usage:  "apply MySQL migrations",
				Action: migrate,
			},
		},
	}

	if err := a.Run(os.Args); err != nil {
		log.WithError(err).Fatal("farmconnect failed")
	}
}

func serve(c *cli.Context) error {
	cnf, err := parseEnvs()
	if err != nil {
		return err
	}
	initLogger(cnf.LogLevel)
	if cnf.JWTSecret == "" {
		return errors.New("FARMCONNECT_JWT_SECRET is not set")
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := storage.Open(ctx, cnf.storage())
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer store.Close()

	passwords := password.NewBcryptManager(cnf.BcryptCost)
	if _, err := seed.NewSeeder(store, passwords).Run(ctx); err != nil {
		return err
	}

	hub := event.NewHub(nil)
	dispatchers := event.Fanout{event.NewLogDispatcher(log.WithField("component", "events")), hub}
	if cnf.AMQPURL != "" {
		publisher, err := event.DialAMQP(ctx, cnf.AMQPURL, cnf.AMQPExchange, cnf.ConnectTimeout)
		if err != nil {
			return err
		}
		defer publisher.Close()
		dispatchers = append(dispatchers, publisher)
	}

	mon := monitor.New(cnf.MonitorInterval, nil, func(s monitor.Snapshot) {
		if err := hub.Publish(event.NewEnvelope("MonitorSnapshot", s)); err != nil {
			log.WithError(err).Warn("failed to publish monitor snapshot")
		}
	})

	console := newConsole(store, cnf, passwords, dispatchers)
	handler := transport.Router(console, transport.NewTokenIssuer(cnf.JWTSecret, cnf.TokenTTL), mon, hub, transport.Config{
		AllowedOrigins:    cnf.AllowedOrigins,
		AuthRatePerMinute: cnf.RateLimit,
		AuthRateBurst:     cnf.RateBurst,
	})

	httpServer := &http.Server{
		Addr:              cnf.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(appID, grpc_health_v1.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		mon.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.WithField("address", cnf.HTTPAddress).Info("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		listener, err := net.Listen("tcp", cnf.GRPCAddress)
		if err != nil {
			return errors.Wrap(err, "listen grpc")
		}
		log.WithField("address", cnf.GRPCAddress).Info("starting grpc health server")
		return errors.Wrap(grpcServer.Serve(listener), "grpc server")
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return errors.Wrap(err, "shutdown http server")
	})

	return g.Wait()
}

func seedStore(c *cli.Context) error {
	cnf, err := parseEnvs()
	if err != nil {
		return err
	}
	initLogger(cnf.LogLevel)

	store, err := storage.Open(c.Context, cnf.storage())
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer store.Close()

	seeded, err := seed.NewSeeder(store, password.NewBcryptManager(cnf.BcryptCost)).Run(c.Context)
	if err != nil {
		return err
	}
	log.WithField("slots", seeded).Info("seeded")
	return nil
}

func migrate(c *cli.Context) error {
	cnf, err := parseEnvs()
	if err != nil {
		return err
	}
	initLogger(cnf.LogLevel)

	if cnf.MySQLDSN == "" {
		return errors.New("FARMCONNECT_MYSQL_DSN is not set")
	}
	return storage.Migrate(c.Context, cnf.MySQLDSN)
}

func newConsole(store storage.Store, cnf *config, passwords *password.BcryptManager, dispatcher service.EventDispatcher) *service.Console {
	return app.NewConsole(app.Dependencies{
		Repositories: repository.New(store, cnf.DBQueryTimeout),
		Passwords:    passwords,
		Sender:       notify.NewLogSender(log.WithField("component", "notify")),
		Dispatcher:   dispatcher,
	})
}
