package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"google.golang.org/grpc"

	"calendar-manager/internal/auth"
	"calendar-manager/internal/config"
	"calendar-manager/internal/handler"
	"calendar-manager/internal/logging"
	"calendar-manager/internal/middleware"
	"calendar-manager/internal/store"
	"calendar-manager/internal/web"
)

func main() {
	app := &cli.App{
		Name:   "calendar-manager",
		Usage:  "Event calendar with participants, served over HTTP and gRPC.",
		Action: serve,
		Flags:  []cli.Flag{envFileFlag()},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web UI and the optional gRPC service.",
				Flags:  []cli.Flag{envFileFlag()},
				Action: serve,
			},
			{
				Name:   "hash-password",
				Usage:  "Print a bcrypt hash for AUTH_PASSWORD_HASH.",
				Action: hashPassword,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func envFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env-file",
		Usage: "dotenv file to load before reading the environment",
		Value: ".env",
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL,
		store.WithLocation(cfg.Location),
		store.WithLogger(component(log, "store")),
	)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	log.Info().Str("driver", cfg.DBDriver).Msg("store ready")

	ac := auth.Config{Secret: cfg.JWTSecret, PasswordHash: cfg.PasswordHash, TTL: cfg.TokenTTL}
	if !cfg.AuthEnabled() {
		log.Warn().Msg("authentication disabled; set JWT_SECRET and AUTH_PASSWORD_HASH to enable it")
	}
	h := handler.New(st, ac, component(log, "handler"))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	defer rl.Stop()

	// grpc server, optional
	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		grpcSrv = grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				middleware.RateLimit(rl),
				middleware.Auth(ac),
			),
		)
		handler.RegisterCalendarServiceServer(grpcSrv, h)

		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		go func() {
			log.Info().Str("port", cfg.GRPCPort).Msg("grpc listening")
			if err := grpcSrv.Serve(lis); err != nil {
				log.Error().Err(err).Msg("grpc")
			}
		}()
	}

	srv := web.New(h, web.Config{
		Auth:     ac,
		Limiter:  rl,
		Location: st.Location(),
		Origins:  cfg.CORSOrigins,
		DB:       st.DB(),
		Logger:   log,
	})
	defer srv.Close()
	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.WebPort).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return fmt.Errorf("http: %w", err)
	}

	// graceful shutdown
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// hashPassword reads the password twice without echo on a terminal, or one
// line from stdin when piped.
func hashPassword(c *cli.Context) error {
	fd := int(os.Stdin.Fd())

	var pw string
	if term.IsTerminal(fd) {
		first, err := readSecret(fd, "Password: ")
		if err != nil {
			return err
		}
		second, err := readSecret(fd, "Confirm password: ")
		if err != nil {
			return err
		}
		if first != second {
			return errors.New("passwords do not match")
		}
		pw = first
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	if pw == "" {
		return errors.New("password must not be empty")
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Fprintln(c.App.Writer, hash)
	return nil
}

func readSecret(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
