package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/student-registry/internal/api"
	"github.com/ignite/student-registry/internal/config"
	"github.com/ignite/student-registry/internal/pkg/logger"
	"github.com/ignite/student-registry/internal/pkg/metrics"
	"github.com/ignite/student-registry/internal/repository/postgres"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/service/audience"
	"github.com/ignite/student-registry/internal/service/statistics"
	"github.com/ignite/student-registry/internal/taxonomy"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %w", port, addr, err)
	}
	ln.Close()
	return nil
}

// extractHost returns the host part of a postgres URL for logging without
// the credentials.
func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		fatal("failed to load config", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.Redact())

	if cfg.Database.URL == "" {
		fatal("database url is required", fmt.Errorf("set database.url or DATABASE_URL"))
	}
	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		fatal("pre-flight check failed", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		fatal("failed to open database", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		// The health endpoints report the outage; requests fail until the
		// database comes back.
		logger.Warn("database ping failed", "host", extractHost(cfg.Database.URL), "error", err)
	} else {
		logger.Info("database connected", "host", extractHost(cfg.Database.URL))
	}
	pingCancel()

	students := schema.StudentEntity(cfg.Schema.Name, cfg.Schema.StudentsTable, cfg.Schema.Columns)
	deliveries := schema.DeliveryEntity(cfg.Schema.Name, cfg.Schema.DeliveriesTable, cfg.Schema.Columns)

	var text taxonomy.TextSource = taxonomy.LocalText{}
	if cfg.Taxonomy.Normalizer == config.NormalizerPostgres {
		text = postgres.NewArabicText(db)
	}

	repo := postgres.NewRecordRepo(db, cfg.Database.QueryTimeout())
	m := metrics.New()

	statsSvc := statistics.NewService(repo, statistics.Options{
		Students:   students,
		Deliveries: deliveries,
		Text:       text,
		Metrics:    m,
	})
	audienceSvc := audience.NewService(repo, audience.Options{
		Students:        students,
		Text:            text,
		MaxRecipients:   cfg.Audience.MaxRecipients,
		PhonePreference: phoneAttributes(cfg.Audience.PhoneColumns),
		PlaceholderName: cfg.Audience.PlaceholderName,
		Metrics:         m,
	})

	server := api.NewServer(
		cfg.Server,
		api.NewHandlers(statsSvc, audienceSvc),
		api.NewHealthChecker(db, students, deliveries),
	)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		logger.Info("starting server", "addr", addr, "normalizer", cfg.Taxonomy.Normalizer)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			fatal("server error", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

// phoneAttributes maps configured phone attribute names onto schema
// attributes, dropping anything that is not a phone attribute.
func phoneAttributes(names []string) []schema.Attribute {
	var out []schema.Attribute
	for _, n := range names {
		switch a := schema.Attribute(strings.TrimSpace(n)); a {
		case schema.AttrPhone, schema.AttrEmergencyPhone:
			out = append(out, a)
		default:
			logger.Warn("ignoring unknown phone attribute", "attribute", n)
		}
	}
	return out
}

func fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
