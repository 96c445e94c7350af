package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	policy, err := cfg.Policy()
	if err != nil {
		slog.Error("invalid election policy", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect and verify, retrying while the database comes up
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn)
	events := db.NewEventLog(dbConn, slog.Default())
	sink := election.MultiSink{election.LogSink{Logger: slog.Default()}, events}

	el, err := loadElection(ctx, store, cfg, election.WithPolicy(policy), election.WithSink(sink))
	if err != nil {
		slog.Error("election setup failed", "error", err)
		os.Exit(1)
	}

	summary := el.Summary()
	slog.Info("Election ready",
		"owner", summary.Owner.Hex(),
		"status", summary.Status.String(),
		"voters", summary.VoterCount,
		"proposals", summary.ProposalCount,
		"tie_break", policy.TieBreak.Name(),
	)
	slog.Info("Owner admin key", "admin_key", auth.GenerateAdminKey(el.Owner(), cfg.AdminKeySalt))

	// Create router
	mux := router.NewRouter(el, store, events, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// loadElection restores the stored election, or creates and stores a new
// one owned by the configured owner.
func loadElection(ctx context.Context, store *db.Store, cfg cliparse.Config, opts ...election.Option) (*election.Election, error) {
	snap, ok, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if ok {
		if snap.Owner != cfg.Owner() {
			return nil, fmt.Errorf("stored election is owned by %s, configured owner is %s", snap.Owner.Hex(), cfg.Owner().Hex())
		}
		el, err := election.Restore(snap, opts...)
		if err != nil {
			return nil, fmt.Errorf("restore election: %w", err)
		}
		slog.Info("Election restored", "seq", snap.Seq)
		return el, nil
	}

	el, err := election.New(cfg.Owner(), opts...)
	if err != nil {
		return nil, err
	}
	if _, err := store.SaveSnapshot(ctx, el.Snapshot()); err != nil {
		return nil, fmt.Errorf("save new election: %w", err)
	}
	slog.Info("Election created")
	return el, nil
}
