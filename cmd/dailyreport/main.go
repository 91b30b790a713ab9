package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/fardannozami/dailyreport/internal/app/identity"
	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/app/usecase"
	"github.com/fardannozami/dailyreport/internal/config"
	"github.com/fardannozami/dailyreport/internal/infra/httpapi"
	"github.com/fardannozami/dailyreport/internal/infra/scheduler"
	"github.com/fardannozami/dailyreport/internal/infra/sqlite"
	"github.com/fardannozami/dailyreport/internal/infra/wa"
	"github.com/fardannozami/dailyreport/internal/logging"
)

func main() {
	// 1. Config & logger
	cfg := config.Load()

	logger, err := logging.New(logging.Options{SystemName: "dailyreport", File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("Event ID: SERVICE_START, Description: starting daily report service")

	ctx := context.Background()

	// 2. Database & snapshot repository
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		logger.Fatalf("Event ID: DB_DIR_FAILED, Description: %v", err)
	}
	// WAL + busy timeout: whatsmeow shares the file
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.SQLitePath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Fatalf("Event ID: DB_OPEN_FAILED, Description: %v", err)
	}
	defer db.Close()

	repo := sqlite.NewSnapshotRepository(db)
	if err := repo.InitTable(ctx); err != nil {
		logger.Fatalf("Event ID: DB_INIT_FAILED, Description: %v", err)
	}
	keys, err := repo.Keys(ctx)
	if err != nil {
		logger.Fatalf("Event ID: DB_INIT_FAILED, Description: %v", err)
	}
	logger.Infof("Event ID: DB_READY, Description: %s holds snapshots %v", cfg.SQLitePath, keys)

	// 3. WhatsApp transport (optional)
	var waService *wa.Service
	identityOpts := []identity.Option{}
	if cfg.WAEnabled {
		waService = wa.NewService(cfg.SQLitePath, logging.NewWALogger(logger, "WhatsApp"), logger, sqlite.NewLIDResolver(db))
		identityOpts = append(identityOpts, identity.WithNotifier(wa.PasswordNotifier{Sender: waService}))
	}

	// 4. Stores
	users := identity.NewStore(repo, identity.BcryptHasher{Cost: cfg.BcryptCost}, logger, identityOpts...)
	if err := users.Load(ctx); err != nil {
		logger.Fatalf("Event ID: IDENTITY_LOAD_FAILED, Description: %v", err)
	}
	reports := report.NewStore(repo, logger)
	if err := reports.Load(ctx); err != nil {
		logger.Fatalf("Event ID: REPORTS_LOAD_FAILED, Description: %v", err)
	}

	// 5. HTTP API
	api := httpapi.NewServer(users, reports, logger, httpapi.WithCORSOrigin(cfg.CORSOrigin))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Event ID: SERVER_START_INFO, Description: HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: %v", err)
		}
	}()

	// 6. Chat commands & scheduled recap
	var recapJob *scheduler.RecapJob
	if waService != nil {
		recapJob = startWhatsApp(ctx, cfg, logger, waService, users, reports)
	}

	// 7. Wait for OS signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Infof("Event ID: SERVICE_STOP, Description: shutting down")
	if recapJob != nil {
		recapJob.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
	if waService != nil {
		waService.Disconnect()
	}
}

func startWhatsApp(ctx context.Context, cfg config.Config, logger *logrus.Logger, waService *wa.Service, users *identity.Store, reports *report.Store) *scheduler.RecapJob {
	submitUC := usecase.NewSubmitReportUsecase(users, reports, reports, time.Now)
	summaryUC := usecase.NewSummaryUsecase(users, reports, time.Now)
	recapUC := usecase.NewTeamRecapUsecase(users, reports, time.Now)
	handleMessageUC := usecase.NewHandleMessageUsecase(submitUC, summaryUC, recapUC)

	waService.OnlyGroup(cfg.GroupID)
	waService.SetReplyOptions(wa.ReplyOptions{
		MinDelay:   time.Duration(cfg.ReplyDelayMinMs) * time.Millisecond,
		MaxDelay:   time.Duration(cfg.ReplyDelayMaxMs) * time.Millisecond,
		ShowTyping: cfg.ShowTyping,
	})
	waService.SetHandler(func(ctx context.Context, msg wa.Message) (string, error) {
		logger.WithField("sender", msg.Sender).Debugf("Event ID: WA_MESSAGE, Description: message from %s", msg.PushName)
		return handleMessageUC.Execute(ctx, msg.Sender, msg.PushName, msg.Text)
	})

	// Initialize before connecting
	if err := waService.Initialize(ctx); err != nil {
		logger.Fatalf("Event ID: WA_INIT_FAILED, Description: %v", err)
	}

	switch {
	case waService.IsLoggedIn():
		if err := waService.Connect(); err != nil {
			logger.Fatalf("Event ID: WA_CONNECT_FAILED, Description: %v", err)
		}
	case cfg.BotPhone != "":
		// Pair code mode needs a connection first
		if err := waService.Connect(); err != nil {
			logger.Fatalf("Event ID: WA_CONNECT_FAILED, Description: %v", err)
		}
		code, err := waService.Pair(ctx, cfg.BotPhone)
		if err != nil {
			logger.Errorf("Event ID: WA_PAIR_FAILED, Description: %v", err)
		} else {
			logger.Warnf("Event ID: WA_PAIR_CODE, Description: enter pair code %s under Linked Devices > Link with phone number", code)
		}
	default:
		logger.Infof("Event ID: WA_QR_LOGIN, Description: BOT_PHONE not set, printing QR code")
		if err := waService.PrintQR(ctx); err != nil {
			logger.Fatalf("Event ID: WA_QR_FAILED, Description: %v", err)
		}
	}

	if cfg.GroupID == "" || cfg.RecapSchedule == "off" {
		logger.Infof("Event ID: RECAP_DISABLED, Description: no group or schedule configured for the team recap")
		return nil
	}
	job := scheduler.NewRecapJob(recapUC, waService, cfg.GroupID, logger)
	if err := job.Start(cfg.RecapSchedule); err != nil {
		logger.Errorf("Event ID: RECAP_SCHEDULE_FAILED, Description: %v", err)
		return nil
	}
	return job
}
