package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/voxlive/vox-backend/internal/auth"
	"github.com/voxlive/vox-backend/internal/config"
	"github.com/voxlive/vox-backend/internal/httpapi"
	"github.com/voxlive/vox-backend/internal/logging"
	"github.com/voxlive/vox-backend/internal/mailer"
	"github.com/voxlive/vox-backend/internal/realtime"
	"github.com/voxlive/vox-backend/internal/session"
	"github.com/voxlive/vox-backend/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Server.Env)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	st, err := store.Open(cfg.DB.URL)
	if err != nil {
		log.Fatal("opening store failed", zap.Error(err))
	}

	au := auth.New(cfg.JWT.Secret, cfg.JWT.TTLHours)

	var mail mailer.Mailer
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Address, cfg.SMTP.Password)
	} else {
		mail = mailer.Discard{Log: log}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := session.NewDirectory[*realtime.Client]()
	hub := realtime.NewHub(ctx, dir, log)
	wsHandler := realtime.Handler(hub, []string{cfg.App.FrontendURL}, log)

	api := httpapi.New(st, au, mail, cfg.App.URL, log)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.Routes(wsHandler),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Inbox() <- realtime.Shutdown{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}
