package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/nicolasdelfino-123/vape-store/pkg/app/config"
	"github.com/nicolasdelfino-123/vape-store/pkg/app/reconciliation"
	"github.com/nicolasdelfino-123/vape-store/pkg/app/session"
	"github.com/nicolasdelfino-123/vape-store/pkg/common/infrastructure/event"
	commonmysql "github.com/nicolasdelfino-123/vape-store/pkg/common/infrastructure/mysql"
	"github.com/nicolasdelfino-123/vape-store/pkg/gateway/infrastructure/mercadopago"
	notificationservice "github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/service"
	notificationmysql "github.com/nicolasdelfino-123/vape-store/pkg/notification/infrastructure/mysql"
	"github.com/nicolasdelfino-123/vape-store/pkg/notification/infrastructure/smtp"
	ordermysql "github.com/nicolasdelfino-123/vape-store/pkg/order/infrastructure/mysql"
	"github.com/nicolasdelfino-123/vape-store/pkg/transport"
	userservice "github.com/nicolasdelfino-123/vape-store/pkg/user/domain/service"
	"github.com/nicolasdelfino-123/vape-store/pkg/user/infrastructure/bcrypt"
	usermysql "github.com/nicolasdelfino-123/vape-store/pkg/user/infrastructure/mysql"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:           "storefront",
		Usage:          "payment-driven order reconciliation service",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "apply migrations and serve the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database schema migrations and exit",
				Action: runMigrations,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("storefront terminated")
	}
}

func runMigrations(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := commonmysql.NewClient(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := commonmysql.Migrate(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func serve(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := commonmysql.NewClient(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := commonmysql.Migrate(db); err != nil {
		return err
	}

	dispatcher := event.NewLoggingDispatcher()

	users := usermysql.NewUserRepository(db)
	orders := ordermysql.NewOrderRepository(db)
	notifications := notificationmysql.NewNotificationRepository(db)

	identity := userservice.NewIdentityService(users, bcrypt.NewPasswordManager(), dispatcher)
	sender := smtp.NewSender(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailSender)
	notifier := notificationservice.NewNotificationService(notifications, sender, dispatcher)
	gatewayClient := mercadopago.NewClient(cfg.MercadoPagoBaseURL, cfg.MercadoPagoToken)

	reconciler := reconciliation.NewService(
		gatewayClient, identity, orders, commonmysql.NewUnitOfWork(db), dispatcher, notifier)

	tokens := session.NewJWTManager(cfg.JWTSecretKey, cfg.JWTTTL)
	bridge := session.NewService(orders, users, tokens)

	srv := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: transport.Router(reconciler, bridge, orders, tokens),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.WithField("address", cfg.HTTPAddress).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
