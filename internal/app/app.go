// Package app assembles stores, auth and services from configuration.
// The API server and crmctl share it so both see the same wiring.
package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/config"
	"github.com/julesapp/crm-api/internal/database"
	"github.com/julesapp/crm-api/internal/http/handler"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/julesapp/crm-api/internal/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// Services is every domain service
type Services struct {
	Activity  *service.ActivityService
	Clients   *service.ClientService
	Contacts  *service.ContactService
	Projects  *service.ProjectService
	Tasks     *service.TaskService
	Sales     *service.SaleService
	Documents *service.DocumentService
	Events    *service.EventService
	Calendar  *service.CalendarService
	Dashboard *service.DashboardService
	Margins   *service.MarginService
}

// Deps holds the assembled application
type Deps struct {
	DB        *gorm.DB
	Firestore *firestore.Client
	Stores    *repository.Stores
	Services  *Services
	Sessions  *auth.Sessions
	Users     auth.UserAdmin
	// LocalAuth is set when accounts live in the SQL database
	LocalAuth *auth.LocalProvider

	logger  *zap.Logger
	closers []func() error
}

// Build opens the configured backends and wires every service
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	d := &Deps{logger: logger}

	var fbApp *firebase.App
	if cfg.NeedsFirebase() {
		app, err := newFirebaseApp(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		fbApp = app
	}

	if cfg.Store.Backend == config.BackendSQL || cfg.Auth.Provider == config.AuthProviderLocal {
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		d.DB = db
		d.closers = append(d.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		if cfg.Database.Driver == "sqlite" {
			if err := database.AutoMigrate(db); err != nil {
				d.Close()
				return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
			}
		}
		logger.Info("Database connected", zap.String("driver", cfg.Database.Driver))
	}

	switch cfg.Store.Backend {
	case config.BackendFirestore:
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		d.Firestore = client
		d.closers = append(d.closers, client.Close)
		d.Stores = repository.NewFirestoreStores(client)
	default:
		d.Stores = repository.NewGormStores(d.DB, repository.NewChangeHub())
	}
	logger.Info("Store initialized", zap.String("backend", cfg.Store.Backend))

	var provider auth.Provider
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		fp, err := auth.NewFirebaseProvider(ctx, fbApp, cfg.Firebase.WebAPIKey, logger)
		if err != nil {
			d.Close()
			return nil, err
		}
		provider, d.Users = fp, fp
	default:
		issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDuration(), cfg.App.Name)
		lp := auth.NewLocalProvider(d.DB, issuer, logger)
		provider, d.Users, d.LocalAuth = lp, lp, lp
	}
	d.Sessions = auth.NewSessions(provider, auth.NewSessionHub(), logger)
	logger.Info("Auth provider initialized", zap.String("provider", cfg.Auth.Provider))

	fileStorage, err := storage.NewStorage(&cfg.Storage, logger)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	d.Services = NewServices(d.Stores, fileStorage, cfg.Storage.MaxUploadSizeMB<<20, logger)
	return d, nil
}

// NewServices wires the domain services on top of the stores
func NewServices(stores *repository.Stores, fileStorage storage.Storage, maxUploadBytes int64, logger *zap.Logger) *Services {
	repos := repository.NewRepositories(stores, logger)

	activity := service.NewActivityService(repos.Activities, logger)
	clients := service.NewClientService(repos.Clients, activity, logger)
	sales := service.NewSaleService(repos.Sales, activity, logger)

	return &Services{
		Activity:  activity,
		Clients:   clients,
		Contacts:  service.NewContactService(repos.Contacts, repos.Clients, activity, logger),
		Projects:  service.NewProjectService(repos.Projects, activity, logger),
		Tasks:     service.NewTaskService(repos.Tasks, repos.Clients, activity, logger),
		Sales:     sales,
		Documents: service.NewDocumentService(repos.Documents, fileStorage, activity, maxUploadBytes, logger),
		Events:    service.NewEventService(repos.Events, activity, logger),
		Calendar:  service.NewCalendarService(repos.Projects, repos.Events, logger),
		Dashboard: service.NewDashboardService(repos.Clients, repos.Tasks, clients, sales, activity, logger),
		Margins:   service.NewMarginService(stores.Projects, logger),
	}
}

// AuthMiddleware builds the request authenticator over the session verifier
func (d *Deps) AuthMiddleware(cookieName string) *auth.Middleware {
	return auth.NewMiddleware(d.Sessions, cookieName, d.logger)
}

// HealthChecks lists a probe per backend in use
func (d *Deps) HealthChecks() []handler.HealthCheck {
	var checks []handler.HealthCheck
	if d.DB != nil {
		checks = append(checks, handler.HealthCheck{
			Name: "database",
			Check: func(ctx context.Context) error {
				return database.HealthCheck(ctx, d.DB)
			},
		})
	}
	if d.Firestore != nil {
		checks = append(checks, handler.HealthCheck{
			Name: "firestore",
			Check: func(ctx context.Context) error {
				_, err := d.Stores.Clients.Count(ctx, repository.Query{Limit: 1})
				return err
			},
		})
	}
	return checks
}

// Close releases every backend connection
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warn("failed to close dependency", zap.Error(err))
		}
	}
	d.closers = nil
}

func newFirebaseApp(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}
