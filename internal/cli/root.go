// Package cli implements crmctl, the operator command line for the CRM.
package cli

import (
	"context"
	"fmt"

	"github.com/julesapp/crm-api/internal/app"
	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/config"
	"github.com/julesapp/crm-api/internal/logger"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MarginReconciler is satisfied by service.MarginService
type MarginReconciler interface {
	Reconcile(ctx context.Context, repair bool) (*service.MarginReport, error)
}

// Env is what the commands operate on
type Env struct {
	Users   auth.UserAdmin
	Margins MarginReconciler
	Close   func()
}

// Loader opens the environment for one command run
type Loader func(ctx context.Context) (*Env, error)

// NewRootCmd builds the crmctl command tree. load is called lazily by the commands that need it.
func NewRootCmd(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:   "crmctl",
		Short: "Operate the CRM backend",
		Long: `crmctl manages accounts and runs maintenance against the configured
store and auth provider. It reads the same configuration as the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(newUserCmd(load))
	root.AddCommand(newMarginsCmd(load))
	return root
}

// Execute runs crmctl against the real configuration
func Execute() error {
	return NewRootCmd(LoadFromConfig).Execute()
}

// LoadFromConfig assembles the application the same way the API server does
func LoadFromConfig(ctx context.Context) (*Env, error) {
	cfg, err := config.LoadWithSecrets(ctx, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	deps, err := app.Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Env{
		Users:   deps.Users,
		Margins: deps.Services.Margins,
		Close: func() {
			deps.Close()
			_ = log.Sync()
		},
	}, nil
}

func withEnv(cmd *cobra.Command, load Loader, fn func(env *Env) error) error {
	env, err := load(cmd.Context())
	if err != nil {
		return err
	}
	if env.Close != nil {
		defer env.Close()
	}
	return fn(env)
}
