// Package app wires configuration into the shared services every binary uses.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/config"
	"github.com/tomz197/warzone/internal/mission"
)

// Services are the long-lived collaborators built from a Config.
type Services struct {
	Catalog  *mission.Catalog
	Store    account.Store
	Accounts *account.Service
}

// Open loads the mission catalog, opens the player store and seeds the
// admin account when one is configured.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger, opts ...account.ServiceOption) (*Services, error) {
	catalog, err := mission.Load(cfg.MissionsFile)
	if err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}

	store, err := account.OpenStore(cfg.Store, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	opts = append([]account.ServiceOption{account.WithLogger(logger)}, opts...)
	svc := account.NewService(store, opts...)

	if cfg.HasAdmin() {
		if _, err := svc.EnsureAdmin(ctx, account.Admin{Identity: cfg.AdminUser, Password: cfg.AdminPassword}); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	logger.Info("services ready", "store", cfg.Store, "dataDir", cfg.DataDir, "missions", len(catalog.All()))
	return &Services{Catalog: catalog, Store: store, Accounts: svc}, nil
}

// Close releases the player store.
func (s *Services) Close() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
