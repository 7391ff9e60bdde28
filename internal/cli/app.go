package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/ghostvault/internal/common"
	"github.com/dmitrijs2005/ghostvault/internal/config"
	"github.com/dmitrijs2005/ghostvault/internal/cryptox"
	"github.com/dmitrijs2005/ghostvault/internal/filex"
	"github.com/dmitrijs2005/ghostvault/internal/identity"
	"github.com/dmitrijs2005/ghostvault/internal/logging"
	"github.com/dmitrijs2005/ghostvault/internal/services"
)

// App wires the composition root: identity, per-user database, vault and
// exporter. It owns the store instance for the whole session; there is no
// module-level singleton.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	vault    *services.Vault
	exporter *services.Exporter
	userID   string
	reader   *bufio.Reader
}

// NewApp resolves the user identity, opens that user's database and
// constructs the services. The vault stays uninitialized until Run derives
// the storage key.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}

	userID := cfg.UserID
	if userID == "" {
		userID = identity.NewProvider(cfg.DataDir, log).UserID(ctx)
	}

	db, err := services.OpenDatabase(ctx, services.VaultDSN(cfg.DataDir, userID))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	return &App{
		config:   cfg,
		log:      log,
		db:       db,
		vault:    services.NewVault(db, log),
		exporter: services.NewExporter(log),
		userID:   userID,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run derives the storage key, initializes the vault and enters the REPL.
// On return (including context cancellation) zero-trace conversations are
// swept before the database is closed.
func (a *App) Run(ctx context.Context) error {
	masterKey, err := cryptox.DeriveStorageKey(a.userID)
	if err != nil {
		return fmt.Errorf("cannot derive storage key: %w", err)
	}
	defer common.WipeByteArray(masterKey)

	if err := a.vault.Init(ctx, masterKey); err != nil {
		return fmt.Errorf("cannot initialize store: %w", err)
	}
	defer a.Close(ctx)

	a.Root(ctx)
	return nil
}

// Close sweeps zero-trace conversations and releases the database. Safe to
// call more than once. A signal cancels the REPL's context, so by the time
// the deferred Close runs, ctx may already be cancelled; the sweep still has
// to write, so it runs detached from cancellation.
func (a *App) Close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if a.vault.Initialized() {
		if _, err := a.vault.ClearAllZeroTrace(ctx); err != nil {
			a.log.Error(ctx, "zero-trace sweep failed", "error", err)
		}
	}
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}
