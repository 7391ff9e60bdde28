// Package identity supplies the stable user identifier the storage key is
// derived from. Authenticated deployments inject the account id; without one,
// a locally generated anonymous id is persisted in the data dir so the same
// key can be re-derived next session. If the id cannot be persisted the
// provider degrades to a session-scoped id and the previous session's records
// become unreachable, which is surfaced as a warning, not an error.
package identity

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ghostvault/internal/logging"
)

const idFileName = "identity"

// Provider resolves the current user id.
type Provider struct {
	dir string
	log logging.Logger

	// cached holds the resolved id for the rest of the session, whether or
	// not it could be persisted.
	cached string
}

// NewProvider constructs a Provider storing the anonymous id under dataDir.
func NewProvider(dataDir string, log logging.Logger) *Provider {
	return &Provider{dir: dataDir, log: log}
}

// UserID returns the stable user identifier, generating and persisting an
// anonymous one on first use.
func (p *Provider) UserID(ctx context.Context) string {
	if p.cached != "" {
		return p.cached
	}

	path := filepath.Join(p.dir, idFileName)
	if b, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(b)); id != "" {
			p.cached = id
			return id
		}
	}

	id := "anon-" + uuid.NewString()
	p.cached = id
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		p.log.Warn(ctx, "identity not persisted, id is session-scoped", "error", err)
	}
	return id
}
