package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/extract"
	"github.com/nudgelabs/nudge-core/internal/keyring"
	"github.com/nudgelabs/nudge-core/internal/reward"
	"github.com/nudgelabs/nudge-core/internal/schedule"
	"github.com/nudgelabs/nudge-core/internal/storage"
	"github.com/nudgelabs/nudge-core/internal/syncer"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

// Context carries the wired aggregates into every command.
type Context struct {
	DB       storage.Provider
	Tasks    *taskstore.Store
	Rewards  *reward.Service
	Schedule *schedule.Service

	// Remote is the explicit --remote flag; empty means env then keyring.
	Remote string
}

// Extractor returns the configured extraction service, or nil when no API
// key is present; callers fall back to raw-text task creation.
func (c *Context) Extractor() extract.Extractor {
	key := os.Getenv(constants.EnvOpenAIKey)
	if key == "" {
		return nil
	}
	return extract.NewOpenAIExtractor(key)
}

// Reconciler connects to the remote record store and builds a sync
// reconciler. The returned close func releases the connection.
func (c *Context) Reconciler(ctx context.Context) (*syncer.Reconciler, func() error, error) {
	connStr, err := c.remoteConnection()
	if err != nil {
		return nil, nil, err
	}

	remote := syncer.NewPostgresRemote(connStr)
	if err := remote.Open(ctx); err != nil {
		return nil, nil, err
	}

	return syncer.New(c.Tasks, c.Rewards, c.DB, remote), remote.Close, nil
}

func (c *Context) remoteConnection() (string, error) {
	if c.Remote != "" {
		return c.Remote, nil
	}
	if env := os.Getenv(constants.EnvRemoteConnection); env != "" {
		return env, nil
	}
	connStr, err := keyring.GetRemoteConnection()
	if err != nil {
		return "", fmt.Errorf("no remote configured: set --remote, %s, or store one with 'nudge remote set': %w",
			constants.EnvRemoteConnection, err)
	}
	return connStr, nil
}
