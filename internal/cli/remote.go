package cli

import (
	"fmt"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/keyring"
)

type RemoteSetCmd struct {
	ConnString string `arg:"" help:"Postgres connection string for the shared record store."`
}

func (c *RemoteSetCmd) Run(ctx *Context) error {
	if err := keyring.SetRemoteConnection(c.ConnString); err != nil {
		return err
	}
	fmt.Println("Remote connection stored in the OS keyring")
	return nil
}

type RemoteClearCmd struct{}

func (c *RemoteClearCmd) Run(ctx *Context) error {
	err := keyring.DeleteRemoteConnection()
	if errs.Is(err, keyring.ErrNotFound) {
		fmt.Println("No remote connection was stored")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Remote connection removed from the OS keyring")
	return nil
}

type RemoteStatusCmd struct{}

func (c *RemoteStatusCmd) Run(ctx *Context) error {
	_, err := keyring.GetRemoteConnection()
	if errs.Is(err, keyring.ErrNotFound) {
		fmt.Println("No remote connection configured")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Remote connection is configured")
	return nil
}
