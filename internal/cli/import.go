package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nudgelabs/nudge-core/internal/importer"
)

type ImportCmd struct {
	Calendar string `default:"primary" help:"Calendar id to import from."`
	Days     int    `default:"7" help:"How many days ahead to look."`
}

func (c *ImportCmd) Run(appCtx *Context) error {
	if err := appCtx.DB.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// OAuth material lives next to the database.
	configDir := filepath.Dir(appCtx.DB.GetConfigPath())
	src, err := importer.NewGoogleCalendarSource(ctx, configDir, c.Calendar,
		time.Duration(c.Days)*24*time.Hour)
	if err != nil {
		return err
	}

	res, err := importer.Run(ctx, src, appCtx.Tasks)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d event(s), skipped %d already present\n", res.Created, res.Skipped)
	return nil
}
