package cli

import (
	"fmt"
	"strings"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
)

type RoutineDeleteCmd struct {
	ID string `arg:"" help:"Routine id (or unique prefix)."`
}

func (c *RoutineDeleteCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	routine, err := findRoutine(ctx, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Schedule.DeleteRoutine(routine.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted routine %q (already generated tasks are kept)\n", routine.Name)
	return nil
}

func findRoutine(ctx *Context, idOrPrefix string) (models.Routine, error) {
	routines, err := ctx.Schedule.Routines()
	if err != nil {
		return models.Routine{}, err
	}

	var matches []models.Routine
	for _, r := range routines {
		if r.ID == idOrPrefix {
			return r, nil
		}
		if strings.HasPrefix(r.ID, idOrPrefix) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return models.Routine{}, errs.NotFound("routine", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return models.Routine{}, fmt.Errorf("id prefix %q matches %d routines", idOrPrefix, len(matches))
	}
}
