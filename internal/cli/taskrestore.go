package cli

import "fmt"

type TaskRestoreCmd struct {
	ID string `arg:"" help:"Task id (or unique prefix)."`
}

func (c *TaskRestoreCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	task, err := findTask(ctx.Tasks, c.ID)
	if err != nil {
		return err
	}

	restored, err := ctx.Tasks.Resurface(task.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Restored %q to the active queue\n", restored.Content)
	return nil
}
