package cli

import "fmt"

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task id (or unique prefix)."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	task, err := findTask(ctx.Tasks, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Tasks.Delete(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %q permanently\n", task.Content)
	return nil
}
