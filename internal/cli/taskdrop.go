package cli

import "fmt"

type TaskDropCmd struct {
	ID string `arg:"" help:"Task id (or unique prefix)."`
}

func (c *TaskDropCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	task, err := findTask(ctx.Tasks, c.ID)
	if err != nil {
		return err
	}

	dropped, err := ctx.Tasks.Drop(task.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Dropped %q (use 'nudge task restore %s' to bring it back)\n",
		dropped.Content, shortID(dropped.ID))
	return nil
}
