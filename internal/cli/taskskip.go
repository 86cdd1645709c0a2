package cli

import "fmt"

type TaskSkipCmd struct {
	ID string `arg:"" help:"Task id (or unique prefix)."`
}

func (c *TaskSkipCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	task, err := findTask(ctx.Tasks, c.ID)
	if err != nil {
		return err
	}

	moved, err := ctx.Tasks.MoveToBack(task.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Moved %q to the back of the queue\n", moved.Content)
	return nil
}
