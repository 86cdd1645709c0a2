package cli

import "fmt"

type GenerateCmd struct{}

func (c *GenerateCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	count, err := ctx.Schedule.GenerateForToday()
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No routine instances due today")
		return nil
	}
	fmt.Printf("Generated %d routine task(s) for today\n", count)
	return nil
}
