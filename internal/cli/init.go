package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.DB.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized nudge storage at: %s\n", ctx.DB.GetConfigPath())
	return nil
}
