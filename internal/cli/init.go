package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Journal.Gateway().Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized threethings storage at: %s\n", ctx.Journal.Gateway().Path())
	return nil
}
