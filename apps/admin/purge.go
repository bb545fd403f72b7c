package main

import (
	"context"
	"fmt"

	"github.com/bhavyajain7773/ATF-Design/core/state"
)

// purge erases every persisted record. Seed courses are restored on the next load.
func (cli *commandLine) purge(confirmed bool) error {
	return cli.withLock(func(ctx context.Context, app *state.AppState) error {
		res, err := app.Purge(ctx, confirmed)
		if err != nil {
			return err
		}
		if err := writeErr(res); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Institutional database purged.")
		return nil
	})
}
