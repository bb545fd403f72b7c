package main

import (
	"context"

	"github.com/bhavyajain7773/ATF-Design/core/state"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.withLock(func(ctx context.Context, app *state.AppState) error {
		res, err := app.ResetPassword(ctx, email, pwd)
		if err != nil {
			return err
		}
		return writeErr(res)
	})
}
