package main

import (
	"context"
	"fmt"
)

// unlock breaks the storage lock. The API must be stopped first.
func (cli *commandLine) unlock() error {
	ctx := context.Background()
	holder, held, err := cli.store.LockHolder(ctx)
	if err != nil {
		return err
	}
	if !held {
		fmt.Fprintln(cli.out, "Storage is not locked.")
		return nil
	}
	if err := cli.store.BreakLock(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Released the lock held by %s.\n", holder)
	return nil
}
