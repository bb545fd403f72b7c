package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/state"
	"github.com/bhavyajain7773/ATF-Design/storage"
)

// lockOwner names the CLI in the storage lock.
const lockOwner = "admin cli"

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sqlx.DB
	store  *storage.Store
	conf   *core.Config
	logger core.Logger
	out    io.Writer
}

// loadApp restores an operator AppState from the store.
func (cli *commandLine) loadApp(ctx context.Context) (*state.AppState, error) {
	return state.New(ctx, state.Options{
		Store:    cli.store,
		Logger:   cli.logger,
		Conf:     cli.conf,
		Operator: true,
	})
}

// withLock runs fn on a fresh AppState while holding the storage lock.
// It fails with storage.ErrLocked while the API is serving.
func (cli *commandLine) withLock(fn func(ctx context.Context, app *state.AppState) error) (err error) {
	ctx := context.Background()
	lock, err := cli.store.Lock(ctx, lockOwner)
	if err != nil {
		return err
	}
	defer func() {
		if uErr := cli.store.Unlock(ctx, lock); uErr != nil && err == nil {
			err = uErr
		}
	}()

	app, err := cli.loadApp(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, app)
}

// writeErr returns the error of the first failed write, if any.
func writeErr(res core.WriteResults) error {
	for _, r := range res.Failed() {
		if r.Err != nil {
			return r.Err
		}
		return fmt.Errorf("persisting %s: %s", r.Key, r.Status)
	}
	return nil
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a learner's password")
	fmt.Fprintln(cli.out, "  users - list the registered learners")
	fmt.Fprintln(cli.out, "  stats - print the enrollment dashboard")
	fmt.Fprintln(cli.out, "  purge -yes - erase orders, learners, cart and course content")
	fmt.Fprintln(cli.out, "  unlock - release the storage lock left by a stopped API")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The learner's email. The password will be prompted next.")

	purgeCmd := flag.NewFlagSet("purge", flag.ContinueOnError)
	purgeCmd.SetOutput(cli.out)
	purgeConfirm := purgeCmd.Bool("yes", false, "Confirm the purge. It cannot be undone.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))

	case "users":
		return cli.listUsers()

	case "stats":
		return cli.printStats()

	case "purge":
		if err := purgeCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.purge(*purgeConfirm)

	case "unlock":
		return cli.unlock()

	default:
		cli.printUsage()
		return errHelp
	}
}
