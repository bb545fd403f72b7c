package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// listUsers prints the learners directory, passwords included.
func (cli *commandLine) listUsers() error {
	app, err := cli.loadApp(context.Background())
	if err != nil {
		return err
	}
	users, err := app.Users()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(cli.out, "No registered learners.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tPASSWORD")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Phone, u.Password)
	}
	return w.Flush()
}
