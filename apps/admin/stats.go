package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) printStats() error {
	app, err := cli.loadApp(context.Background())
	if err != nil {
		return err
	}
	st, err := app.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Revenue:  %d Rs\n", st.TotalRevenue)
	fmt.Fprintf(cli.out, "Orders:   %d\n", st.TotalOrders)
	fmt.Fprintf(cli.out, "Learners: %d\n", st.TotalUsers)
	if len(st.CoursePopularity) == 0 {
		return nil
	}
	fmt.Fprintln(cli.out, "\nEnrollments per course:")
	for _, p := range st.CoursePopularity {
		fmt.Fprintf(cli.out, "  %4d  %s\n", p.Count, p.Title)
	}
	return nil
}
