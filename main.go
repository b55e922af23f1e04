package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/cjkfreq/internal/count"
	"github.com/dtnitsch/cjkfreq/internal/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	historyFlags := []cli.Flag{
		&cli.StringFlag{Name: "db", Usage: "run history database (default: next to the binary)"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum rows to print (0 = all)"},
	}

	return &cli.App{
		Name:      "cjkfreq",
		Usage:     "count CJK word frequencies across text files",
		ArgsUsage: "FILE...",
		Flags:     count.Flags(),
		Action:    count.CountAction,
		Commands: []*cli.Command{
			{
				Name:   "runs",
				Usage:  "list recorded runs",
				Flags:  historyFlags,
				Action: history.RunsAction,
			},
			{
				Name:      "show",
				Usage:     "print the ranked frequencies of a recorded run",
				ArgsUsage: "[RUN_ID]",
				Flags:     historyFlags,
				Action:    history.ShowAction,
			},
		},
	}
}
