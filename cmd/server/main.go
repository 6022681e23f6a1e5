package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
	"github.com/preston-bernstein/scoreboard-service/internal/server"
)

const (
	appName    = "scoreboard-service"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:     appName,
		Usage:    "live football scoreboard",
		Version:  appVersion,
		Writer:   out,
		Commands: []*cli.Command{serveCommand(), demoCommand(out)},
		Flags:    []cli.Flag{envFileFlag()},
		Action:   runServe,
	}
}

func envFileFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "env-file",
		Usage: "dotenv files to load before reading the environment",
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the scoreboard API and live feed",
		Flags:  []cli.Flag{envFileFlag()},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: appName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, logger).Run(ctx)
}

type demoMatch struct {
	home, away string
	hs, as     int
}

var demoMatches = []demoMatch{
	{"Mexico", "Canada", 0, 5},
	{"Spain", "Brazil", 10, 2},
	{"Germany", "France", 2, 2},
	{"Uruguay", "Italy", 6, 6},
	{"Argentina", "Australia", 3, 1},
}

func demoCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "print the summary of a sample set of matches",
		Action: func(c *cli.Context) error {
			return printDemo(c.Context, out)
		},
	}
}

func printDemo(ctx context.Context, out io.Writer) error {
	board := scoreboard.New()
	for _, d := range demoMatches {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := scoreboard.NewMatch(d.home, d.away, scoreboard.WithScores(d.hs, d.as))
		if err != nil {
			return err
		}
		if err := board.AddMatch(m); err != nil {
			return err
		}
	}
	for i, m := range board.Matches() {
		if _, err := fmt.Fprintf(out, "%d. %s\n", i+1, m); err != nil {
			return err
		}
	}
	return nil
}
