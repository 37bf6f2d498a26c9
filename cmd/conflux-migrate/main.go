package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"conflux/internal/platform/config"
	"conflux/internal/platform/logger"
	"conflux/internal/platform/store/migrate"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Panic().Err(err).Msg("dotenv")
	}
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: conflux-migrate [up|down|status]")
		flag.PrintDefaults()
	}
	fTimeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	l := logger.Get()
	dsn := config.New().Prefix("SERVICE_PGSQL_").MustString("DBURL")

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	m, err := migrate.Open(ctx, dsn)
	if err != nil {
		l.Panic().Err(err).Msg("migrate open failed")
	}
	defer func() { _ = m.Close() }()

	switch cmd {
	case "up":
		rs, err := m.Up(ctx)
		for _, r := range rs {
			l.Info().Int64("version", r.Version).Str("path", r.Path).Dur("took", r.Duration).Msg("applied")
		}
		if err != nil {
			l.Fatal().Err(err).Msg("migrate up failed")
		}
		l.Info().Int("applied", len(rs)).Msg("schema up to date")

	case "down":
		r, err := m.Down(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("migrate down failed")
		}
		l.Info().Int64("version", r.Version).Str("path", r.Path).Msg("rolled back")

	case "status":
		ss, err := m.Status(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("migrate status failed")
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tAPPLIED\tAT\tPATH")
		for _, s := range ss {
			at := "-"
			if s.Applied {
				at = s.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%d\t%t\t%s\t%s\n", s.Version, s.Applied, at, s.Path)
		}
		_ = tw.Flush()

	default:
		flag.Usage()
		os.Exit(2)
	}
}
