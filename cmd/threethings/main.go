package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/threethings/internal/cli"
	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/journal"
	"github.com/julianstephens/threethings/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Store   string `help:"Store file path." type:"path" default:"~/.config/threethings/threethings.db"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize threethings storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      cli.AddCmd      `cmd:"" help:"Record today's three things."`
	Show     cli.ShowCmd     `cmd:"" help:"Show the entry for a day."`
	Edit     cli.EditCmd     `cmd:"" help:"Edit the entry for a day."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete the entry for a day."`
	Month    cli.MonthCmd    `cmd:"" help:"Show a month's entries and reflection."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show streaks and progress."`
	Year     cli.YearCmd     `cmd:"" help:"Show a year's summary."`
	Review   cli.ReviewCmd   `cmd:"" help:"Monthly and yearly reviews."`
	Export   cli.ExportCmd   `cmd:"" help:"Export the journal to a file."`
	Import   cli.ImportCmd   `cmd:"" help:"Import a journal backup."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	Snapshot cli.SnapshotCmd `cmd:"" help:"Manage store snapshots."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("threethings"),
		kong.Description("Daily gratitude journal: three things, every day"),
		kong.UsageOnError(),
		kong.Vars{"version": "v" + constants.AppVersion},
	)

	// Determine storage type based on extension
	var gw storage.Gateway
	if len(CLI.Store) > 5 && CLI.Store[len(CLI.Store)-5:] == ".json" {
		gw = storage.NewFileGateway(CLI.Store)
	} else {
		gw = storage.NewSQLiteGateway(CLI.Store)
	}

	appCtx := &cli.Context{
		Journal: journal.New(gw),
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
