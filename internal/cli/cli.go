package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add      *AddCommand
	Show     *ShowCommand
	Update   *UpdateCommand
	Delete   *DeleteCommand
	Search   *SearchCommand
	Stats    *StatsCommand
	Export   *ExportCommand
	Import   *ImportCommand
	Purge    *PurgeCommand
	Settings *SettingsCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "jobtrack"
	parser.LongDescription = "Local job application tracker with URL-based deduplication."

	cmds := &commands{
		Add:      &AddCommand{globals: &globals},
		Show:     &ShowCommand{globals: &globals},
		Update:   &UpdateCommand{globals: &globals},
		Delete:   &DeleteCommand{globals: &globals},
		Search:   &SearchCommand{globals: &globals},
		Stats:    &StatsCommand{globals: &globals, version: version},
		Export:   &ExportCommand{globals: &globals},
		Import:   &ImportCommand{globals: &globals},
		Purge:    &PurgeCommand{globals: &globals},
		Settings: &SettingsCommand{globals: &globals},
	}

	parser.AddCommand("add", "Record an application", "Record an application. Saving a URL that is already tracked updates that record and keeps its original application date.", cmds.Add)
	parser.AddCommand("show", "Show one application", "Show one application by --id or --url.", cmds.Show)
	parser.AddCommand("update", "Change fields of an application", "Change fields of an application. Only the given flags are applied.", cmds.Update)
	parser.AddCommand("delete", "Delete an application", "Delete an application. Deleting an unknown ID is not an error.", cmds.Delete)
	parser.AddCommand("search", "Search applications", "Search applications by text, with optional filters and sort order.", cmds.Search)
	parser.AddCommand("stats", "Show application statistics", "Show totals, applications this week, and counts by status and domain.", cmds.Stats)
	parser.AddCommand("export", "Export applications", "Export applications as JSON or CSV, optionally filtered.", cmds.Export)
	parser.AddCommand("import", "Import applications", "Import applications from a JSON or CSV file.", cmds.Import)
	parser.AddCommand("purge", "Delete ALL data", "Delete ALL applications and settings. Destructive operation with safety prompt.", cmds.Purge)
	parser.AddCommand("settings", "Show or change settings", "Show the stored settings, or change them with flags.", cmds.Settings)

	return parser, &globals, cmds
}

// Run is the main entry point for the jobtrack CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("jobtrack %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
