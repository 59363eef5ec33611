// Package cli implements the command-line interface for oplog-stats.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/eunmann/oplog-stats/pkg/export"
	"github.com/eunmann/oplog-stats/pkg/logging"
	"github.com/eunmann/oplog-stats/pkg/mongodb"
	"github.com/eunmann/oplog-stats/pkg/oplogstats"
)

// options holds the parsed and validated flags for one run.
type options struct {
	mongo mongodb.Config

	// limit is the maximal number of documents to process; negative means
	// "every document currently in the oplog".
	limit int64

	// printAfter prints the statistics every printAfter processed documents;
	// zero disables periodic printing.
	printAfter uint64

	exportPath string
	debug      bool
	logJSON    bool
}

// parseArgs parses and eagerly validates the command line. Configuration
// errors are rejected here, before anything touches the database.
func parseArgs(args []string) (*options, error) {
	var opts options

	fs := flag.NewFlagSet("oplog-stats", flag.ContinueOnError)
	fs.StringVar(&opts.mongo.Host, "host", "localhost", "resolvable hostname for the MongoDB instance to connect to")
	fs.IntVar(&opts.mongo.Port, "port", 27017, "TCP port on which the MongoDB instance listens for client connections")
	fs.StringVar(&opts.mongo.Username, "username", "", "username for a MongoDB instance that uses authentication")
	fs.StringVar(&opts.mongo.Password, "password", "", "password for a MongoDB instance that uses authentication; prompted for when --username is given without it")
	fs.StringVar(&opts.mongo.AuthDatabase, "auth-db", "", "authentication database where --username has been created")
	fs.Int64Var(&opts.limit, "limit", -1, "maximal number of oplog documents to process (default: every document in the oplog)")
	fs.Uint64Var(&opts.printAfter, "print-after", 0, "print statistics every time n documents have been processed")
	fs.StringVar(&opts.exportPath, "export", "", "write the final statistics to a Parquet file at this path")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&opts.logJSON, "log-json", false, "emit JSON logs instead of the console format")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if opts.mongo.Port <= 0 || opts.mongo.Port > 65535 {
		return nil, fmt.Errorf("--port must be between 1 and 65535, got %d", opts.mongo.Port)
	}

	var printAfterSet bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "print-after" {
			printAfterSet = true
		}
	})
	if printAfterSet && opts.printAfter == 0 {
		return nil, errors.New("value of --print-after has to be positive")
	}

	return &opts, nil
}

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	logging.Init(opts.debug, !opts.logJSON)

	if opts.mongo.Username != "" && opts.mongo.Password == "" {
		password, err := promptPassword()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		opts.mongo.Password = password
	}

	client, err := mongodb.Dial(opts.mongo)
	if err != nil {
		return err
	}
	defer client.Close()

	limit, err := limitToUse(opts.limit, client)
	if err != nil {
		return err
	}
	fmt.Printf("Obtaining stats (limit: %d)...\n", limit)

	cursor := client.OplogCursor(limit)
	defer cursor.Close()

	return obtainStats(cursor, limit, opts, os.Stdout)
}

// limitToUse returns the document limit for the run: the user-supplied one,
// or the oplog's current document count when none was given.
func limitToUse(userLimit int64, client *mongodb.Client) (uint64, error) {
	if userLimit >= 0 {
		return uint64(userLimit), nil
	}
	count, err := client.OplogDocumentCount()
	if err != nil {
		return 0, fmt.Errorf("get the number of documents in the oplog: %w", err)
	}
	return count, nil
}

// obtainStats runs the collection loop over cursor and reports the outcome on
// out. On failure the partial table is printed first (when at least one
// document was processed), then the error is returned for main to surface.
func obtainStats(cursor oplogstats.Cursor, limit uint64, opts *options, out io.Writer) error {
	stats := oplogstats.NewStats()
	progress := logging.NewDocumentProgress(limit, *logging.L())

	cfg := oplogstats.CollectConfig{
		Limit:       limit,
		ReportEvery: opts.printAfter,
		OnDocument:  progress.Record,
	}
	if opts.printAfter > 0 {
		cfg.OnReport = func(s *oplogstats.Stats) {
			fmt.Fprintf(out, "\nProcessed %d documents at %s\n", s.ProcessedCount(), time.Now().Format(time.RFC1123))
			renderTable(out, s)
			fmt.Fprintln(out)
		}
	}

	err := oplogstats.Collect(cursor, stats, cfg)
	if err != nil {
		if stats.HasProcessedAny() {
			fmt.Fprintln(out, "Obtaining failed; showing last stats:")
			renderTable(out, stats)
		}
		return err
	}
	progress.Finish()

	fmt.Fprintf(out, "Final stats after processing %d documents:\n", stats.ProcessedCount())
	renderTable(out, stats)

	if opts.exportPath != "" {
		if err := export.WriteSnapshot(opts.exportPath, stats); err != nil {
			return err
		}
		logging.L().Info().Str("path", opts.exportPath).Msg("exported statistics snapshot")
	}
	return nil
}

func renderTable(out io.Writer, stats *oplogstats.Stats) {
	if err := oplogstats.RenderTable(out, stats); err != nil {
		logging.L().Warn().Err(err).Msg("failed to render the statistics table")
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
