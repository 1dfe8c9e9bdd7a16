package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/rsr-olymps/internal/filter"
	"github.com/pfrederiksen/rsr-olymps/internal/logger"
	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
	"github.com/pfrederiksen/rsr-olymps/internal/scraper"
	"github.com/pfrederiksen/rsr-olymps/internal/storage"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewOlymps = 2
)

var (
	flagLesson  string
	flagLevels  []int
	flagNames   []string
	flagQuery   string
	flagDataDir string
	flagFormat  string
	flagSort    string
	flagURL     string
	flagAll     bool
	flagRefresh bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsr-olymps",
		Short: "Check for newly-listed Russian school olympiads",
		Long: `A CLI tool to check the RSR olympiad list at rsr-olymp.ru.
Tracks entries across runs and reports only olympiads added since last check.
One olympiad listed for several subjects counts once per subject/level pair.`,
		RunE: runCheck,
	}

	cmd.Flags().StringVar(&flagLesson, "lesson", "all", "Subject label (e.g. информатика) or 'all'")
	cmd.Flags().IntSliceVar(&flagLevels, "level", nil, "Olympiad levels to include (1..3)")
	cmd.Flags().StringSliceVar(&flagNames, "name", nil, "Olympiad name fragments to include")
	cmd.Flags().StringVar(&flagQuery, "filter", "", "Compact filter query, e.g. 'lesson:информатика level:1,2'")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/rsr-olymps", "Data directory for snapshots")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "number", "Sort order: number, name, or lesson")
	cmd.PersistentFlags().StringVar(&flagURL, "url", scraper.RSRURL, "Page to scrape")
	cmd.Flags().BoolVar(&flagAll, "all", false, "List all matching olympiads, not only new ones")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Refresh snapshot without showing new olympiads")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// newDoctorCmd creates the doctor subcommand, a structural check of the
// source page for troubleshooting empty or odd results.
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the source page still carries the expected table",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := scraper.NewForURL(flagURL).InspectWeb()
			if err != nil {
				return fmt.Errorf("inspecting page: %w", err)
			}
			if OutputFormat(strings.ToLower(flagFormat)) == FormatJSON {
				return writeJSONValue(os.Stdout, report)
			}
			fmt.Print(report.String())
			return nil
		},
	}
}

// buildFilter merges the individual criteria flags with the --filter query.
func buildFilter() (*filter.Filter, error) {
	f, err := filter.ParseQuery(flagQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing --filter: %w", err)
	}

	if lesson := strings.TrimSpace(flagLesson); lesson != "" && !strings.EqualFold(lesson, "all") {
		f.Lessons = append(f.Lessons, lesson)
	}
	f.Names = append(f.Names, flagNames...)
	for _, level := range flagLevels {
		if level < 1 || level > 3 {
			return nil, fmt.Errorf("--level %d out of range 1..3", level)
		}
		f.Levels = append(f.Levels, level)
	}

	return f, nil
}

// runCheck is the main command logic
func runCheck(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	f, err := buildFilter()
	if err != nil {
		return err
	}

	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	sc := scraper.NewForURL(flagURL)

	logger.Debug("Fetching olympiad list", logger.Fields{"url": flagURL})

	olymps, err := sc.FetchOlymps()
	if err != nil {
		if len(olymps) == 0 {
			return fmt.Errorf("fetching olympiads: %w", err)
		}
		// Partial result: some rows had unparsable level cells. Report and
		// carry on with what was extracted.
		logger.Warn("Some table rows could not be parsed", logger.Fields{
			"parsed": len(olymps),
		})
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	logger.Debug("Fetched olympiad list", logger.Fields{"count": len(olymps)})

	matched := f.Apply(olymps)

	// Load previous snapshot
	var previous *olymp.Snapshot
	if !flagRefresh && !flagAll {
		previous, err = store.LoadSnapshot(flagLesson)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Debug("Loaded previous snapshot", logger.Fields{"count": len(previous.Olymps)})
	}

	diff := olymp.Diff(previous, matched, "")

	if err := store.CreateSnapshotFromOlymps(matched, flagLesson); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Lesson:    strings.ToLower(strings.TrimSpace(flagLesson)),
	}
	if flagAll {
		result.ShowAll = true
		result.Olymps = matched
		result.ByLesson = groupByLesson(matched)
	} else {
		result.Olymps = diff.NewOlymps
		result.ByLesson = diff.ByLesson
	}
	result.Count = len(result.Olymps)

	sortOlymps(result.Olymps, SortOrder(strings.ToLower(flagSort)))

	if flagRefresh {
		if format == FormatText {
			fmt.Println("Snapshot refreshed successfully.")
		} else {
			result.Olymps = nil
			result.Count = 0
			result.ByLesson = nil
			WriteOutput(os.Stdout, result, format, flagVerbose)
		}
		return nil
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !flagAll && result.Count > 0 {
		os.Exit(ExitNewOlymps)
	}

	return nil
}

func groupByLesson(olymps []*olymp.Olymp) map[string][]*olymp.Olymp {
	groups := make(map[string][]*olymp.Olymp)
	for _, o := range olymps {
		groups[o.Lesson] = append(groups[o.Lesson], o)
	}
	return groups
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
