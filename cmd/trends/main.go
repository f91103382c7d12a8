package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/config"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/flagging"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/pipeline"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/prompt"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/render"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/server"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/source"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/trends"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "trends",
	Short:         "Peer review session trend reports",
	Long:          "Trends aggregates peer-review session exports into per-category trend frequencies, flags developers whose recent sessions concentrate negative trends, and renders a Markdown report per period.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trends", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/trends/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your review-session export.")
		return nil
	},
}

// --- status command ---

var (
	statusInput  string
	statusFormat string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive and report statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := statusInput
		if path == "" {
			path = cfg.Input.Path
		}
		format := statusFormat
		if format == "" {
			format = cfg.Input.Format
		}

		records, err := source.Load(path, format)
		if err != nil {
			return err
		}
		archive := review.NewArchive(records)

		fmt.Printf("Input: %s\n\n", path)
		fmt.Println("Archive:")
		fmt.Printf("  Records: %d\n", len(archive))
		fmt.Printf("  Developers: %d\n", len(archive.Developers()))
		fmt.Printf("  Weeks covered: %d\n", len(trends.WeekFrequency(archive)))
		if len(archive) > 0 {
			first, last := archive.Span()
			fmt.Printf("  First session: %s\n", first.Format(review.DateLayout))
			fmt.Printf("  Last session: %s\n", last.Format(review.DateLayout))
		}

		fmt.Println("\nReports:")
		fmt.Printf("  Directory: %s\n", cfg.GetReportsDir())
		fmt.Printf("  Generated: %d\n", countReports(cfg.GetReportsDir()))
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusInput, "input", "i", "", "Override the configured input file")
	statusCmd.Flags().StringVar(&statusFormat, "format", "", "Input format: csv or sqlite")
}

func countReports(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "trends-") && strings.HasSuffix(name, ".md") {
			count++
		}
	}
	return count
}

// --- run command ---

var (
	runInput         string
	runFormat        string
	runFrom          string
	runTo            string
	runCancellations int
	runYes           bool
	runDry           bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the trends report for a period: load -> assemble -> write",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runCancellations < 0 {
			return fmt.Errorf("--cancellations must be non-negative")
		}

		p := prompt.New()

		start, end, err := resolvePeriod(p)
		if err != nil {
			return err
		}

		params := pipeline.Params{
			InputPath: runInput,
			Format:    runFormat,
			Start:     start,
			End:       end,
		}

		if runDry {
			pipe := pipeline.New(cfg, nil)
			return printSteps(pipe.DryRun(params))
		}

		params.Cancellations = runCancellations
		if !cmd.Flags().Changed("cancellations") && !runYes {
			params.Cancellations, err = p.Cancellations()
			if err != nil {
				return err
			}
		}

		var confirm flagging.ConfirmFunc = p.ConfirmFlags
		if runYes {
			confirm = flagging.ApproveAll
		}

		pipe := pipeline.New(cfg, confirm)
		result := pipe.Run(params)
		if err := printSteps(result); err != nil {
			return err
		}

		fmt.Println()
		render.Summary(os.Stdout, result.Report)
		fmt.Println("\nRun 'trends serve' to browse reports.")
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Override the configured input file")
	runCmd.Flags().StringVar(&runFormat, "format", "", "Input format: csv or sqlite")
	runCmd.Flags().StringVar(&runFrom, "from", "", "Period start date (YYYY-MM-DD, inclusive)")
	runCmd.Flags().StringVar(&runTo, "to", "", "Period end date (YYYY-MM-DD, exclusive)")
	runCmd.Flags().IntVar(&runCancellations, "cancellations", 0, "Cancelled sessions in the period")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip prompts; approve all flag candidates")
	runCmd.Flags().BoolVar(&runDry, "dry-run", false, "Show what would be done without executing")
}

// resolvePeriod determines the reporting period from --from/--to, falling
// back to interactive prompts when neither is given.
func resolvePeriod(p *prompt.Prompter) (start, end time.Time, err error) {
	switch {
	case runFrom != "" && runTo != "":
		start, err = time.Parse(review.DateLayout, runFrom)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q", runFrom)
		}
		end, err = time.Parse(review.DateLayout, runTo)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q", runTo)
		}
		if !start.Before(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("--from must be before --to")
		}
		return start, end, nil
	case runFrom == "" && runTo == "":
		return p.DateRange()
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("--from and --to must be given together")
	}
}

func printSteps(result *pipeline.Result) error {
	for i, step := range result.Steps {
		fmt.Printf("\nStep %d/3: %s\n", i+1, step.Name)
		if step.Err != nil {
			return step.Err
		}
		fmt.Printf("  %s\n", step.Summary)
	}
	return nil
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local report browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(cfg.GetReportsDir(), port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}
