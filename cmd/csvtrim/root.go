package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvtrim"
	"github.com/oleg578/csvtrim/internal/config"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type rootFlags struct {
	maxLength  int
	delimiter  string
	strict     bool
	graphemes  bool
	configPath string
	debugMode  bool
}

func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "csvtrim [flags] INPUT OUTPUT",
		Short: "csvtrim - normalise delimited files into a fixed four-column CSV",
		Long: `csvtrim reads a delimited file, trims every field, reorders each record into
id, attribute, date, description and caps the description length.`,
		Example: `  csvtrim datafile_5.csv out.csv
  csvtrim -d ';' -n 40 datafile_UK.csv out.csv
  csvtrim --config job.yaml`,
		Args: cobra.RangeArgs(0, 2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if flags.debugMode {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := flags.job(cmd, args)
			if err != nil {
				return err
			}
			return runTransform(cmd.OutOrStdout(), job)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().IntVarP(&flags.maxLength, "max-length", "n", config.DefaultMaxDescriptionLength, "Maximum description length")
	cmd.Flags().StringVarP(&flags.delimiter, "delimiter", "d", csvtrim.DefaultDelimiter, "Input field delimiter")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Abort on records with too few fields")
	cmd.Flags().BoolVar(&flags.graphemes, "graphemes", false, "Count description length in grapheme clusters")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "YAML job file; arguments and flags override it")
	cmd.PersistentFlags().BoolVar(&flags.debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// job merges the job file, positional arguments and explicitly set flags, in that order.
func (f *rootFlags) job(cmd *cobra.Command, args []string) (csvtrim.Job, error) {
	cfg := &config.Config{}
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return csvtrim.Job{}, err
		}
		cfg = loaded
	}
	job := cfg.Job()

	if len(args) > 0 {
		job.Input = args[0]
	}
	if len(args) > 1 {
		job.Output = args[1]
	}
	if job.Input == "" || job.Output == "" {
		return csvtrim.Job{}, errors.New("both INPUT and OUTPUT are required, as arguments or in --config")
	}

	fs := cmd.Flags()
	if fs.Changed("max-length") || f.configPath == "" {
		job.MaxDescriptionLength = f.maxLength
	}
	if fs.Changed("delimiter") || f.configPath == "" {
		job.Delimiter = f.delimiter
	}
	if fs.Changed("strict") {
		job.Strict = f.strict
	}
	if fs.Changed("graphemes") {
		job.Graphemes = f.graphemes
	}
	return job, nil
}

func runTransform(out io.Writer, job csvtrim.Job) error {
	res, err := csvtrim.Run(job)
	if err != nil {
		if errors.Is(err, csvtrim.ErrSourceNotFound) {
			slog.Debug("Input file missing", "path", job.Input)
		}
		return err
	}

	if res.Skipped > 0 {
		fmt.Fprintf(out, "%d records written, %d malformed records skipped\n", res.Written, res.Skipped)
		return nil
	}
	fmt.Fprintf(out, "%d records written\n", res.Written)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "csvtrim version %s\n", Version)
		},
	}
}

func newInitCmd() *cobra.Command {
	var cfg config.Config
	var maxLength int

	cmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write a job file template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.MaxDescriptionLength = &maxLength
			if err := cfg.Save(args[0]); err != nil {
				return err
			}
			slog.Debug("Wrote job file", "path", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Input, "input", "", "Input file")
	cmd.Flags().StringVar(&cfg.Output, "output", "", "Output file")
	cmd.Flags().IntVarP(&maxLength, "max-length", "n", config.DefaultMaxDescriptionLength, "Maximum description length")
	cmd.Flags().StringVarP(&cfg.Delimiter, "delimiter", "d", csvtrim.DefaultDelimiter, "Input field delimiter")

	return cmd
}

func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}
