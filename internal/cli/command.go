package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/dirstat/internal/dirstat"
)

// DefaultBlockSize is the unit sizes are printed in unless overridden.
const DefaultBlockSize = 1024

// BlockSizeEnv lists the environment variables consulted, in order, for the
// default block size.
//
//nolint:gochecknoglobals // Config constant
var BlockSizeEnv = []string{"DIRSTAT_BLOCK_SIZE", "BLOCK_SIZE"}

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// flags holds the raw flag values before validation.
type flags struct {
	all       bool
	apparent  bool
	bytes     bool
	kilo      bool
	mega      bool
	human     bool
	total     bool
	derefArgs bool
	deref     bool
	noDeref   bool
	summarize bool
	parallel  bool
	debug     bool
	version   bool
	maxDepth  int
	blockSize string
	excludes  []string
	output    string
	paths     []string
}

// settings is the validated configuration of one invocation.
type settings struct {
	config   dirstat.Config
	paths    []string
	format   sizeFormat
	output   string
	total    bool
	parallel bool
	debug    bool
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command(os.Stdout, os.Stderr).Execute()
}

// Command builds the root command writing records to stdout and
// diagnostics to stderr.
func (c CLI) Command(stdout, stderr io.Writer) *cobra.Command {
	var opts flags

	cmd := &cobra.Command{
		Use:   "dirstat [flags] [path...]",
		Short: "Estimate disk usage of file trees",
		Long: heredoc.Doc(`
			dirstat estimates the space used by each path and its subdirectories.

			Every path is walked depth first. Hard links and directories reached
			twice are counted once per path argument. Directory totals are printed
			children first, followed by the path itself.

			Sizes are allocated storage printed in 1024-byte units unless
			--apparent-size, --bytes, --block-size or --human-readable say otherwise.
			The default unit can be set through $DIRSTAT_BLOCK_SIZE or $BLOCK_SIZE.

			Positional Arguments:
			  path    Files or directories to size. Defaults to the current directory.
		`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				_, err := fmt.Fprintln(stdout, c.version)

				return err
			}

			opts.paths = args

			s, err := opts.resolve(cmd.Flags())
			if err != nil {
				return fmt.Errorf("%w\nRun '%s --help' for usage", err, cmd.CommandPath())
			}

			return logic(cmd.Context(), s, stdout, stderr)
		},
	}

	bindFlags(cmd.Flags(), &opts)

	cmd.MarkFlagsMutuallyExclusive("dereference", "no-dereference")
	cmd.MarkFlagsMutuallyExclusive("dereference-args", "no-dereference")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

func bindFlags(fs *pflag.FlagSet, opts *flags) {
	fs.BoolVarP(&opts.all, "all", "a", false, "Report files as well as directories")
	fs.BoolVar(&opts.apparent, "apparent-size", false, "Report apparent sizes rather than allocated storage")
	fs.BoolVarP(&opts.bytes, "bytes", "b", false, "Equivalent to '--apparent-size --block-size=1'")
	fs.StringVarP(&opts.blockSize, "block-size", "B", "", "Scale sizes by SIZE (e.g., 1, 4KiB, 1MB)")
	fs.BoolVarP(&opts.kilo, "kilobytes", "k", false, "Like --block-size=1KiB")
	fs.BoolVarP(&opts.mega, "megabytes", "m", false, "Like --block-size=1MiB")
	fs.BoolVarP(&opts.human, "human-readable", "h", false, "Print sizes in human readable format (e.g., 1.2 MiB)")
	fs.BoolVarP(&opts.total, "total", "c", false, "Produce a grand total")
	fs.IntVarP(&opts.maxDepth, "max-depth", "d", dirstat.NoDepthLimit,
		"Report a total for a directory only if it is N or fewer levels below the argument")
	fs.BoolVarP(&opts.derefArgs, "dereference-args", "H", false, "Dereference symlinks given on the command line")
	fs.BoolVarP(&opts.deref, "dereference", "L", false, "Dereference all symbolic links")
	fs.BoolVarP(&opts.noDeref, "no-dereference", "P", false, "Don't follow any symbolic links (default)")
	fs.BoolVarP(&opts.summarize, "summarize", "s", false, "Display only a total for each argument")
	fs.StringSliceVarP(&opts.excludes, "exclude", "e", []string{}, "Regex patterns to exclude")
	fs.StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")
	fs.BoolVar(&opts.parallel, "parallel", false, "Walk in parallel; requires --summarize and no --dereference")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug output")
	fs.BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	fs.SortFlags = false
}

// resolve validates the flags and builds the immutable traversal config.
//
//nolint:cyclop // Flat list of checks
func (f flags) resolve(fs *pflag.FlagSet) (settings, error) {
	allowedOutputs := []string{"text", "json"}

	if !slices.Contains(allowedOutputs, f.output) {
		return settings{}, fmt.Errorf("invalid output format %q: must be one of %v", f.output, allowedOutputs)
	}

	maxDepth := f.maxDepth
	if fs.Changed("max-depth") && maxDepth < 0 {
		return settings{}, errors.New("max-depth cannot be negative")
	}

	if f.summarize && f.all {
		return settings{}, errors.New("cannot both summarize and show all entries")
	}

	if f.summarize && maxDepth > 0 {
		return settings{}, fmt.Errorf("summarizing conflicts with --max-depth=%d", maxDepth)
	}

	if f.parallel && !(f.summarize || maxDepth == 0) {
		return settings{}, errors.New("--parallel requires --summarize or --max-depth=0")
	}

	if f.parallel && (f.all || f.deref) {
		return settings{}, errors.New("--parallel cannot be combined with --all or --dereference")
	}

	excludes, err := dirstat.CompileExcludes(f.excludes)
	if err != nil {
		return settings{}, err
	}

	format, err := f.sizeFormat()
	if err != nil {
		return settings{}, err
	}

	paths := f.paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	config := dirstat.DefaultConfig()
	config.ApparentSize = f.apparent || f.bytes
	config.Dereference = f.deref && !f.noDeref
	config.DereferenceArgs = f.derefArgs && !f.noDeref
	config.AllEntries = f.all
	config.Summarize = f.summarize
	config.Excludes = excludes

	if fs.Changed("max-depth") {
		config.MaxDepth = maxDepth
	}

	return settings{
		config:   config,
		paths:    paths,
		format:   format,
		output:   f.output,
		total:    f.total,
		parallel: f.parallel,
		debug:    f.debug,
	}, nil
}

// sizeFormat picks the display unit: --block-size, then -m, -k and -b,
// then the environment, then DefaultBlockSize.
func (f flags) sizeFormat() (sizeFormat, error) {
	format := sizeFormat{blockSize: DefaultBlockSize, human: f.human}

	switch {
	case f.blockSize != "":
		size, err := parseBlockSize(f.blockSize)
		if err != nil {
			return sizeFormat{}, fmt.Errorf("invalid block-size: %w", err)
		}

		format.blockSize = size
	case f.mega:
		format.blockSize = humanize.MiByte
	case f.kilo:
		format.blockSize = humanize.KiByte
	case f.bytes:
		format.blockSize = 1
	default:
		for _, env := range BlockSizeEnv {
			value := os.Getenv(env)
			if value == "" {
				continue
			}

			size, err := parseBlockSize(value)
			if err != nil {
				return sizeFormat{}, fmt.Errorf("invalid $%s: %w", env, err)
			}

			format.blockSize = size

			break
		}
	}

	return format, nil
}
