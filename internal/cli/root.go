package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/compiler"
	"github.com/toyz/metagen/internal/dsl"
	"github.com/toyz/metagen/internal/utils"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app is the state shared by the commands of one invocation
type app struct {
	viper      *viper.Viper
	configFile string
	verbose    bool
	quiet      bool

	config      *Config
	logger      *zap.Logger
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
}

// NewRootCommand creates the metagen command tree
func NewRootCommand() *cobra.Command {
	a := &app{viper: NewViper()}

	root := &cobra.Command{
		Use:   "metagen",
		Short: "Compile application meta-models into Go data-access code",
		Long: color.CyanString(`metagen - meta-model compiler

metagen reads model files (*.mg) declaring modules, data objects and their
properties, resolves property dependencies and generics, merges method hooks
and generates one Go package per module.`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./metagen.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors and final results")
	flags.String("log-level", "", "structured log level (debug, info, warn, error, off)")
	_ = a.viper.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(a.newGenerateCommand())
	root.AddCommand(a.newCheckCommand())
	root.AddCommand(a.newServeCommand())
	root.AddCommand(a.newCleanCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// setup loads the configuration and builds the output channels
func (a *app) setup(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig(a.viper, a.configFile)
	if err != nil {
		return err
	}
	a.config = config

	logger, err := utils.NewLogger(config.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	switch {
	case a.quiet:
		a.diagnostics = utils.NewQuietDiagnostics()
	case a.verbose:
		a.diagnostics = utils.NewVerboseDiagnostics()
	default:
		a.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		a.diagnostics.SetOutput(out)
	}
	a.reporter = NewDiagnosticReporter(cmd.ErrOrStderr(), a.verbose)
	return nil
}

// compile loads the model files designated by args and compiles them
func (a *app) compile(args []string) (*compiler.Compiler, error) {
	files, err := NewModelScanner().Scan(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no model files (*%s) found in %v", ModelExtension, args)
	}
	a.diagnostics.Verbose("Found %d model files", len(files))
	for _, file := range files {
		a.diagnostics.Debug("model file %s", file)
	}

	c := compiler.New(a.logger)
	if err := dsl.LoadFiles(c, a.logger, files...); err != nil {
		return nil, a.fail(err)
	}
	if err := NewModuleResolver().Apply(c.Modules(), a.config.ModulePath, a.config.OutputDir); err != nil {
		return nil, err
	}
	if _, err := c.Compile(); err != nil {
		return nil, a.fail(err)
	}
	return c, nil
}

// fail reports err in detail and returns a short error for the exit message
func (a *app) fail(err error) error {
	a.reporter.ReportError(err)
	return fmt.Errorf("model compilation failed")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			title := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			title.Fprint(out, "metagen version: ")
			fmt.Fprintln(out, Version)
			title.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			title.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
			title.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}
