package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/inspect"
)

func (a *app) newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <model files or directories...>",
		Short: "Generate Go code from model files",
		Long: `Generate one Go package per module under the output directory.

Arguments are model files, directories, or Go-style patterns such as ./models/...
Unchanged files are not rewritten.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runGenerate,
	}
	cmd.Flags().StringP("output", "o", "", "output directory (overrides output_dir)")
	cmd.Flags().String("runtime", "", "runtime package import path (overrides runtime_package)")
	cmd.Flags().Int("parallel", 0, "modules generated at once, 0 for unbounded")
	_ = a.viper.BindPFlag("output_dir", cmd.Flags().Lookup("output"))
	_ = a.viper.BindPFlag("runtime_package", cmd.Flags().Lookup("runtime"))
	_ = a.viper.BindPFlag("parallel", cmd.Flags().Lookup("parallel"))
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	a.diagnostics.Section("metagen")
	c, err := a.compile(args)
	if err != nil {
		return err
	}
	stats := c.Stats()

	a.diagnostics.Subsection("Code Generation")
	results, err := c.Generate(cmd.Context(), a.config.GeneratorConfig())
	if err != nil {
		return a.fail(err)
	}

	written := 0
	a.diagnostics.Indent()
	for _, result := range results {
		if result.Written {
			written++
			a.diagnostics.PhaseItem("%s", result.Path)
		} else {
			a.diagnostics.Verbose("unchanged %s", result.Path)
		}
	}
	a.diagnostics.Unindent()
	a.diagnostics.Summary("Generation complete", map[string]interface{}{
		"Modules":    stats.Modules,
		"Objects":    stats.Objects,
		"Properties": stats.Properties,
		"Hooks":      stats.Hooks,
		"Files":      len(results),
		"Written":    written,
	})
	return nil
}

func (a *app) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <model files or directories...>",
		Short: "Compile model files without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.compile(args)
			if err != nil {
				return err
			}
			stats := c.Stats()
			a.diagnostics.Summary("Model is valid", map[string]interface{}{
				"Modules":    stats.Modules,
				"Objects":    stats.Objects,
				"Properties": stats.Properties,
				"Bound":      stats.Bound,
				"Hooks":      stats.Hooks,
			})
			return nil
		},
	}
}

func (a *app) newServeCommand() *cobra.Command {
	var engine, addr string
	cmd := &cobra.Command{
		Use:   "serve <model files or directories...>",
		Short: "Serve the compiled model as JSON over HTTP",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.compile(args)
			if err != nil {
				return err
			}
			server, err := inspect.NewServer(engine)
			if err != nil {
				return err
			}
			inspect.New(c, a.config.GeneratorConfig(), a.logger).Register(server)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, server, addr)
		},
	}
	cmd.Flags().StringVar(&engine, "engine", inspect.EngineGin, "web engine: gin, echo or fiber")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}

// serve runs server until ctx is done, then shuts it down
func (a *app) serve(ctx context.Context, server inspect.WebServer, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- server.Start(addr)
	}()
	a.diagnostics.Success("Inspecting model on http://%s (%s)", addr, server.Name())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down inspection server", zap.String("engine", server.Name()))
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdown); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errc
}

func (a *app) newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated files",
		Long:  "Delete every *_gen.go file generated by metagen below the given directories (default: output_dir).",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{a.config.OutputDir}
			}
			removed, err := NewCleaner().Clean(dirs)
			for _, path := range removed {
				a.diagnostics.Verbose("removed %s", path)
			}
			if err != nil {
				return err
			}
			a.diagnostics.Success("Removed %d generated files", len(removed))
			return nil
		},
	}
}
