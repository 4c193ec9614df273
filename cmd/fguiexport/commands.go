package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hxzbg/fguiexport/internal/config"
	"github.com/hxzbg/fguiexport/internal/export"
	"github.com/hxzbg/fguiexport/internal/logging"
	"github.com/hxzbg/fguiexport/internal/project"
)

// cli holds the state shared by every command of one invocation.
type cli struct {
	projectRoot string
	targetRoot  string
	configFile  string
	logLevel    string
	logDev      bool
	metricsFile string

	cfg     *config.Config
	project *project.Project
	logger  *logging.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "fguiexport",
		Short: "Export Egret EUI skins as FairyGUI components",
		Long: `fguiexport converts the EXML skins of an Egret project into FairyGUI
component documents.

Images and nested components are resolved against the package.xml
descriptors found under <target>/assets. Images carrying a 9-slice grid
update their package entry, which is written back once at the end.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.projectRoot, "project", "", "Egret project root (default from FGUI_PROJECT_ROOT or .)")
	flags.StringVar(&c.targetRoot, "target", "", "FairyGUI target root, overrides wingProperties.json")
	flags.StringVar(&c.configFile, "config", "", "YAML or TOML settings file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&c.logDev, "log-dev", false, "human-readable console logs")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file at the end")

	root.AddCommand(
		&cobra.Command{
			Use:   "export FILE...",
			Short: "Export the given EXML files",
			Args:  cobra.MinimumNArgs(1),
			RunE:  c.runExport,
		},
		&cobra.Command{
			Use:   "batch [DIR]",
			Short: "Export every EXML file below DIR, one at a time",
			Long: `Exports every EXML file below DIR, or below each of the project's
EXML roots when DIR is omitted. Files are processed sequentially with a
short settle pause in between; a write failure stops the batch.`,
			Args: cobra.MaximumNArgs(1),
			RunE: c.runBatch,
		},
		newPackageCmd(c),
		&cobra.Command{
			Use:   "target PATH",
			Short: "Store the FairyGUI target root in wingProperties.json",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runTarget,
		},
	)
	return root
}

func newPackageCmd(c *cli) *cobra.Command {
	pkg := &cobra.Command{
		Use:   "package",
		Short: "Manage target packages",
	}
	pkg.AddCommand(&cobra.Command{
		Use:   "create DIR",
		Short: "Create an empty package with a fresh id",
		Long: `Creates DIR/package.xml with a new 9-character package id.
Relative directories are placed under <target>/assets.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runPackageCreate,
	})
	return pkg
}

// setup loads configuration in order env, file, flags and opens the project.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.configFile != "" {
		if err := config.LoadFile(cfg, c.configFile); err != nil {
			return err
		}
	}
	if c.projectRoot != "" {
		cfg.Project.Root = c.projectRoot
	}
	if c.targetRoot != "" {
		cfg.Export.TargetRoot = c.targetRoot
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if cmd.Flags().Changed("log-dev") {
		cfg.Logging.Development = c.logDev
	}
	if c.metricsFile != "" {
		cfg.Metrics.TextfilePath = c.metricsFile
	}

	logger, err := logging.NewRun(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	proj, err := project.Load(cfg.Project.Root)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.project = proj
	c.logger = logger
	return nil
}

// begin starts a session; the caller must End it.
func (c *cli) begin(cmd *cobra.Command) (*export.Session, error) {
	s := export.NewSession(c.cfg, c.project, export.WithLogger(c.logger))
	if err := s.Begin(cmd.Context()); err != nil {
		if errors.Is(err, export.ErrConfigurationMissing) {
			return nil, fmt.Errorf("%w: pass --target, set FGUI_TARGET_ROOT or run \"fguiexport target PATH\"", err)
		}
		return nil, err
	}
	return s, nil
}

// finish ends s and prefers the command's own error.
func finish(s *export.Session, err error) error {
	if endErr := s.End(); err == nil {
		err = endErr
	}
	return err
}

func (c *cli) runExport(cmd *cobra.Command, args []string) error {
	s, err := c.begin(cmd)
	if err != nil {
		return err
	}
	for _, file := range args {
		if abs, err := filepath.Abs(file); err == nil {
			file = abs
		}
		out, err := s.RunFile(cmd.Context(), file)
		if err != nil {
			return finish(s, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return finish(s, nil)
}

func (c *cli) runBatch(cmd *cobra.Command, args []string) error {
	dirs := c.project.ExmlRoots
	if len(args) == 1 {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		dirs = []string{dir}
	}

	s, err := c.begin(cmd)
	if err != nil {
		return err
	}
	total := 0
	for _, dir := range dirs {
		written, err := s.Batch(cmd.Context(), dir)
		total += len(written)
		if err != nil {
			return finish(s, err)
		}
	}
	c.logger.Info("Export complete", zap.Int("files", total))
	fmt.Fprintf(cmd.OutOrStdout(), "%d files exported\n", total)
	return finish(s, nil)
}

func (c *cli) runPackageCreate(cmd *cobra.Command, args []string) error {
	s, err := c.begin(cmd)
	if err != nil {
		return err
	}
	pkg, err := s.CreatePackage(args[0])
	if err != nil {
		return finish(s, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pkg.ID, pkg.Path)
	return finish(s, nil)
}

func (c *cli) runTarget(cmd *cobra.Command, args []string) error {
	if err := c.project.SetTargetRoot(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), c.project.TargetRoot)
	return nil
}
