// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command switchyard is the user-facing catalog of environment commands:
// build, start, stop, recreate, switch, status, and patch transfer for a set
// of named database checkouts.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/switchyard/pkg/switchboard"
)

var (
	configPath string
	verbose    bool

	skipConfigure bool
	release       bool
	orcaVariant   string
	patchScope    string

	board  *switchboard.Switchboard
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "switchyard",
	Short: "Switchboard for multiple GPDB checkouts and their builds",
	Long: `switchyard keeps several version checkouts of the database project (plus the
standalone ORCA optimizer) and their install directories straight: it detects
which environment owns the running cluster, switches between them, and drives
the external build and cluster tools.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg = zap.NewDevelopmentConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		switchboard.SetLogger(logger)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		board, err = switchboard.New(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads the configured file, or the default location, falling
// back to the built-in defaults when no file exists.
func loadConfig() (switchboard.Config, error) {
	path := configPath
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return switchboard.Config{}, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".switchyard.yaml")
		if _, err := os.Stat(path); err != nil {
			return switchboard.DefaultConfig()
		}
	}
	return switchboard.LoadConfig(path)
}

// resolveEnv picks the target environment: the name argument when given,
// otherwise the currently active one.
func resolveEnv(args []string) (switchboard.Environment, error) {
	if len(args) > 0 {
		return board.Registry().Lookup(args[0])
	}
	name, state, err := board.DetectActive()
	if err != nil {
		return switchboard.Environment{}, err
	}
	switch state {
	case switchboard.ActiveKnown:
		return board.Registry().Lookup(name)
	case switchboard.ActiveUnknown:
		return switchboard.Environment{}, errors.New("running cluster belongs to no registered environment; name one explicitly")
	default:
		return switchboard.Environment{}, errors.New("no environment named and none active")
	}
}

func buildOptions() (switchboard.BuildOptions, error) {
	variant, err := switchboard.ParseVariant(orcaVariant)
	if err != nil {
		return switchboard.BuildOptions{}, err
	}
	flavor := switchboard.FlavorDebug
	if release {
		flavor = switchboard.FlavorRelease
	}
	return switchboard.BuildOptions{
		Flavor:       flavor,
		RunConfigure: !skipConfigure,
		OrcaVariant:  variant,
	}, nil
}

var buildCmd = &cobra.Command{
	Use:   "build [environment]",
	Short: "Configure, build, and install an environment",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		opts, err := buildOptions()
		if err != nil {
			return err
		}
		sess, err := board.Activate(env)
		if err != nil {
			return err
		}
		res, err := board.Build(sess, opts)
		if res.BuildLog != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "build log: %s\n", res.BuildLog)
		}
		if res.InstallLog != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "install log: %s\n", res.InstallLog)
		}
		return err
	},
}

var startCmd = &cobra.Command{
	Use:   "start [environment]",
	Short: "Start an environment's cluster (stops any other one first)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		return board.Start(env)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop [environment]",
	Short: "Stop the running cluster",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		_, err = board.Stop(env)
		return err
	},
}

var recreateCmd = &cobra.Command{
	Use:   "recreate [environment]",
	Short: "Destroy and rebuild an environment's demo cluster",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		return board.Recreate(env)
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <environment>",
	Short: "Print shell commands that switch the current shell to an environment",
	Long: `Activates the environment and prints export and cd statements for the
calling shell to eval:

    eval "$(switchyard switch 6X)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := board.Registry().Lookup(args[0])
		if err != nil {
			return err
		}
		sess, err := board.Activate(env)
		if err != nil {
			return err
		}
		sess.ShellExports(cmd.OutOrStdout())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all environments and which one is active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return board.Status(cmd.OutOrStdout())
	},
}

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Transfer changes between environments as patches",
}

var patchCreateCmd = &cobra.Command{
	Use:   "create <revision-range> [environment]",
	Short: "Write a scoped patch to the well-known patch file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := switchboard.ParseScope(patchScope)
		if err != nil {
			return err
		}
		env, err := resolveEnv(args[1:])
		if err != nil {
			return err
		}
		sess, err := board.Activate(env)
		if err != nil {
			return err
		}
		file, err := board.CreatePatch(sess, scope, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), file)
		return nil
	},
}

var patchApplyCmd = &cobra.Command{
	Use:   "apply [environment]",
	Short: "Apply the well-known patch file, translating layouts as needed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		sess, err := board.Activate(env)
		if err != nil {
			return err
		}
		return board.ApplyPatch(sess)
	},
}

var orcaCmd = &cobra.Command{
	Use:   "orca [environment]",
	Short: "Build the standalone optimizer for one variant",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		variant, err := switchboard.ParseVariant(orcaVariant)
		if err != nil {
			return err
		}
		return board.BuildOrca(env, variant)
	},
}

var ideCmd = &cobra.Command{
	Use:   "ide [environment]",
	Short: "Generate IDE project files for an environment and open them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(args)
		if err != nil {
			return err
		}
		sess, err := board.Activate(env)
		if err != nil {
			return err
		}
		return board.OpenProject(sess)
	},
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git pre-push hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install [checkout-dir]",
	Short: "Install the pre-push hook into a checkout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return board.InstallHook(dir)
	},
}

var hookPrePushCmd = &cobra.Command{
	Use:    "pre-push [remote] [url]",
	Short:  "Invoked by git: refuse pushes to protected branches",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		allow := os.Getenv("SWITCHYARD_ALLOW_PUSH") != ""
		return board.CheckPrePush(cmd.InOrStdin(), allow)
	},
}

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List registered environments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, env := range board.Registry().All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s -> %s\n", env.Name, env.SourceDir, env.InstallDir)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.switchyard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	buildCmd.Flags().BoolVarP(&skipConfigure, "skip-configure", "n", false, "skip the configure step")
	buildCmd.Flags().BoolVarP(&release, "release", "r", false, "release build (default debug)")
	buildCmd.Flags().StringVar(&orcaVariant, "orca-variant", "dev", "optimizer build to link against (dev or retail)")
	orcaCmd.Flags().StringVar(&orcaVariant, "variant", "dev", "optimizer build variant (dev or retail)")
	patchCreateCmd.Flags().StringVar(&patchScope, "scope", "optimizer", "patch scope (optimizer or main)")

	patchCmd.AddCommand(patchCreateCmd, patchApplyCmd)
	hookCmd.AddCommand(hookInstallCmd, hookPrePushCmd)
	rootCmd.AddCommand(buildCmd, startCmd, stopCmd, recreateCmd, switchCmd,
		statusCmd, patchCmd, orcaCmd, ideCmd, hookCmd, envsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
