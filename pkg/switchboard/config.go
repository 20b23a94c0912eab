// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config holds all switchboard settings. It is loaded once at startup from a
// YAML file and never mutated afterwards. Every field has a default, so an
// empty file yields the stock four-environment setup.
type Config struct {
	// Environments lists the registered checkouts. Defaults to master,
	// 6X, 5X, and 4X under ~/gpdb.<name> with installs under
	// ~/install/gpdb.<name>.
	Environments []EnvironmentConfig `yaml:"environments"`

	// OrcaSubdir is the path of the optimizer subtree relative to a source
	// checkout. Its presence toggles embedded mode (default
	// "src/backend/gporca").
	OrcaSubdir string `yaml:"orca_subdir"`

	// LegacyVars are environment variables deleted on every activation so
	// they cannot leak from a previously activated environment.
	LegacyVars []string `yaml:"legacy_vars"`

	Orca        OrcaConfig        `yaml:"orca"`
	Build       BuildConfig       `yaml:"build"`
	Cluster     ClusterConfig     `yaml:"cluster"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Patch       PatchConfig       `yaml:"patch"`
	Hook        HookConfig        `yaml:"hook"`
	IDE         IDEConfig         `yaml:"ide"`
}

// EnvironmentConfig describes one registered checkout.
type EnvironmentConfig struct {
	Name       string `yaml:"name"`
	SourceDir  string `yaml:"source_dir"`
	InstallDir string `yaml:"install_dir"`

	// OrcaBuildDir overrides Orca.BuildDirBase for this environment. The
	// variant suffix (.dev/.rel) is still appended.
	OrcaBuildDir string `yaml:"orca_build_dir,omitempty"`
}

// OrcaConfig locates the standalone optimizer checkout and its build output.
type OrcaConfig struct {
	// SourceDir is the standalone optimizer checkout (default ~/orca).
	SourceDir string `yaml:"source_dir"`

	// BuildDirBase is the build directory without the variant suffix
	// (default ~/orca/build). The dev build lands in <base>.dev, the
	// retail build in <base>.rel.
	BuildDirBase string `yaml:"build_dir_base"`
}

// BuildConfig holds configure and make settings.
type BuildConfig struct {
	// Jobs bounds make parallelism (default 8).
	Jobs int `yaml:"jobs"`

	// BaseConfigureFlags apply to every flavor.
	BaseConfigureFlags []string `yaml:"base_configure_flags"`

	// DebugConfigureFlags are added for debug builds on top of the base
	// flags. Release builds add nothing.
	DebugConfigureFlags []string `yaml:"debug_configure_flags"`

	// LogDir receives the build and install logs (default the system
	// temp directory).
	LogDir string `yaml:"log_dir"`
}

// ClusterConfig names the external cluster tools.
type ClusterConfig struct {
	// StartTool launches the cluster (default "gpstart").
	StartTool string `yaml:"start_tool"`

	// StartArgs are passed to StartTool (default ["-a"]).
	StartArgs []string `yaml:"start_args"`

	// DemoDir is the demo-cluster directory relative to a source checkout
	// (default "gpAux/gpdemo").
	DemoDir string `yaml:"demo_dir"`

	// DemoTarget is the make target that constructs the demo cluster
	// (default "cluster").
	DemoTarget string `yaml:"demo_target"`

	// Segments is the number of primary segments for a recreated demo
	// cluster (default 3). Standby and mirrors are always disabled.
	Segments int `yaml:"segments"`

	// DefaultDatabase is created after a recreate. Empty means createdb's
	// own default (a database named after the current user).
	DefaultDatabase string `yaml:"default_database"`
}

// CoordinatorConfig describes how a running coordinator process is
// recognized in the process table.
type CoordinatorConfig struct {
	// Binary is the server executable name (default "postgres").
	Binary string `yaml:"binary"`

	// RoleFlag is the command-line fragment that marks the dispatcher
	// role (default "gp_role=dispatch").
	RoleFlag string `yaml:"role_flag"`
}

// PatchConfig controls patch creation and transfer.
type PatchConfig struct {
	// File is the well-known patch path, overwritten on every create
	// (default <tmp>/switchyard.patch).
	File string `yaml:"file"`

	// ExcludeFiles are the optimizer integration files excluded from
	// main-only patches in addition to the optimizer subtree itself.
	ExcludeFiles []string `yaml:"exclude_files"`
}

// HookConfig controls the pre-push hook.
type HookConfig struct {
	// ProtectedBranches may not be pushed to unless SWITCHYARD_ALLOW_PUSH
	// is set (default master and main).
	ProtectedBranches []string `yaml:"protected_branches"`
}

// IDEConfig controls project-file generation.
type IDEConfig struct {
	// Generator is the cmake generator name (default "Xcode").
	Generator string `yaml:"generator"`

	// ProjectDir is where generated project files land, relative to the
	// source checkout (default "xcode").
	ProjectDir string `yaml:"project_dir"`

	// Launcher opens the generated project (default "open").
	Launcher string `yaml:"launcher"`
}

// defaultEnvironmentNames are the stock checkouts registered when the config
// file lists none.
var defaultEnvironmentNames = []string{"master", "6X", "5X", "4X"}

func (c *Config) applyDefaults() {
	if len(c.Environments) == 0 {
		for _, name := range defaultEnvironmentNames {
			c.Environments = append(c.Environments, EnvironmentConfig{
				Name:       name,
				SourceDir:  filepath.Join("~", "gpdb."+name),
				InstallDir: filepath.Join("~", "install", "gpdb."+name),
			})
		}
	}
	if c.OrcaSubdir == "" {
		c.OrcaSubdir = filepath.Join("src", "backend", "gporca")
	}
	if len(c.LegacyVars) == 0 {
		c.LegacyVars = []string{"GPPERFMONHOME"}
	}
	if c.Orca.SourceDir == "" {
		c.Orca.SourceDir = filepath.Join("~", "orca")
	}
	if c.Orca.BuildDirBase == "" {
		c.Orca.BuildDirBase = filepath.Join(c.Orca.SourceDir, "build")
	}
	if c.Build.Jobs == 0 {
		c.Build.Jobs = 8
	}
	if len(c.Build.BaseConfigureFlags) == 0 {
		c.Build.BaseConfigureFlags = []string{
			"--with-perl",
			"--with-python",
			"--with-libxml",
			"--enable-depend",
		}
	}
	if len(c.Build.DebugConfigureFlags) == 0 {
		c.Build.DebugConfigureFlags = []string{
			"--enable-debug",
			"--enable-cassert",
			"--enable-debug-extensions",
		}
	}
	if c.Build.LogDir == "" {
		c.Build.LogDir = os.TempDir()
	}
	if c.Cluster.StartTool == "" {
		c.Cluster.StartTool = "gpstart"
	}
	if len(c.Cluster.StartArgs) == 0 {
		c.Cluster.StartArgs = []string{"-a"}
	}
	if c.Cluster.DemoDir == "" {
		c.Cluster.DemoDir = filepath.Join("gpAux", "gpdemo")
	}
	if c.Cluster.DemoTarget == "" {
		c.Cluster.DemoTarget = "cluster"
	}
	if c.Cluster.Segments == 0 {
		c.Cluster.Segments = 3
	}
	if c.Coordinator.Binary == "" {
		c.Coordinator.Binary = "postgres"
	}
	if c.Coordinator.RoleFlag == "" {
		c.Coordinator.RoleFlag = "gp_role=dispatch"
	}
	if c.Patch.File == "" {
		c.Patch.File = filepath.Join(os.TempDir(), "switchyard.patch")
	}
	if len(c.Patch.ExcludeFiles) == 0 {
		c.Patch.ExcludeFiles = []string{
			"configure.ac",
			"config/orca.m4",
			"src/backend/Makefile",
		}
	}
	if len(c.Hook.ProtectedBranches) == 0 {
		c.Hook.ProtectedBranches = []string{"master", "main"}
	}
	if c.IDE.Generator == "" {
		c.IDE.Generator = "Xcode"
	}
	if c.IDE.ProjectDir == "" {
		c.IDE.ProjectDir = "xcode"
	}
	if c.IDE.Launcher == "" {
		c.IDE.Launcher = "open"
	}
}

// expandPaths resolves a leading ~ in every configured path.
func (c *Config) expandPaths() error {
	expand := func(p *string) error {
		if *p == "" {
			return nil
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %s: %w", *p, err)
		}
		*p = expanded
		return nil
	}
	for i := range c.Environments {
		if err := expand(&c.Environments[i].SourceDir); err != nil {
			return err
		}
		if err := expand(&c.Environments[i].InstallDir); err != nil {
			return err
		}
		if err := expand(&c.Environments[i].OrcaBuildDir); err != nil {
			return err
		}
	}
	if err := expand(&c.Orca.SourceDir); err != nil {
		return err
	}
	if err := expand(&c.Orca.BuildDirBase); err != nil {
		return err
	}
	if err := expand(&c.Build.LogDir); err != nil {
		return err
	}
	return expand(&c.Patch.File)
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() (Config, error) {
	var cfg Config
	cfg.applyDefaults()
	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a configuration YAML file, fills in defaults, and expands
// home-relative paths.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
