// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkgcache/repomgr"
	"github.com/pkgcache/repomgr/gitprovider"
)

var rootCmd = &cobra.Command{
	Use:   "repomgr",
	Short: "Repository manager CLI",
	Long:  "A demonstrative front-end over repomgr.Manager: fetch, update, remove, and reset cached repository mirrors.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/repomgr/config.yaml)")
	rootCmd.PersistentFlags().String("root", "", "repository manager root directory (default: ~/.local/share/repomgr)")
	rootCmd.PersistentFlags().String("cache-dir", "", "optional shared cross-workspace cache directory")
	rootCmd.PersistentFlags().Bool("cache-local-packages", false, "stage local (file://) specifiers through the cache too")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("cache_local_packages", rootCmd.PersistentFlags().Lookup("cache-local-packages"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REPOMGR")
	viper.AutomaticEnv()
	viper.SetDefault("root", defaultRoot())

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "repomgr")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "repomgr")
	}
	return ".repomgr"
}

func defaultRoot() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "repomgr")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "repomgr")
	}
	return ".repomgr"
}

// newManager builds the Manager shared by every subcommand, wired with a
// git-backed Provider and a Delegate that echoes lifecycle events to stderr.
func newManager() (*repomgr.Manager, error) {
	root := viper.GetString("root")
	if root == "" {
		return nil, fmt.Errorf("no repository manager root configured")
	}

	opts := []repomgr.Option{
		repomgr.WithWarningHandler(func(msg string) { fmt.Fprintf(os.Stderr, "warning: %s\n", msg) }),
		repomgr.WithDelegate(cliDelegate()),
	}
	if cacheDir := viper.GetString("cache_dir"); cacheDir != "" {
		opts = append(opts, repomgr.WithCachePath(cacheDir))
	}
	if viper.GetBool("cache_local_packages") {
		opts = append(opts, repomgr.WithCacheLocalPackages(true))
	}

	return repomgr.NewManager(root, gitprovider.NewProvider(), opts...)
}
