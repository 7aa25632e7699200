// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pkgcache/repomgr/reposource"
)

var removeCmd = &cobra.Command{
	Use:   "remove <location>",
	Short: "Remove a cached mirror and its record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	specifier, err := reposource.ParseSpecifier(args[0])
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	return mgr.Remove(specifier)
}
