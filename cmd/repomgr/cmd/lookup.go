// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgcache/repomgr/reposource"
)

var skipUpdate bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <location>",
	Short: "Resolve a repository location to a cached mirror path",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&skipUpdate, "skip-update", false, "return an existing mirror without checking for updates")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	specifier, err := reposource.ParseSpecifier(args[0])
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	handle, err := mgr.Lookup(context.Background(), specifier, skipUpdate)
	if err != nil {
		return err
	}

	fmt.Println(handle.Path())
	return nil
}
