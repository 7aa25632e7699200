// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a summary of cached mirror record counts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	stats := mgr.Stats()
	fmt.Printf("available: %d\n", stats.Available)
	fmt.Printf("pending:   %d\n", stats.Pending)
	fmt.Printf("error:     %d\n", stats.Error)
	fmt.Printf("in-flight: %d\n", stats.InFlight)
	return nil
}
