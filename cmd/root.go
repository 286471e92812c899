// Package cmd implements the oceankit command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oceankit",
	Short: "Preprocessing toolkit for oceanographic observation data",
	Long: `oceankit prepares oceanographic observation data (Argo profiles,
satellite fields, mooring records) for machine learning: parsing, cleaning,
quality control, missingness-mask generation, and training-set assembly.

Every operation is exposed both as a CLI command and as a tool an AI model
can call through the ask command. NetCDF and HDF5 files are handled by a
Python helper subprocess; everything tabular stays in-process.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
