package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/docfile"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Write a resume document template",
	Long:  "Writes a YAML or JSON document (picked from the extension) with one section of every kind and every field left empty.",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

var newForce bool

func init() {
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "Overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !newForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := writeTemplate(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote template to %s\n", path)
	return nil
}

func writeTemplate(path string) error {
	data, err := docfile.Template().Encode(docfile.FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
