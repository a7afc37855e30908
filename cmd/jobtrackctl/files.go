package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobtracker/internal/domain/file"
)

const defaultSweepGrace = 24 * time.Hour

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Maintain stored attachments",
}

var filesSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stored objects that no file record points to",
	RunE: func(cmd *cobra.Command, args []string) error {
		grace, _ := cmd.Flags().GetDuration("grace")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.services(cmd.Context())
		if err != nil {
			return err
		}
		report, err := svc.Files.Sweep(cmd.Context(), file.SweepOptions{Grace: grace, DryRun: dryRun})
		if err != nil {
			return err
		}

		for _, key := range report.Orphans {
			fmt.Println(key)
		}
		if dryRun {
			fmt.Printf("Scanned %d objects, %d orphans (dry run, nothing deleted)\n", report.Scanned, len(report.Orphans))
			return nil
		}
		fmt.Printf("Scanned %d objects, deleted %d orphans (%d bytes)\n", report.Scanned, report.Deleted, report.BytesRemoved)
		return nil
	},
}
