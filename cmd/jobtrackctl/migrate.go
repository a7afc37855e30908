package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/database"
	"jobtracker/internal/database/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		sqlDB, err := e.db.DB()
		if err != nil {
			return err
		}
		dialect := database.Dialect(e.db)
		if err := migrations.Up(sqlDB, dialect); err != nil {
			return err
		}

		st, err := migrations.CurrentStatus(sqlDB, dialect)
		if err != nil {
			return err
		}
		fmt.Printf("Schema at version %d (%s)\n", st.Version, dialect)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		sqlDB, err := e.db.DB()
		if err != nil {
			return err
		}
		st, err := migrations.CurrentStatus(sqlDB, database.Dialect(e.db))
		if err != nil {
			return err
		}

		switch {
		case st.Fresh:
			fmt.Printf("No schema yet, %d migrations pending\n", st.Latest)
		case st.Dirty:
			fmt.Printf("Version %d is dirty, a previous migration failed\n", st.Version)
		default:
			fmt.Printf("Version: %d\nLatest:  %d\nPending: %d\n", st.Version, st.Latest, st.Pending())
		}
		return nil
	},
}
