package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KunjGarala/Dayflow/pkg/database"
)

var rollbackSteps int

func init() {
	migrateDownCmd.Flags().IntVarP(&rollbackSteps, "steps", "n", 1, "回滚的版本数")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "数据库迁移",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "执行全部未应用的迁移",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		sqlDB, err := e.db.DB()
		if err != nil {
			return err
		}
		if err := database.RunMigrations(sqlDB, e.logger); err != nil {
			return err
		}
		return printVersion(cmd, sqlDB)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "回滚迁移",
	Long: `回滚最近的 N 个迁移版本。

Examples:
  hrctl migrate down
  hrctl migrate down -n 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		sqlDB, err := e.db.DB()
		if err != nil {
			return err
		}
		if err := database.RollbackMigrations(sqlDB, rollbackSteps, e.logger); err != nil {
			return err
		}
		return printVersion(cmd, sqlDB)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "查看当前迁移版本",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		sqlDB, err := e.db.DB()
		if err != nil {
			return err
		}
		return printVersion(cmd, sqlDB)
	},
}

func printVersion(cmd *cobra.Command, db *sql.DB) error {
	version, dirty, err := database.MigrationVersion(db)
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "迁移版本: %d %s\n", version, warnFmt("(dirty)"))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "迁移版本: %s\n", okFmt(version))
	return nil
}
