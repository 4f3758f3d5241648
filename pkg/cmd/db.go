package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/hydrogen/pkg/app"
	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/storage/db"
)

var (
	seedAdmin app.AdminSeed

	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands",
	}

	dbListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered database types",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			current := configs.GetConfig().DB.Normalize()

			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")

			for _, t := range db.GetRegisteredDBTypes() {
				mark := " "
				if t == current {
					mark = "*"
				}

				fmt.Fprintf(cmd.OutOrStdout(), " %s %s\n", mark, t)
			}
		},
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "create or update all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Migrate(cmd.Context(), configs.GetConfig()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")

			return nil
		},
	}

	dbSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "insert all permissions, the admin role and an optional admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.SeedDatabase(cmd.Context(), configs.GetConfig(), seedAdmin)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "permissions created: %d, role created: %t, admin created: %t\n",
				res.Permissions, res.Role, res.Admin)

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	dbSeedCmd.Flags().StringVar(&seedAdmin.Email, "admin-email", "", "admin user email")
	dbSeedCmd.Flags().StringVar(&seedAdmin.Password, "admin-password", "", "admin user password")
	dbSeedCmd.Flags().StringVar(&seedAdmin.FullName, "admin-name", "", "admin user full name")
	dbSeedCmd.MarkFlagsRequiredTogether("admin-email", "admin-password")

	dbCmd.AddCommand(dbListCmd, dbMigrateCmd, dbSeedCmd)
	rootCmd.AddCommand(dbCmd)
}
