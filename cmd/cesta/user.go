package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cesta/internal/database"
	"github.com/dukerupert/cesta/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userName     string
	userPassword string
)

var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(userPassword) < 8 {
			return errors.New("password must be at least 8 characters")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		name := userName
		if name == "" {
			name = args[0]
		}
		u, err := store.NewUserStore(db).Create(args[0], name, "", userPassword)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "Display name (defaults to the email)")
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "Password (required)")
	userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
}
