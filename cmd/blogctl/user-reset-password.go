package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blogplatform/blog-in-go/pkg/db"
	"github.com/blogplatform/blog-in-go/pkg/security"
	gormstore "github.com/blogplatform/blog-in-go/pkg/server/store/gorm"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password USERNAME",
	Short: "Set a new password for a user account",
	Long: `Set a new password for a user account, bypassing the emailed reset flow.

The new password is read from the BLOG_USER_PASSWORD environment variable, or
prompted for when the variable is not set.

Example:
  blogctl user reset-password alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		if err := resetUserPassword(username); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
}

func resetUserPassword(username string) error {
	password := os.Getenv("BLOG_USER_PASSWORD")
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return fmt.Errorf("unable to connect to DB: %w", err)
	}

	users := gormstore.NewUsersStore(database)
	user, err := users.UserByUsername(username)
	if err != nil {
		return err
	}

	if _, err := users.UpdateUser(user.ID, map[string]interface{}{"hashed_password": hash}); err != nil {
		return err
	}

	fmt.Printf("Password updated for user %s\n", username)
	return nil
}
