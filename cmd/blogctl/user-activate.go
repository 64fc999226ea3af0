package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blogplatform/blog-in-go/pkg/db"
	gormstore "github.com/blogplatform/blog-in-go/pkg/server/store/gorm"
)

// userActivateCmd represents the user activate command
var userActivateCmd = &cobra.Command{
	Use:   "activate USERNAME",
	Short: "Activate a user account without the emailed link",
	Long: `Activate a user account without the emailed link.

Useful when email delivery is not configured.

Example:
  blogctl user activate alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		if err := activateUser(username); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to activate user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userActivateCmd)
}

func activateUser(username string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return fmt.Errorf("unable to connect to DB: %w", err)
	}

	users := gormstore.NewUsersStore(database)
	user, err := users.UserByUsername(username)
	if err != nil {
		return err
	}

	if user.IsActive {
		fmt.Printf("User %s is already active\n", username)
		return nil
	}

	if _, err := users.UpdateUser(user.ID, map[string]interface{}{"is_active": true}); err != nil {
		return err
	}

	fmt.Printf("Activated user %s\n", username)
	return nil
}
