package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blogplatform/blog-in-go/pkg/db"
	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/security"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
	gormstore "github.com/blogplatform/blog-in-go/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create a user account directly in the database",
	Long: `Create a user account directly in the database.

The account is created already activated, so no activation email is sent.
This is intended for bootstrapping the first admin account.

The password is read from the BLOG_USER_PASSWORD environment variable, or
prompted for when the variable is not set.

Example:
  blogctl user create admin --email admin@example.com --admin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		email, _ := cmd.Flags().GetString("email")
		admin, _ := cmd.Flags().GetBool("admin")

		if err := createUser(username, email, admin); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "email address for the account (required)")
	userCreateCmd.Flags().Bool("admin", false, "grant the admin role")
	_ = userCreateCmd.MarkFlagRequired("email")
}

func createUser(username, email string, admin bool) error {
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

	role := model.RoleRegularUser
	if admin {
		role = model.RoleAdmin
	}

	users := gormstore.NewUsersStore(database)
	user, err := users.CreateUser(&model.User{
		Username:       username,
		Email:          email,
		Role:           role,
		HashedPassword: hash,
		IsActive:       true,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) || errors.Is(err, store.ErrDuplicateEmail) {
			return fmt.Errorf("user already exists: %w", err)
		}
		return err
	}

	fmt.Printf("Created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
