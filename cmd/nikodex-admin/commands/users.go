package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"nikodex/models"

	"github.com/spf13/cobra"
)

var (
	// add / edit flags
	password    string
	description string
	newUsername string
	makeAdmin   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := models.UserList()
		if err != nil {
			return err
		}
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(users)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tADMIN\tDESCRIPTION")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", u.ID, u.Username, u.IsAdmin, u.Description)
		}
		return w.Flush()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := models.UserCreate(models.UserChange{
			Username:    args[0],
			Password:    password,
			Description: description,
		})
		if err != nil {
			return err
		}
		if makeAdmin {
			if err = models.UserSetAdmin(user.Username, true); err != nil {
				return err
			}
		}
		fmt.Printf("Created %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <username>",
	Short: "Change the name, description or password of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := models.UserByUsername(args[0])
		if err != nil {
			return err
		}
		err = user.Update(models.UserChange{
			Username:    newUsername,
			Password:    password,
			Description: description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", user.Username)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an account and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := models.UserByUsername(args[0])
		if err != nil {
			return err
		}
		if err = models.UserDelete(models.System, user.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", user.Username)
		return nil
	},
}

var setAdminCmd = &cobra.Command{
	Use:   "set-admin <username> <true|false>",
	Short: "Grant or revoke admin rights",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var isAdmin bool
		switch args[1] {
		case "true", "yes", "1":
			isAdmin = true
		case "false", "no", "0":
		default:
			return fmt.Errorf("expected true or false, got %q", args[1])
		}
		if err := models.UserSetAdmin(args[0], isAdmin); err != nil {
			return err
		}
		fmt.Printf("%s admin: %t\n", args[0], isAdmin)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Set a new password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := models.UserResetPassword(args[0], password); err != nil {
			return err
		}
		fmt.Printf("Password of %s changed\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd, setAdminCmd, resetPasswordCmd)

	addCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Profile description (required)")
	addCmd.Flags().BoolVar(&makeAdmin, "admin", false, "Grant admin rights")
	_ = addCmd.MarkFlagRequired("password")
	_ = addCmd.MarkFlagRequired("description")

	editCmd.Flags().StringVar(&newUsername, "username", "", "New username")
	editCmd.Flags().StringVarP(&password, "password", "p", "", "New password")
	editCmd.Flags().StringVarP(&description, "description", "d", "", "New description")

	resetPasswordCmd.Flags().StringVarP(&password, "password", "p", "", "New password")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}
