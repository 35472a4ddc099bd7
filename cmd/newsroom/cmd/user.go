package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newsdesk/newsroom/internal/bootstrap"
	"github.com/newsdesk/newsroom/internal/config"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/service"
)

var newUser struct {
	username  string
	password  string
	firstName string
	lastName  string
	role      string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with any role, bypassing registration",
	Example: `  newsroom user create --username editor --password 'Ch4nge-me!' \
    --first-name Ed --last-name Itor --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		storage, err := bootstrap.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer storage.Close()

		user, err := createUser(cmd, cfg, storage)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", user.Username, user.Role, user.ID)
		return nil
	},
}

func createUser(cmd *cobra.Command, cfg *config.Config, storage *bootstrap.Storage) (*domain.User, error) {
	users := service.NewUserService(service.UserDependencies{
		UserRepo:   storage.Repos.Users,
		RoleRepo:   storage.Repos.Roles,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	return users.Create(cmd.Context(), nil, service.UserCreateInput{
		FirstName: newUser.firstName,
		LastName:  newUser.lastName,
		Username:  newUser.username,
		Password:  newUser.password,
		Role:      domain.RoleName(newUser.role),
	})
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	flags := userCreateCmd.Flags()
	flags.StringVar(&newUser.username, "username", "", "Login name")
	flags.StringVar(&newUser.password, "password", "", "Initial password")
	flags.StringVar(&newUser.firstName, "first-name", "", "First name")
	flags.StringVar(&newUser.lastName, "last-name", "", "Last name")
	flags.StringVar(&newUser.role, "role", string(domain.RoleUser), "Role: user, author or admin")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
}
