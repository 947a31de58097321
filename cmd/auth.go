package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyinlola/heft/pkg/auth"
	"github.com/toyinlola/heft/pkg/cli"
)

var loginToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the GitHub token used for repository access",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token in the OS keychain",
	Long: `Login stores a GitHub personal access token for later runs.

The token is read from --token or, if omitted, from the first line of stdin.
It goes to the OS keychain, or to ~/.heft/github_token when no keychain is available.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored GitHub token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.NewStore(cli.HomeDir()).Delete(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the GitHub token would be read from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token, source := auth.NewStore(cli.HomeDir()).Resolve("")
		if token == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No token found, using anonymous access (60 requests/hour)")
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token %s from %s\n", maskToken(token), source)
	},
}

func init() {
	authLoginCmd.Flags().StringVar(&loginToken, "token", "", "token to store")
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	token := loginToken
	if token == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Paste a GitHub token: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("auth: reading token: %w", err)
		}
		token = strings.TrimSpace(line)
	}

	source, err := auth.NewStore(cli.HomeDir()).Save(token)
	if err != nil {
		return err
	}

	switch source {
	case auth.SourceKeyring:
		fmt.Fprintln(cmd.OutOrStdout(), "Token saved to OS keychain")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Token saved to", cli.HomeDir())
	}
	return nil
}

// maskToken keeps the last four characters.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
