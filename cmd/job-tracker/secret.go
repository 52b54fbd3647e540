package main

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey/job-tracker/internal/adapters/imapsource"
	"github.com/mikey/job-tracker/internal/factory"
	"github.com/mikey/job-tracker/internal/secrets"
)

var secretOpts struct {
	provider string
	username string
}

// secretCmd manages the IMAP password in the OS keychain
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the IMAP app password in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the IMAP app password read from stdin",
	Long: `Store the IMAP app password for a mailbox in the OS keychain. The
password is read from the first line of stdin.

Examples:
  echo "$APP_PASSWORD" | job-tracker secret set --provider gmail --username me@gmail.com`,
	Args: cobra.NoArgs,
	RunE: runSecretSet,
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the IMAP app password from the OS keychain",
	Args:  cobra.NoArgs,
	RunE:  runSecretDelete,
}

func init() {
	for _, c := range []*cobra.Command{secretSetCmd, secretDeleteCmd} {
		c.Flags().StringVarP(&secretOpts.provider, "provider", "p", "", "mail provider (default mail.provider)")
		c.Flags().StringVarP(&secretOpts.username, "username", "u", "", "mailbox login (default mail.username)")
		secretCmd.AddCommand(c)
	}
}

// keyringAccount resolves the keychain account for the selected mailbox
func keyringAccount() (string, error) {
	var account string
	err := invoke(func(sf *factory.SourceFactory) error {
		mailCfg, err := sf.MailConfig(secretOpts.provider)
		if err != nil {
			return err
		}
		if secretOpts.username != "" {
			mailCfg.Username = secretOpts.username
		}
		if mailCfg.Username == "" {
			return fmt.Errorf("no username given (use --username or mail.username)")
		}
		addr, err := imapsource.ResolveServer(mailCfg.Provider, mailCfg.IMAPHost, mailCfg.IMAPPort)
		if err != nil {
			return err
		}
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return err
		}
		account = secrets.IMAPKeyringAccount(mailCfg.Username, host)
		return nil
	})
	return account, err
}

func runSecretSet(cmd *cobra.Command, _ []string) error {
	account, err := keyringAccount()
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if err := secrets.SetIMAPPassword(account, strings.TrimRight(line, "\r\n")); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored password for %s\n", account)
	return nil
}

func runSecretDelete(cmd *cobra.Command, _ []string) error {
	account, err := keyringAccount()
	if err != nil {
		return err
	}
	if err := secrets.DeleteIMAPPassword(account); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted password for %s\n", account)
	return nil
}
