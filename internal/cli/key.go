package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presswatch/internal/credentials"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

func newKeyCmd() *cobra.Command {
	key := &cobra.Command{
		Use:   "key",
		Short: "Manage stored API credentials",
		Long: "Store, retrieve, and delete API secrets. The storage tier (native\n" +
			"secure store, encrypted file, or plaintext file) is chosen\n" +
			"automatically, most secure first; falling back to plaintext is\n" +
			"reported as a warning.",
	}

	var secretFlag string
	set := &cobra.Command{
		Use:   "set <service> <account>",
		Short: "Store a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := secretFlag
			if secret == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Secret: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read secret: %w", err)
				}
				secret = strings.TrimRight(line, "\r\n")
			}
			if secret == "" {
				return fmt.Errorf("empty secret")
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			store := credentials.NewStoreWithLogger(ws.Paths.ConfigDir, newLogger(cmd))
			tier, err := store.Store(args[0], args[1], secret)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s/%s (%s)\n", args[0], args[1], tier)
			return nil
		},
	}
	set.Flags().StringVar(&secretFlag, "secret", "", "secret value (read from stdin if omitted)")

	get := &cobra.Command{
		Use:   "get <service> <account>",
		Short: "Print a stored secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			store := credentials.NewStoreWithLogger(ws.Paths.ConfigDir, newLogger(cmd))
			secret, tier, err := store.Retrieve(args[0], args[1])
			if err != nil {
				return err
			}
			if flags.jsonMode {
				record := types.CredentialRecord{
					Service: args[0],
					Account: args[1],
					Secret:  secret,
					Tier:    tier,
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <service> <account>",
		Short: "Delete a stored secret from every tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			store := credentials.NewStoreWithLogger(ws.Paths.ConfigDir, newLogger(cmd))
			if err := store.Delete(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", args[0], args[1])
			return nil
		},
	}

	key.AddCommand(set, get, del)
	return key
}
