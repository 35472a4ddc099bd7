package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newsdesk/newsroom/internal/config"
	"github.com/newsdesk/newsroom/internal/envelope"
)

var ignoreAge bool

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Seal or open request payloads with ENVELOPE_KEY",
}

var envelopeSealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Read JSON from stdin and print the sealed payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvelope(false)
		if err != nil {
			return err
		}
		input, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		var value json.RawMessage
		if err := json.Unmarshal(input, &value); err != nil {
			return fmt.Errorf("stdin is not JSON: %w", err)
		}
		sealed, err := env.Seal(value)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sealed)
		return nil
	},
}

var envelopeOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Read a sealed payload from stdin and print its JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvelope(ignoreAge)
		if err != nil {
			return err
		}
		input, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		data, ok := env.Open(strings.TrimSpace(string(input)))
		if !ok {
			return errors.New("payload could not be opened")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func loadEnvelope(ignoreMaxAge bool) (*envelope.Envelope, error) {
	cfg, err := config.LoadEnvelope()
	if err != nil {
		return nil, err
	}
	maxAge := cfg.MaxAge()
	if ignoreMaxAge {
		maxAge = 0
	}
	return envelope.New(cfg.Key, envelope.WithMaxAge(maxAge))
}

func init() {
	rootCmd.AddCommand(envelopeCmd)
	envelopeCmd.AddCommand(envelopeSealCmd, envelopeOpenCmd)
	envelopeOpenCmd.Flags().BoolVar(&ignoreAge, "ignore-age", false, "Open payloads older than ENVELOPE_MAX_AGE_SECONDS")
}
