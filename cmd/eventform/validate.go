package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-eventform/pkg/apidoc"
	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/validation"
)

var errInvalidRegistration = errors.New("registration is invalid")

type validateResult struct {
	Valid  bool                `json:"valid"`
	Errors validation.ErrorMap `json:"errors,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		file   string
		values map[string]string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a registration without rendering it",
		Long: `Reads a registration from a JSON file (or stdin with --file -) or from --set pairs,
submits it, and prints the resulting error map. Exits non-zero when the registration is invalid.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, _, err := a.orchestrator(nil)
			if err != nil {
				return err
			}
			f, err := orch.NewForm()
			if err != nil {
				return err
			}

			var changes []form.Change
			if file != "" {
				data, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				api, err := apidoc.New(cmd.Context(), f.Model())
				if err != nil {
					return err
				}
				changes, err = api.DecodeRequest(data)
				if err != nil {
					return err
				}
			}
			extra, err := changesFor(f.Model(), values)
			if err != nil {
				return err
			}
			changes = append(changes, extra...)

			errs := f.Submit(changes...)
			result := validateResult{Valid: errs.Empty(), Errors: errs}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.Valid {
				return errInvalidRegistration
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON registration file, - for stdin")
	cmd.Flags().StringToStringVar(&values, "set", nil, "field value as name=value (repeatable)")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registration: %w", err)
	}
	return data, nil
}
