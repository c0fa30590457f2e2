package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/gitmonitor/internal/adapter/driven/github"
	httphandler "github.com/ericfisherdev/gitmonitor/internal/adapter/driving/http"
	"github.com/ericfisherdev/gitmonitor/internal/application"
	"github.com/ericfisherdev/gitmonitor/internal/config"
	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// readInput reads the named file, or stdin when path is "" or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// newSignCmd prints the signature headers GitHub would attach to a payload,
// for replaying deliveries with curl.
func newSignCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "sign [payload-file]",
		Short: "Print webhook signature headers for a payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.WebhookSecret()
			}
			if secret == "" {
				return errors.New("no webhook secret: pass --secret or set " + config.EnvPrefix + "GITHUB_WEBHOOK_SECRET")
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			body, err := readInput(cmd, path)
			if err != nil {
				return fmt.Errorf("reading payload: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", httphandler.HeaderSignature, application.Signature(body, secret))
			fmt.Fprintf(out, "%s: %s\n", httphandler.HeaderSignature256, application.Signature256(body, secret))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "webhook secret (defaults to the configured one)")
	return cmd
}

// newCheckConfigCmd validates a repository settings file and lists the
// policies it turns on.
func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config [settings-file]",
		Short: "Validate a repository settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := githubadapter.DefaultSettingsPath
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return fmt.Errorf("reading settings: %w", err)
			}

			settings, err := githubadapter.ParseSettings(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			printPolicies(cmd.OutOrStdout(), settings)
			return nil
		},
	}
}

func printPolicies(w io.Writer, s *model.RepositorySettings) {
	if !s.Enabled {
		fmt.Fprintln(w, "monitoring disabled")
		return
	}
	policies := []struct {
		name    string
		enabled bool
	}{
		{"branchProtection", s.BranchProtectionEnabled()},
		{"commentProtection", s.CommentProtectionEnabled()},
		{"multiplePRProtection", s.MultiplePRProtectionEnabled()},
		{"reviewerToAssignee", s.ReviewerToAssigneeEnabled()},
		{"pullRequestCommentCommand", s.PullRequestCommentCommandEnabled()},
	}
	for _, p := range policies {
		state := "off"
		if p.enabled {
			state = "on"
		}
		fmt.Fprintf(w, "%-26s %s\n", p.name, state)
	}
}
