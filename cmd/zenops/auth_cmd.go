package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
)

const passwordEnv = "ZENOPS_PASSWORD"

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login --email <email>",
		Short: "Log in and keep the session in the session directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				line, err := bufio.NewReader(opts.stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin (or set %s): %w", passwordEnv, err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			svc := service.NewAuthService(a.authRepo(), nil, a.logger)
			sess, err := svc.Login(a.context(cmd.Context()), models.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.stdout, "Logged in as %s (%s)\n", sess.Email, models.NormalizeRole(sess.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prefer "+passwordEnv+" or stdin)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := service.NewAuthService(a.authRepo(), nil, a.logger).Logout(a.context(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(opts.stdout, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session and when its token expires",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			info, err := service.NewAuthService(a.authRepo(), nil, a.logger).Current(a.context(cmd.Context()))
			if err != nil {
				return err
			}
			out := *info
			if info.Session != nil {
				cp := *info.Session
				cp.Token = ""
				out.Session = &cp
			}
			return render(opts.stdout, a.out, out, func(tw *tabwriter.Writer) {
				writeRow(tw, "EMAIL", out.Session.Email)
				writeRow(tw, "NAME", out.Session.Name)
				writeRow(tw, "ROLE", string(models.NormalizeRole(out.Session.Role)))
				writeRow(tw, "ADMIN", fmt.Sprint(out.IsAdmin))
				expires := "unknown"
				if out.ExpiresAt != nil {
					expires = out.ExpiresAt.Local().Format(time.RFC1123)
					if out.Expired {
						expires += " (expired)"
					}
				}
				writeRow(tw, "EXPIRES", expires)
			})
		},
	}
}
