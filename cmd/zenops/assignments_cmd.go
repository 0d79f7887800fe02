package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/repository"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/pkg/format"
)

type listOptions struct {
	BankID     int
	BranchID   int
	From       string
	To         string
	Completion string
	Payment    string
	SortBy     string
	Desc       bool
	PageSize   int
	Page       int
	Compact    bool
}

func (o *listOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&o.BankID, "bank", 0, "only assignments of this bank id")
	f.IntVar(&o.BranchID, "branch", 0, "only assignments of this branch id")
	f.StringVar(&o.From, "from", "", "created on or after YYYY-MM-DD")
	f.StringVar(&o.To, "to", "", "created on or before YYYY-MM-DD")
	f.StringVar(&o.Completion, "completion", "ALL", "ALL, PENDING or COMPLETED")
	f.StringVar(&o.Payment, "payment", "ALL", "ALL, PAID or UNPAID")
	f.StringVar(&o.SortBy, "sort", "", "sort column: "+strings.Join(assignmentlist.SortKeys(), ", "))
	f.BoolVar(&o.Desc, "desc", false, "sort descending")
	f.IntVar(&o.PageSize, "page-size", 0, "rows per page (defaults to LIST_PAGE_SIZE)")
	f.IntVar(&o.Page, "page", 1, "page number")
	f.BoolVar(&o.Compact, "compact", false, "compact columns")
}

func (o *listOptions) label() string {
	switch {
	case o.BranchID > 0:
		return service.ListScope{Kind: service.ListScopeBranch, ID: o.BranchID}.Label()
	case o.BankID > 0:
		return service.ListScope{Kind: service.ListScopeBank, ID: o.BankID}.Label()
	default:
		return service.ListScope{Kind: service.ListScopeAll}.Label()
	}
}

// open mounts a list module with the requested filters and waits for the requested page.
func (o *listOptions) open(ctx context.Context, a *app) (assignmentlist.View, error) {
	if o.Page < 1 {
		return assignmentlist.View{}, errors.New("--page must be at least 1")
	}
	cfg := assignmentlist.Config{
		ScopeLabel: o.label(),
		Requester:  a.api.WithSessions(a.store),
		PageSize:   a.cfg.Lists.PageSize,
		Compact:    o.Compact,
		Logger:     a.logger,
	}
	if o.BankID > 0 {
		cfg.BankID = &o.BankID
	}
	if o.BranchID > 0 {
		cfg.BranchID = &o.BranchID
	}
	m := assignmentlist.New(cfg)
	defer m.Close()

	if err := o.apply(m); err != nil {
		return assignmentlist.View{}, err
	}
	if err := m.Load(); err != nil {
		return assignmentlist.View{}, err
	}
	if err := m.Wait(ctx); err != nil {
		return assignmentlist.View{}, err
	}
	for page := 1; page < o.Page; page++ {
		if !m.View().HasMore {
			break
		}
		if err := m.NextPage(); err != nil {
			return assignmentlist.View{}, err
		}
		if err := m.Wait(ctx); err != nil {
			return assignmentlist.View{}, err
		}
	}

	view := m.View()
	if view.ListState == assignmentlist.StateFailed {
		if view.Err != nil {
			return view, view.Err
		}
		return view, errors.New(view.Error)
	}
	return view, nil
}

func (o *listOptions) apply(m *assignmentlist.Module) error {
	if o.PageSize != 0 {
		if err := m.SetPageSize(o.PageSize); err != nil {
			return err
		}
	}
	if err := m.SetCreatedFrom(o.From); err != nil {
		return err
	}
	if err := m.SetCreatedTo(o.To); err != nil {
		return err
	}
	completion, err := assignmentlist.ParseCompletion(o.Completion)
	if err != nil {
		return err
	}
	if err := m.SetCompletion(completion); err != nil {
		return err
	}
	payment, err := assignmentlist.ParsePayment(o.Payment)
	if err != nil {
		return err
	}
	if err := m.SetPayment(payment); err != nil {
		return err
	}
	if o.SortBy == "" {
		return nil
	}
	want := assignmentlist.SortAsc
	if o.Desc {
		want = assignmentlist.SortDesc
	}
	// ToggleSort activates a key ascending and flips it on repeat.
	for i := 0; i < 2; i++ {
		q := m.View().Query
		if q.SortBy == o.SortBy && q.SortDir == want {
			return nil
		}
		if err := m.ToggleSort(o.SortBy); err != nil {
			return err
		}
	}
	return nil
}

func newAssignmentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"a"},
		Short:   "Browse, inspect and export valuation assignments",
	}
	cmd.AddCommand(newAssignmentsListCmd(opts))
	cmd.AddCommand(newAssignmentsSummaryCmd(opts))
	cmd.AddCommand(newAssignmentsShowCmd(opts))
	cmd.AddCommand(newAssignmentsExportCmd(opts))
	return cmd
}

func newAssignmentsListCmd(opts *rootOptions) *cobra.Command {
	var lo listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of assignments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			view, err := lo.open(a.context(cmd.Context()), a)
			if err != nil {
				return err
			}
			return render(opts.stdout, a.out, view, func(tw *tabwriter.Writer) {
				writeDataset(tw, service.AssignmentDataset(view))
				more := ""
				if view.HasMore {
					more = ", more available"
				}
				fmt.Fprintf(tw, "\n%s: page %d%s\n", view.ScopeLabel, view.Page, more)
			})
		},
	}
	lo.bind(cmd)
	return cmd
}

func newAssignmentsSummaryCmd(opts *rootOptions) *cobra.Command {
	var lo listOptions
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show assignment counts for a scope and date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			view, err := lo.open(a.context(cmd.Context()), a)
			if err != nil {
				return err
			}
			if view.Summary == nil {
				return errors.New("summary unavailable")
			}
			s := view.Summary
			return render(opts.stdout, a.out, s, func(tw *tabwriter.Writer) {
				writeRow(tw, "SCOPE", view.ScopeLabel)
				writeRow(tw, "TOTAL", strconv.Itoa(s.Total))
				writeRow(tw, "PENDING", strconv.Itoa(s.Pending))
				writeRow(tw, "COMPLETED", strconv.Itoa(s.Completed))
				writeRow(tw, "COMPLETED UNPAID", strconv.Itoa(s.CompletedUnpaid))
				writeRow(tw, "COMPLETED PAID", strconv.Itoa(s.CompletedPaid))
			})
		},
	}
	lo.bind(cmd)
	return cmd
}

func newAssignmentsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one assignment with its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid assignment id %q", args[0])
			}
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			svc := service.NewAssignmentService(repository.NewAssignmentRepository(a.api), nil, a.logger)
			detail, err := svc.Detail(a.context(cmd.Context()), id)
			if err != nil {
				return err
			}
			as := detail.Assignment
			return render(opts.stdout, a.out, detail, func(tw *tabwriter.Writer) {
				writeRow(tw, "CODE", format.Or(&as.AssignmentCode, "#"+strconv.Itoa(as.ID)))
				writeRow(tw, "CASE", format.Status(string(as.CaseType)))
				writeRow(tw, "PARTY", as.Counterparty())
				writeRow(tw, "BORROWER", as.DisplayName())
				writeRow(tw, "STATUS", format.Status(string(as.Status)))
				writeRow(tw, "FEES", format.INR(as.Fees))
				writeRow(tw, "PAID", format.Paid(as.IsPaid))
				writeRow(tw, "CREATED", as.CreatedAt.Date())
				writeRow(tw, "NOTES", format.Or(as.Notes, "-"))
				writeRow(tw, "FILES", strconv.Itoa(len(detail.Files)))
				for _, f := range detail.Files {
					writeRow(tw, "", f.Filename)
				}
			})
		},
	}
}

func newAssignmentsExportCmd(opts *rootOptions) *cobra.Command {
	var lo listOptions
	var fileFormat, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one page of assignments as csv, pdf or xlsx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			view, err := lo.open(a.context(cmd.Context()), a)
			if err != nil {
				return err
			}
			file, err := service.NewExportService(nil, nil, a.logger).Export(view, fileFormat)
			if err != nil {
				return err
			}
			target := outPath
			if target == "" {
				target = file.Filename
			} else if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
				target = filepath.Join(target, file.Filename)
			}
			if err := os.WriteFile(target, file.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(opts.stdout, "Wrote %d rows to %s\n", len(view.Rows), target)
			return nil
		},
	}
	lo.bind(cmd)
	cmd.Flags().StringVar(&fileFormat, "format", "csv", "csv, pdf or xlsx")
	cmd.Flags().StringVar(&outPath, "out", "", "output file or directory (defaults to a generated name)")
	return cmd
}
