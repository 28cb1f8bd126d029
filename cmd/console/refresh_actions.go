package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"spawn-admin/internal/seo_urls/services"

	"github.com/spf13/cobra"
)

type RefreshActionsOptions struct {
	RemoveStale bool
	DryRun      bool
	Timeout     time.Duration
}

func NewRefreshActionsCommand(env Environment) *cobra.Command {
	opts := &RefreshActionsOptions{}

	cmd := &cobra.Command{
		Use:   "modules:refresh-actions",
		Short: "Refresh SEO URLs from the registered controller actions",
		Long: `Adds a SEO URL for every controller action that has none yet.

With --remove-stale, SEO URLs whose controller action no longer exists are
deleted. Custom paths of deleted entries are lost. SEO URLs of controllers
that fail inspection are always kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, cfg, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if opts.Timeout <= 0 {
				opts.Timeout = cfg.RefreshTimeout
			}
			return opts.Run(cmd.Context(), service, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.RemoveStale, "remove-stale", false, "Delete SEO URLs of removed controller actions")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Only print what would change")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Abort the refresh after this duration (default SEO_URL_REFRESH_TIMEOUT)")

	return cmd
}

func (o *RefreshActionsOptions) Run(ctx context.Context, service *services.Service, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	if o.DryRun {
		plan, err := service.Plan(ctx, o.RemoveStale)
		if err != nil {
			return err
		}
		printPlan(out, plan, o.RemoveStale)
		return nil
	}

	result, err := service.Refresh(ctx, o.RemoveStale)
	if errors.Is(err, services.ErrLocked) {
		return fmt.Errorf("another refresh is running, try again later")
	}
	if result != nil {
		printResult(out, result)
	}
	if err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("%d SEO URL writes failed", len(result.Errors))
	}
	return nil
}

func printResult(out io.Writer, result *services.ReconcileResult) {
	fmt.Fprintf(out, "Added: %d\n", result.Added)
	if result.RemovedReported {
		fmt.Fprintf(out, "Removed: %d\n", result.Removed)
	}
	if result.Protected > 0 {
		fmt.Fprintf(out, "Kept (controller not inspectable): %d\n", result.Protected)
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(out, "Warning: %v\n", d)
	}
	for _, err := range result.Errors {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func printPlan(out io.Writer, plan *services.Plan, removeStale bool) {
	fmt.Fprintln(out, "Dry run, nothing was written")
	for _, seoUrl := range plan.ToAdd {
		fmt.Fprintf(out, "+ %s %s\n", seoUrl.Key(), seoUrl.Path)
	}
	if removeStale {
		for _, seoUrl := range plan.ToRemove {
			fmt.Fprintf(out, "- %s %s\n", seoUrl.Key(), seoUrl.Path)
		}
	}
	for _, seoUrl := range plan.Protected {
		fmt.Fprintf(out, "= %s %s (controller not inspectable)\n", seoUrl.Key(), seoUrl.Path)
	}
	for _, d := range plan.Diagnostics {
		fmt.Fprintf(out, "Warning: %v\n", d)
	}
	fmt.Fprintf(out, "Would add: %d\n", len(plan.ToAdd))
	if removeStale {
		fmt.Fprintf(out, "Would remove: %d\n", len(plan.ToRemove))
	}
}
