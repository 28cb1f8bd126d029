package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/internal/seo_urls/services"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type ListSeoUrlsOptions struct {
	ShowLocked bool
	Page       int
	Num        int
}

func NewListSeoUrlsCommand(env Environment) *cobra.Command {
	opts := &ListSeoUrlsOptions{}

	cmd := &cobra.Command{
		Use:   "seo-urls:list",
		Short: "List stored SEO URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, _, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return opts.Run(cmd.Context(), service, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.ShowLocked, "show-locked", false, "Include locked system routes")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Num, "num", models.DefaultEntriesPerPage, "Entries per page")

	return cmd
}

func (o *ListSeoUrlsOptions) Run(ctx context.Context, service *services.Service, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	seoUrls, info, err := service.Manager().ListPage(ctx, o.ShowLocked, o.Page, o.Num)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "PATH\tCONTROLLER\tACTION\tLOCKED\tACTIVE\tCREATED")
	for _, seoUrl := range seoUrls {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			seoUrl.Path,
			seoUrl.Controller,
			seoUrl.Action,
			strconv.FormatBool(seoUrl.Locked),
			strconv.FormatBool(seoUrl.Active),
			humanize.Time(seoUrl.CreatedAt),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPage %d of %d (%d SEO URLs)\n", info.Page, info.AvailablePages, info.Total)
	return nil
}
