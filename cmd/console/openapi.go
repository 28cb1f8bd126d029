package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"spawn-admin/internal/seo_urls"
	"spawn-admin/pkg/app"
	"spawn-admin/pkg/config"
	"spawn-admin/pkg/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

type OpenAPIOptions struct {
	Format string
	Output string
}

func NewOpenAPICommand() *cobra.Command {
	opts := &OpenAPIOptions{}

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export the OpenAPI document of the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.Output != "" {
				file, err := os.Create(opts.Output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return opts.Run(out)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func (o *OpenAPIOptions) Run(out io.Writer) error {
	// no storage is touched while building the document
	mod, err := seo_urls.New(nil, nil, controllers.Default, config.SeoURLConfig{})
	if err != nil {
		return err
	}

	api, _ := app.MountAPI(chi.NewRouter(), config.GetAPIPrefix())
	mod.RegisterUnifiedRoutes(api)

	var data []byte
	switch o.Format {
	case "json":
		data, err = json.MarshalIndent(api.OpenAPI(), "", "  ")
	case "yaml":
		data, err = api.OpenAPI().YAML()
	default:
		return fmt.Errorf("unsupported format %q", o.Format)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}
