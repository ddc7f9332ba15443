package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luckylabs-yuno/yuno/internal/widget"
)

// DefaultScriptURL is where the embed script is published.
const DefaultScriptURL = "https://luckylabs-yuno.github.io/luckylabs-yuno/yuno.js"

func newSnippetCommand(opts *options) *cobra.Command {
	var scriptURL string

	cmd := &cobra.Command{
		Use:   "snippet",
		Short: "Print the embed tag for a website",
		Example: `  yuno snippet --set site_id=shop_42 --preset ecommerce
  yuno snippet --config widget.yaml --script-url https://cdn.example.com/yuno.js`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := opts.attributes()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), widget.Snippet(scriptURL, widget.Resolve(attrs)))
			return err
		},
	}

	cmd.Flags().StringVar(&scriptURL, "script-url", DefaultScriptURL, "URL of the embed script")
	return cmd
}
