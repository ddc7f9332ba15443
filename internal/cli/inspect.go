package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/luckylabs-yuno/yuno/internal/embed"
	"github.com/luckylabs-yuno/yuno/internal/widget"
)

// errNoEmbed is returned when a page carries no embed tag.
var errNoEmbed = errors.New("no yuno embed tag found")

func newInspectCommand() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "inspect <page.html|url>",
		Short: "Show the widget configuration a page declares",
		Long: `Find the Yuno embed tag in an HTML page, then print the resolved
configuration and the stylesheet the widget uses in the given state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseState(state)
			if err != nil {
				return err
			}

			page, err := readPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			attrs, ok, err := embed.Discover(bytes.NewReader(page))
			if err != nil {
				return fmt.Errorf("failed to parse page: %w", err)
			}
			if !ok {
				return errNoEmbed
			}

			cfg := widget.Resolve(attrs)
			out := cmd.OutOrStdout()
			resolved := cfg.Attributes()
			for _, name := range widget.AttributeNames() {
				if v, ok := resolved[name]; ok {
					fmt.Fprintf(out, "%s: %s\n", name, v)
				}
			}
			for _, name := range attrs.Keys() {
				if !slices.Contains(widget.AttributeNames(), name) {
					fmt.Fprintf(out, "# ignored: %s\n", name)
				}
			}

			fmt.Fprintf(out, "\n/* %s */\n%s\n", st, widget.StylesFor(cfg, st).CSS())
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "collapsed", "widget state to render styles for (collapsed, teaser, open)")
	return cmd
}

func readPage(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := resty.New().
		SetTimeout(15*time.Second).
		R().
		SetContext(ctx).
		Get(src)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch %s: %s", src, resp.Status())
	}
	return resp.Body(), nil
}

func parseState(s string) (widget.State, error) {
	for _, st := range []widget.State{widget.Collapsed, widget.Teaser, widget.Open} {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", s)
}
