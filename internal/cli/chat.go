package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/luckylabs-yuno/yuno/internal/embed"
	"github.com/luckylabs-yuno/yuno/internal/identity"
	"github.com/luckylabs-yuno/yuno/internal/inference"
	"github.com/luckylabs-yuno/yuno/internal/terminal"
	"github.com/luckylabs-yuno/yuno/internal/widget"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// terminalPage is the page id of the single widget a terminal hosts.
const terminalPage = "terminal"

type chatFlags struct {
	storage  string
	logFile  string
	logLevel string
	timeout  time.Duration
}

func newChatCommand(opts *options) *cobra.Command {
	var f chatFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run the widget in the terminal",
		Long: `Run the chat widget in the terminal. The trigger sits in the configured
corner, the teaser appears after the auto-show delay and the panel opens
with enter.

--storage selects where the visitor and session ids live: "file" (default,
$HOME/.yuno/identity.json), "file:<path>", "memory", or a redis:// URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := opts.attributes()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), attrs, f)
		},
	}

	cmd.Flags().StringVar(&f.storage, "storage", "file", "identity storage: file, file:<path>, memory or redis://…")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "write logs to this file (default: discard)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level")
	cmd.Flags().DurationVar(&f.timeout, "timeout", widget.DefaultRequestTimeout, "inference request timeout")
	return cmd
}

func runChat(ctx context.Context, attrs widget.Attributes, f chatFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.Nop()
	if f.logFile != "" {
		l, err := logger.NewFile(f.logLevel, f.logFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer l.Sync()
		log = l
	}

	cfg := widget.Resolve(attrs)
	storage, closeStorage, err := openStorage(ctx, f.storage, cfg.SiteID)
	if err != nil {
		return err
	}
	defer closeStorage()

	view := terminal.NewView()
	registry := embed.NewRegistry(log)
	defer registry.Close()

	w, _ := registry.Boot(terminalPage, attrs,
		widget.WithClient(inference.New(cfg.APIEndpoint, inference.WithTimeout(f.timeout))),
		widget.WithIdentity(identity.NewStore(storage, identity.WithLogger(log))),
		widget.WithView(view),
		widget.WithTimeout(f.timeout),
		widget.WithPageURLFunc(pageURL),
		widget.WithLogger(log),
	)

	_, err = tea.NewProgram(terminal.New(w, view), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// openStorage opens the identity storage named by source. The scope of shared
// storages is the site id.
func openStorage(ctx context.Context, source, siteID string) (identity.Storage, func(), error) {
	nop := func() {}

	switch {
	case source == "memory":
		return identity.NewMemoryStorage(), nop, nil

	case source == "file" || strings.HasPrefix(source, "file:"):
		path := strings.TrimPrefix(strings.TrimPrefix(source, "file"), ":")
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to locate home directory: %w", err)
			}
			path = filepath.Join(home, ".yuno", "identity.json")
		}
		s, err := identity.NewFileStorage(path)
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil

	case strings.HasPrefix(source, "redis://") || strings.HasPrefix(source, "rediss://"):
		s, err := identity.NewRedisStorage(ctx, source, siteID)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", source)
	}
}

func pageURL() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return "terminal://" + host
}
