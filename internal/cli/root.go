// Package cli implements the yuno command line: a terminal host for the
// widget and tools for site owners embedding it.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options are the persistent flags shared by every command.
type options struct {
	configFile string
	preset     string
	set        []string
	v          *viper.Viper
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "yuno",
		Short: "Yuno chat widget tools",
		Long: `Run the Yuno chat widget in the terminal and generate embed tags for
websites.

Widget attributes are read, lowest precedence first, from defaults, a YAML
file (--config, or $HOME/.yuno/widget.yaml), YUNO_<ATTRIBUTE> environment
variables, a preset (--preset) and --set key=value flags.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "widget attribute file (default is $HOME/.yuno/widget.yaml)")
	root.PersistentFlags().StringVar(&opts.preset, "preset", "", "apply a named preset (see 'yuno presets')")
	root.PersistentFlags().StringArrayVar(&opts.set, "set", nil, "set a widget attribute, key=value (repeatable)")

	root.AddCommand(
		newChatCommand(opts),
		newSnippetCommand(opts),
		newInspectCommand(),
		newPresetsCommand(),
		newTokenCommand(opts),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}
