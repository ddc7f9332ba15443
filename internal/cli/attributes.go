package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/luckylabs-yuno/yuno/internal/widget"
)

// attributes merges every attribute source into one declaration.
func (o *options) attributes() (widget.Attributes, error) {
	if err := o.readConfig(); err != nil {
		return nil, err
	}

	attrs := widget.Attributes{}
	for _, name := range widget.AttributeNames() {
		if v := strings.TrimSpace(o.v.GetString(name)); v != "" {
			attrs[name] = v
		}
	}

	if o.preset != "" {
		preset, ok := widget.PresetByName(o.preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", o.preset)
		}
		attrs = preset.Apply(attrs)
	}

	set, err := parseAssignments(o.set)
	if err != nil {
		return nil, err
	}
	return attrs.Merge(set), nil
}

func (o *options) readConfig() error {
	v := o.v
	v.SetEnvPrefix("YUNO")
	for _, name := range widget.AttributeNames() {
		if err := v.BindEnv(name); err != nil {
			return err
		}
	}

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", o.configFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(filepath.Join(home, ".yuno"))
	v.SetConfigName("widget")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read widget config: %w", err)
	}
	return nil
}

func parseAssignments(pairs []string) (widget.Attributes, error) {
	attrs := widget.Attributes{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", pair)
		}
		attrs[key] = value
	}
	return attrs, nil
}
