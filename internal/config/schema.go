package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OptionType is the expected type of an option value.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeDuration OptionType = "duration"
	TypeURL      OptionType = "url"
)

// ConfigOption declares one option.
type ConfigOption struct {
	Key         string
	Type        OptionType
	Default     string
	Description string
	// Section is "" for global options.
	Section string
	// EnvVar, when set in the environment, overrides the file value.
	EnvVar string
	// Choices restricts a string option to a fixed set of values.
	Choices []string
}

// ConfigSchema is the set of known options. It drives validation, the
// `config schema` listing, env var overrides and the init template.
type ConfigSchema struct {
	options   []*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema returns an empty schema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{bySection: make(map[string]map[string]*ConfigOption)}
}

// Register adds opt, replacing any option with the same section and key.
func (s *ConfigSchema) Register(opts ...ConfigOption) {
	for _, opt := range opts {
		ref := opt
		s.options = append(s.options, &ref)
		if s.bySection[opt.Section] == nil {
			s.bySection[opt.Section] = make(map[string]*ConfigOption)
		}
		s.bySection[opt.Section][opt.Key] = &ref
	}
}

// Lookup returns the option for key in section ("" for global), or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	return s.bySection[section][key]
}

// IsKnown reports whether key may appear in section. Global keys may appear
// in any command section as an override.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	return s.Lookup(section, key) != nil || s.Lookup("", key) != nil
}

// SectionOptions returns the options of section in registration order.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted names of non-global sections.
func (s *ConfigSchema) Sections() []string {
	var out []string
	for sec := range s.bySection {
		if sec != "" {
			out = append(out, sec)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value of a global key: the option's env var
// if set, then the file value, then the default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	opt := s.Lookup("", key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if c != nil {
		if v, ok := c.GetGlobalOption(key); ok {
			return v
		}
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig returns a sorted list of issues: unknown options and
// values that do not fit the declared type.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := opt.validate(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := opt.validate(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	sort.Strings(issues)
	return issues
}

func (o *ConfigOption) validate(value string) error {
	switch o.Type {
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	case TypeURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("expected http(s) URL, got %q", value)
		}
	}
	if len(o.Choices) > 0 && !slices.Contains(o.Choices, value) {
		return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Choices, ", "), value)
	}
	return nil
}

// FormatHelp lists every option grouped by section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder
	b.WriteString("Global Options:\n")
	for _, o := range s.SectionOptions("") {
		writeOptionHelp(&b, o)
	}
	for _, sec := range s.Sections() {
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range s.SectionOptions(sec) {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-24s %s", o.Key, o.Description)
	var parts []string
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if len(o.Choices) > 0 {
		parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// Option keys.
const (
	KeyAPIEndpoint    = "api.endpoint"
	KeyAPITimeout     = "api.timeout"
	KeySessionID      = "session.id"
	KeyStorageBackend = "storage.backend"
	KeyCurrencyLocale = "currency.locale"
	KeyLogFile        = "log.file"
	KeyLogLevel       = "log.level"
	KeyLogMaxSizeMB   = "log.max-size-mb"
	KeyLogMaxFiles    = "log.max-files"
	KeyVerbose        = "verbose"
)

// DefaultSchema returns every option the storefront understands.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.Register(
		ConfigOption{Key: KeyAPIEndpoint, Type: TypeURL, Default: "https://rugurujane.xyz/backend/", Description: "GraphQL endpoint", EnvVar: "STOREFRONT_API_URL"},
		ConfigOption{Key: KeyAPITimeout, Type: TypeDuration, Default: "30s", Description: "Timeout for a single API request", EnvVar: "STOREFRONT_API_TIMEOUT"},
		ConfigOption{Key: KeySessionID, Description: "Override session ID", EnvVar: "STOREFRONT_SESSION_ID"},
		ConfigOption{Key: KeyStorageBackend, Default: "fs", Description: "Where carts are kept", EnvVar: "STOREFRONT_STORAGE_BACKEND", Choices: []string{"fs", "memory"}},
		ConfigOption{Key: KeyCurrencyLocale, Default: "en", Description: "Locale for price formatting (BCP 47)", EnvVar: "STOREFRONT_LOCALE"},
		ConfigOption{Key: KeyVerbose, Type: TypeBool, Default: "false", Description: "Log to stderr"},
		ConfigOption{Key: KeyLogFile, Description: "Log file path (JSON lines)", EnvVar: "STOREFRONT_LOG_FILE"},
		ConfigOption{Key: KeyLogLevel, Default: "info", Description: "Log level", EnvVar: "STOREFRONT_LOG_LEVEL", Choices: []string{"debug", "info", "warn", "error"}},
		ConfigOption{Key: KeyLogMaxSizeMB, Type: TypeInt, Default: "10", Description: "Log size in MB before rotation"},
		ConfigOption{Key: KeyLogMaxFiles, Type: TypeInt, Default: "5", Description: "Rotated log files to keep"},

		ConfigOption{Section: "catalog", Key: "category", Default: "all", Description: "Category listed when --category is not given"},
		ConfigOption{Section: "catalog", Key: "where", Description: "Filter applied when --where is not given"},

		ConfigOption{Section: sessionsSection, Key: "maxAgeDays", Type: TypeInt, Default: "30", Description: "Remove sessions idle longer than this"},
		ConfigOption{Section: sessionsSection, Key: "maxCount", Type: TypeInt, Default: "50", Description: "Keep at most this many sessions"},
		ConfigOption{Section: sessionsSection, Key: "maxSizeMB", Type: TypeInt, Default: "50", Description: "Keep sessions under this total size"},
		ConfigOption{Section: sessionsSection, Key: "autoCleanupEnabled", Type: TypeBool, Default: "true", Description: "Clean up sessions in the background"},
		ConfigOption{Section: sessionsSection, Key: "cleanupIntervalHours", Type: TypeInt, Default: "24", Description: "Hours between background cleanups"},
	)
	return s
}

// Template renders a commented config file listing every option with its
// default, suitable for `storefront init`.
func (s *ConfigSchema) Template() string {
	var b strings.Builder
	b.WriteString("# storefront configuration\n")
	b.WriteString("# Format: optionName value\n\n")
	writeSection := func(opts []ConfigOption) {
		for _, o := range opts {
			fmt.Fprintf(&b, "# %s\n", o.Description)
			if o.Default == "" {
				fmt.Fprintf(&b, "# %s\n", o.Key)
			} else {
				fmt.Fprintf(&b, "# %s %s\n", o.Key, o.Default)
			}
		}
	}
	writeSection(s.SectionOptions(""))
	for _, sec := range s.Sections() {
		fmt.Fprintf(&b, "\n[%s]\n", sec)
		writeSection(s.SectionOptions(sec))
	}
	return b.String()
}
