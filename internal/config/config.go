package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"

	"github.com/99designs/keyring"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/semmy-space/credstore/internal/secrets"
)

// FilePasswordEnv names the environment variable holding the file
// backend's encryption password.
const FilePasswordEnv = "CREDSTORE_FILE_PASSWORD"

// Config holds the CLI configuration
type Config struct {
	ServiceName              string `json:"service_name,omitempty"`
	Backend                  string `json:"backend,omitempty"`
	FileDir                  string `json:"file_dir,omitempty"`
	KeychainTrustApplication bool   `json:"keychain_trust_application,omitempty"`
	KWalletFolder            string `json:"kwallet_folder,omitempty"`
	LibSecretCollection      string `json:"libsecret_collection,omitempty"`
	PassDir                  string `json:"pass_dir,omitempty"`
	DefaultOutput            string `json:"default_output,omitempty"`

	path string
}

// Load reads config from the XDG path, returns defaults if file doesn't exist
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path, returns defaults if file doesn't exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Empty backend means "auto"; empty service must come from a flag
			return &Config{path: path}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := secrets.ParseType(cfg.Backend); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.path = path

	return &cfg, nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Save writes the config to its path
func (c *Config) Save() error {
	path := c.Path()

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON (not JSON5 for writing - JSON is valid JSON5)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// field finds the struct field whose json tag names key
func (c *Config) field(key string) (reflect.Value, bool) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !settable(field) {
			continue
		}
		if jsonKey(field) == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// settable reports whether f is a user-facing config key
func settable(f reflect.StructField) bool {
	k := jsonKey(f)
	return f.IsExported() && k != "" && k != "-"
}

func jsonKey(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

// Keys returns every settable config key, sorted
func Keys() []string {
	t := reflect.TypeOf(Config{})
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); settable(f) {
			keys = append(keys, jsonKey(f))
		}
	}
	sort.Strings(keys)
	return keys
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	f, ok := c.field(key)
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return fmt.Sprintf("%v", f.Interface()), nil
}

// Set sets a config value by key name and saves
func (c *Config) Set(key, value string) error {
	f, ok := c.field(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	switch f.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q is not a boolean", key, value)
		}
		f.SetBool(b)
	default:
		if key == "backend" {
			if _, err := secrets.ParseType(value); err != nil {
				return err
			}
		}
		f.SetString(value)
	}
	return c.Save()
}

// Unset sets a config value to its zero value and saves
func (c *Config) Unset(key string) error {
	f, ok := c.field(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	f.Set(reflect.Zero(f.Type()))
	return c.Save()
}

// BackendOptions translates the config into backend construction options.
func (c *Config) BackendOptions() (secrets.Options, error) {
	t, err := secrets.ParseType(c.Backend)
	if err != nil {
		return secrets.Options{}, err
	}

	opts := secrets.Options{
		Type:                     t,
		FileDir:                  c.FileDir,
		KeychainTrustApplication: c.KeychainTrustApplication,
		KWalletFolder:            c.KWalletFolder,
		LibSecretCollection:      c.LibSecretCollection,
		PassDir:                  c.PassDir,
	}
	if pw := os.Getenv(FilePasswordEnv); pw != "" {
		opts.FilePassword = keyring.FixedStringPrompt(pw)
	}
	return opts, nil
}
