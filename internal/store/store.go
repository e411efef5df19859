// Package store owns everything that touches disk: the YAML config
// with its named contexts, and the per-context JSON task database.
// The parsing and query core never imports this package.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/taskcli/internal/task"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	timeNow     = func() time.Time { return time.Now().UTC() }
)

const configFile = "config.yaml"

// Config is the application configuration. Contexts map a name to a
// task database path; urgency coefficients override the scoring
// defaults per key.
type Config struct {
	DBPath              string             `yaml:"db_path"`
	CurrentContext      string             `yaml:"current_context"`
	Contexts            map[string]string  `yaml:"contexts"`
	UrgencyCoefficients map[string]float64 `yaml:"urgency_coefficients,omitempty"`
}

// Store is a workspace rooted at a directory. Opening never creates
// files; Init does.
type Store struct {
	Root string
	cfg  Config
}

// DefaultRoot resolves the store root: TASKCLI_ROOT if set, otherwise
// ~/.taskcli.
func DefaultRoot() string {
	if env := os.Getenv("TASKCLI_ROOT"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".taskcli")
	}
	return ".taskcli"
}

// Open loads the config under root, falling back to defaults when the
// file does not exist yet.
func Open(root string) (*Store, error) {
	s := &Store{Root: expandHome(root)}
	if err := s.loadOrDefaultConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

func (s *Store) defaultConfig() Config {
	return Config{
		DBPath:         filepath.Join(s.Root, "db", "default.json"),
		CurrentContext: "default",
		Contexts:       map[string]string{},
	}
}

func (s *Store) loadOrDefaultConfig() error {
	b, err := os.ReadFile(filepath.Join(s.Root, configFile))
	if err != nil {
		s.cfg = s.defaultConfig()
		return err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("%w: config: %v", ErrInvalid, err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = s.defaultConfig().DBPath
	}
	if strings.TrimSpace(cfg.CurrentContext) == "" {
		cfg.CurrentContext = "default"
	}
	if cfg.Contexts == nil {
		cfg.Contexts = map[string]string{}
	}
	s.cfg = cfg
	return nil
}

func (s *Store) Config() Config { return s.cfg }

func (s *Store) SaveConfig(cfg Config) error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = s.defaultConfig().DBPath
	}
	if strings.TrimSpace(cfg.CurrentContext) == "" {
		cfg.CurrentContext = "default"
	}
	if cfg.Contexts == nil {
		cfg.Contexts = map[string]string{}
	}
	s.cfg = cfg
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Join(s.Root, configFile), b, 0o644)
}

// Coefficients merges the config overrides over the scoring defaults.
func (s *Store) Coefficients() map[string]float64 {
	coeff := task.DefaultCoefficients()
	for k, v := range s.cfg.UrgencyCoefficients {
		coeff[k] = v
	}
	return coeff
}

// DBPath returns the database path for the current context, falling
// back to the top-level db_path when the context is not registered.
func (s *Store) DBPath() string {
	if p, ok := s.cfg.Contexts[s.cfg.CurrentContext]; ok && strings.TrimSpace(p) != "" {
		return expandHome(p)
	}
	return expandHome(s.cfg.DBPath)
}

// SwitchContext makes name the current context. The context must be
// registered unless it is "default".
func (s *Store) SwitchContext(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: context name is required", ErrInvalid)
	}
	if _, ok := s.cfg.Contexts[name]; !ok && name != "default" {
		return fmt.Errorf("%w: context %q", ErrNotFound, name)
	}
	cfg := s.cfg
	cfg.CurrentContext = name
	return s.SaveConfig(cfg)
}

// Init writes the config if missing, creates the database file for the
// current context, and registers the context in the config. When the
// database already exists, confirm decides whether to overwrite it;
// declining leaves the store untouched and is not an error.
func (s *Store) Init(confirm func(prompt string) bool) error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	if err := s.SaveConfig(s.cfg); err != nil {
		return err
	}

	path := s.DBPath()
	if _, err := os.Stat(path); err == nil {
		if confirm == nil || !confirm(fmt.Sprintf("Database already exists at %s. Overwrite? (y/n): ", path)) {
			return nil
		}
	}
	if err := atomicWriteFile(path, []byte("[]\n"), 0o644); err != nil {
		return err
	}

	cfg := s.cfg
	if _, ok := cfg.Contexts[cfg.CurrentContext]; !ok {
		cfg.Contexts[cfg.CurrentContext] = s.cfg.DBPath
		return s.SaveConfig(cfg)
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
