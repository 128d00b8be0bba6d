package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// FileName is the configuration file looked up next to a script.
const FileName = "vls.cue"

// Config holds run settings.
type Config struct {
	LogLevel    string `json:"log_level"`
	RandomSeed  uint64 `json:"random_seed"`
	Journal     string `json:"journal"`
	EchoPrompts bool   `json:"echo_prompts"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		LogLevel:    "info",
		EchoPrompts: true,
	}
}

// Error reports an invalid configuration file with its CUE position.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates the CUE file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates CUE source against the schema and decodes it. filename
// is used in error positions.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	return cfg, nil
}

// Discover returns the path of the configuration file next to script,
// or "" if there is none.
func Discover(script string) string {
	path := filepath.Join(filepath.Dir(script), FileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Resolve loads the explicit path if given, else the file discovered next
// to script, else the defaults.
func Resolve(explicit, script string) (Config, error) {
	path := explicit
	if path == "" {
		path = Discover(script)
	}
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level. Unknown names map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// formatCUEError extracts path and position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := strings.TrimPrefix(strings.Join(errors.Path(first), "."), "#Config.")
	if field == "" {
		field = "cue"
	}
	ce := &Error{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
