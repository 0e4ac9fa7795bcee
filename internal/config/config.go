// Package config resolves the settings of the family command from flags,
// environment variables, .env files and an optional family.toml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	family "github.com/automainint/go-family"
	"github.com/automainint/go-family/internal/docio"
)

// EnvPrefix is the prefix of environment variables, e.g. FAMILY_INDENT=4.
const EnvPrefix = "family"

// Setting keys. Flags use the same names.
const (
	KeyConfig    = "config"
	KeyTo        = "to"
	KeyFrom      = "from"
	KeyIndent    = "indent"
	KeyMaxDepth  = "max-depth"
	KeyMaxValues = "max-values"
	KeyPack      = "pack"
	KeyUnpack    = "unpack"
	KeyCompress  = "compress"
	KeyVerbosity = "verbose"
	KeyLogFile   = "log-file"
)

// Config holds the resolved settings.
type Config struct {
	From      docio.Format
	To        docio.Format
	Indent    int
	MaxDepth  int
	MaxValues int
	Pack      bool
	Unpack    bool
	Compress  bool
	Verbosity int
	LogFile   string
}

// SetDefaults registers the default of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFrom, string(docio.FormatAuto))
	v.SetDefault(KeyTo, string(docio.FormatAuto))
	v.SetDefault(KeyIndent, 2)
	v.SetDefault(KeyMaxDepth, 1000)
	v.SetDefault(KeyMaxValues, 1<<22)
	v.SetDefault(KeyPack, false)
	v.SetDefault(KeyUnpack, false)
	v.SetDefault(KeyCompress, false)
	v.SetDefault(KeyVerbosity, 0)
	v.SetDefault(KeyLogFile, "")
}

// Init loads .env files, enables FAMILY_* environment variables and reads
// the config file. An explicit file must exist; the default family.toml in
// the working directory is optional.
func Init(v *viper.Viper, file string) error {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return nil
	}

	v.SetConfigName("family")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads and validates the settings.
func Load(v *viper.Viper) (*Config, error) {
	from, err := docio.ParseFormat(v.GetString(KeyFrom))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyFrom, err)
	}
	to, err := docio.ParseFormat(v.GetString(KeyTo))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyTo, err)
	}

	c := &Config{
		From:      from,
		To:        to,
		Indent:    v.GetInt(KeyIndent),
		MaxDepth:  v.GetInt(KeyMaxDepth),
		MaxValues: v.GetInt(KeyMaxValues),
		Pack:      v.GetBool(KeyPack),
		Unpack:    v.GetBool(KeyUnpack),
		Compress:  v.GetBool(KeyCompress),
		Verbosity: v.GetInt(KeyVerbosity),
		LogFile:   v.GetString(KeyLogFile),
	}

	if c.Pack && c.Unpack {
		return nil, fmt.Errorf("config: %s and %s are mutually exclusive", KeyPack, KeyUnpack)
	}
	if c.Indent < 0 {
		return nil, fmt.Errorf("config: %s cannot be negative", KeyIndent)
	}
	if c.MaxDepth <= 0 {
		return nil, fmt.Errorf("config: %s must be a positive integer", KeyMaxDepth)
	}
	if c.MaxValues <= 0 {
		return nil, fmt.Errorf("config: %s must be a positive integer", KeyMaxValues)
	}
	return c, nil
}

// DecodeOptions returns the options for reading input documents.
func (c *Config) DecodeOptions() []family.Option {
	opts := []family.Option{family.MaxDepth(c.MaxDepth), family.MaxValues(c.MaxValues)}
	if c.Unpack {
		opts = append(opts, family.UnpackKeys())
	}
	return opts
}

// EncodeOptions returns the options for writing output documents.
func (c *Config) EncodeOptions() []family.Option {
	opts := []family.Option{family.Indent(c.Indent)}
	if c.Pack {
		opts = append(opts, family.PackKeys())
	}
	return opts
}
