// Package config loads schemagen's configuration file with viper. Values
// come from, in increasing priority: built-in defaults, the YAML file,
// SCHEMAGEN_* environment variables and bound command-line flags.
//
// Example file:
//
//	log:
//	  level: info
//	  format: console
//	databases:
//	  app:
//	    driver: mysql
//	    dsn: "user:pass@tcp(localhost:3306)/app"
//	    catalog_case: upper
//	output:
//	  kind: dir
//	generation:
//	  database: app
//	  mapped_type: column
//	  author: kou
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/filestore"
	"github.com/koustreak/schemagen/internal/logger"
	"github.com/koustreak/schemagen/internal/settings"
)

// EnvPrefix prefixes every environment override, e.g. SCHEMAGEN_LOG_LEVEL.
const EnvPrefix = "SCHEMAGEN"

// FileName is the config file searched for when none is given.
const FileName = "schemagen"

// Output kinds.
const (
	OutputDir   = "dir"
	OutputMinio = "minio"
)

// Config is the whole configuration file.
type Config struct {
	Log        logger.Config               `mapstructure:"log"`
	Databases  map[string]*database.Config `mapstructure:"databases"`
	Output     Output                      `mapstructure:"output"`
	Preview    Preview                     `mapstructure:"preview"`
	Generation settings.Settings           `mapstructure:"generation"`
	Prompt     Prompt                      `mapstructure:"prompt"`
}

// Output selects where generated files go.
type Output struct {
	Kind string `mapstructure:"kind"` // dir or minio

	// Root anchors relative output paths for the dir kind.
	Root string `mapstructure:"root"`

	// PresignTTL, when set, makes the minio kind report download URLs.
	PresignTTL time.Duration    `mapstructure:"presign_ttl"`
	Minio      filestore.Config `mapstructure:"minio"`
}

// Preview configures the preview HTTP server.
type Preview struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Prompt configures the interactive session.
type Prompt struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// SetDefaults registers every key with its default so environment
// variables can override keys the file does not mention.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.time_format", "rfc3339")
	v.SetDefault("log.no_color", false)

	v.SetDefault("output.kind", OutputDir)
	v.SetDefault("output.root", "")
	v.SetDefault("output.presign_ttl", time.Duration(0))
	v.SetDefault("output.minio.provider", string(filestore.ProviderMinIO))
	v.SetDefault("output.minio.endpoint", "")
	v.SetDefault("output.minio.access_key", "")
	v.SetDefault("output.minio.secret_key", "")
	v.SetDefault("output.minio.use_ssl", false)
	v.SetDefault("output.minio.region", "")
	v.SetDefault("output.minio.bucket", "schemagen")
	v.SetDefault("output.minio.prefix", "")

	v.SetDefault("preview.addr", ":8080")
	v.SetDefault("preview.read_timeout", 15*time.Second)
	v.SetDefault("preview.write_timeout", 30*time.Second)
	v.SetDefault("preview.shutdown_timeout", 10*time.Second)

	d := settings.Default()
	v.SetDefault("generation.domain_object_name", "")
	v.SetDefault("generation.database", "")
	v.SetDefault("generation.table_name", "")
	v.SetDefault("generation.columns", []string{})
	v.SetDefault("generation.naming_convention", string(d.NamingConvention))
	v.SetDefault("generation.mapped_type", string(d.MappedType))
	v.SetDefault("generation.need_dao", false)
	v.SetDefault("generation.with_to_string", false)
	v.SetDefault("generation.lenient_columns", false)
	v.SetDefault("generation.entity_path", "")
	v.SetDefault("generation.interface_path", "")
	v.SetDefault("generation.dao_path", "")
	v.SetDefault("generation.task_id", "")
	v.SetDefault("generation.task_name", "")
	v.SetDefault("generation.task_description", "")
	v.SetDefault("generation.source_description", "")
	v.SetDefault("generation.author", "")
	v.SetDefault("generation.company", "")
	v.SetDefault("generation.persistence_package", d.PersistencePackage)
	v.SetDefault("generation.line_separator", d.LineSeparator)

	v.SetDefault("prompt.max_attempts", 3)
}

// Load reads file (or, when empty, schemagen.yaml from the working
// directory or $HOME/.config/schemagen) into a validated Config. A missing
// default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/schemagen")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "read config", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "decode config", err)
	}
	cfg.fillDatabaseDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDatabaseDefaults gives every database the timeouts and catalog case
// of database.DefaultConfig where the file left them out.
func (c *Config) fillDatabaseDefaults() {
	for name, db := range c.Databases {
		if db == nil {
			delete(c.Databases, name)
			continue
		}
		def := database.DefaultConfig(db.Driver, db.DSN)
		if db.ConnectTimeout == 0 {
			db.ConnectTimeout = def.ConnectTimeout
		}
		if db.QueryTimeout == 0 {
			db.QueryTimeout = def.QueryTimeout
		}
		if db.CatalogCase == "" {
			db.CatalogCase = def.CatalogCase
		}
	}
}

// Validate checks the parts of the file that are not run settings. Run
// settings are checked per run by settings.Check.
func (c *Config) Validate() error {
	var problems []string

	for name, db := range c.Databases {
		switch db.Driver {
		case database.DriverMySQL, database.DriverPostgres, database.DriverSQLite:
		default:
			problems = append(problems, "databases."+name+".driver: unsupported driver \""+string(db.Driver)+"\"")
		}
		if strings.TrimSpace(db.DSN) == "" {
			problems = append(problems, "databases."+name+".dsn: required")
		}
		switch database.CatalogCase(strings.ToLower(string(db.CatalogCase))) {
		case database.CatalogPreserve, database.CatalogUpper, database.CatalogLower:
		default:
			problems = append(problems, "databases."+name+".catalog_case: want preserve, upper or lower")
		}
	}

	switch c.Output.Kind {
	case OutputDir:
	case OutputMinio:
		for _, p := range c.Output.Minio.Check() {
			problems = append(problems, "output.minio."+p+" for minio output")
		}
	default:
		problems = append(problems, "output.kind: want dir or minio")
	}

	if c.Prompt.MaxAttempts < 1 {
		problems = append(problems, "prompt.max_attempts: must be at least 1")
	}

	if len(problems) > 0 {
		return errs.WithDetails(errs.ErrKindConfiguration, "invalid configuration", problems)
	}
	return nil
}

// Settings returns the generation defaults from the file.
func (c *Config) Settings() settings.Settings {
	s := c.Generation
	s.Columns = append([]string(nil), c.Generation.Columns...)
	return s
}
