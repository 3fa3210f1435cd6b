// Package settings holds the parameters of one generation run and the
// checks that decide whether a run may start.
package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/naming"
	"go.yaml.in/yaml/v3"
)

// MappedType is the persistence annotation style for non-key fields.
type MappedType string

const (
	MappedColumn MappedType = "column" // @Column(name="…")
	MappedBasic  MappedType = "basic"  // @Basic
)

// ParseMappedType accepts "column", "basic" and their annotation spellings
// "@Column" and "@Basic", case-insensitively.
func ParseMappedType(s string) (MappedType, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@")) {
	case "column":
		return MappedColumn, true
	case "basic":
		return MappedBasic, true
	default:
		return MappedColumn, false
	}
}

// Default persistence packages.
const (
	JavaxPersistence   = "javax.persistence"
	JakartaPersistence = "jakarta.persistence"
)

// Labels reported by Validate, in the order they are checked.
const (
	LabelDomainObjectName = "DomainObjectName"
	LabelTableName        = "TableName"
	LabelEntityPath       = "EntityPath"
	LabelDaoPath          = "DaoPath"
	LabelInterfacePath    = "InterfacePath"
)

// Settings are the parameters of one generation run. A run copies them and
// never mutates them.
type Settings struct {
	DomainObjectName string            `mapstructure:"domain_object_name" yaml:"domain_object_name"`
	Database         string            `mapstructure:"database" yaml:"database"`
	TableName        string            `mapstructure:"table_name" yaml:"table_name"`
	Columns          []string          `mapstructure:"columns" yaml:"columns,omitempty"`
	NamingConvention naming.Convention `mapstructure:"naming_convention" yaml:"naming_convention,omitempty"`
	MappedType       MappedType        `mapstructure:"mapped_type" yaml:"mapped_type"`
	NeedDao          bool              `mapstructure:"need_dao" yaml:"need_dao"`
	WithToString     bool              `mapstructure:"with_to_string" yaml:"with_to_string"`
	LenientColumns   bool              `mapstructure:"lenient_columns" yaml:"lenient_columns,omitempty"`

	EntityPath    string `mapstructure:"entity_path" yaml:"entity_path"`
	InterfacePath string `mapstructure:"interface_path" yaml:"interface_path,omitempty"`
	DaoPath       string `mapstructure:"dao_path" yaml:"dao_path,omitempty"`

	TaskID             string `mapstructure:"task_id" yaml:"task_id,omitempty"`
	TaskName           string `mapstructure:"task_name" yaml:"task_name,omitempty"`
	TaskDescription    string `mapstructure:"task_description" yaml:"task_description,omitempty"`
	SourceDescription  string `mapstructure:"source_description" yaml:"source_description,omitempty"`
	Author             string `mapstructure:"author" yaml:"author,omitempty"`
	Company            string `mapstructure:"company" yaml:"company,omitempty"`
	PersistencePackage string `mapstructure:"persistence_package" yaml:"persistence_package,omitempty"`
	LineSeparator      string `mapstructure:"line_separator" yaml:"line_separator,omitempty"` // lf or crlf
}

// Default returns settings with every optional field at its default.
func Default() Settings {
	return Settings{
		NamingConvention:   naming.Camel,
		MappedType:         MappedColumn,
		PersistencePackage: JavaxPersistence,
		LineSeparator:      "lf",
	}
}

// Validate lists the label of every required setting that is blank, in a
// fixed order. The DAO paths are only required when NeedDao is set.
func Validate(s Settings) []string {
	var missing []string
	check := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, label)
		}
	}

	check(LabelDomainObjectName, s.DomainObjectName)
	check(LabelTableName, s.TableName)
	check(LabelEntityPath, s.EntityPath)
	if s.NeedDao {
		check(LabelDaoPath, s.DaoPath)
		check(LabelInterfacePath, s.InterfacePath)
	}
	return missing
}

// Check returns a configuration error listing every missing setting and
// every unrecognised enumerated value, or nil.
func (s Settings) Check() error {
	if missing := Validate(s); len(missing) > 0 {
		return errs.WithDetails(errs.ErrKindConfiguration, "required settings missing", missing)
	}
	if s.NamingConvention != "" {
		if _, ok := naming.ParseConvention(string(s.NamingConvention)); !ok {
			return errs.Newf(errs.ErrKindConfiguration, "unknown naming convention %q", s.NamingConvention)
		}
	}
	if s.MappedType != "" {
		if _, ok := ParseMappedType(string(s.MappedType)); !ok {
			return errs.Newf(errs.ErrKindConfiguration, "unknown mapped type %q (want column or basic)", s.MappedType)
		}
	}
	switch strings.ToLower(s.LineSeparator) {
	case "", "lf", "crlf":
	default:
		return errs.Newf(errs.ErrKindConfiguration, "unknown line separator %q (want lf or crlf)", s.LineSeparator)
	}
	return nil
}

// Normalized returns a copy with blanks defaulted, enumerations in
// canonical spelling and free text trimmed.
func (s Settings) Normalized() Settings {
	out := s
	out.DomainObjectName = strings.TrimSpace(s.DomainObjectName)
	out.TableName = strings.TrimSpace(s.TableName)
	out.Database = strings.TrimSpace(s.Database)
	out.EntityPath = strings.TrimSpace(s.EntityPath)
	out.DaoPath = strings.TrimSpace(s.DaoPath)
	out.InterfacePath = strings.TrimSpace(s.InterfacePath)

	if c, ok := naming.ParseConvention(string(s.NamingConvention)); ok {
		out.NamingConvention = c
	} else {
		out.NamingConvention = naming.Camel
	}
	out.MappedType, _ = ParseMappedType(string(s.MappedType))
	if strings.TrimSpace(s.PersistencePackage) == "" {
		out.PersistencePackage = JavaxPersistence
	}
	out.LineSeparator = strings.ToLower(s.LineSeparator)
	if out.LineSeparator == "" {
		out.LineSeparator = "lf"
	}

	out.Columns = make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c = strings.TrimSpace(c); c != "" {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// Separator returns the line separator emitted artifacts use.
func (s Settings) Separator() string {
	if strings.EqualFold(s.LineSeparator, "crlf") {
		return "\r\n"
	}
	return "\n"
}

// Save writes s as YAML to path.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "encode settings", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindIO, fmt.Sprintf("write settings %s", path), err)
	}
	return nil
}

// Load reads settings saved by Save. Missing optional fields take their
// defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errs.Wrap(errs.ErrKindIO, fmt.Sprintf("read settings %s", path), err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errs.Wrap(errs.ErrKindConfiguration, fmt.Sprintf("parse settings %s", path), err)
	}
	return s, nil
}
