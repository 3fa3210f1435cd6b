package prompt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/koustreak/schemagen/internal/naming"
	"github.com/koustreak/schemagen/internal/schema"
	"github.com/koustreak/schemagen/internal/settings"
)

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	tablePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)
	columnsPattern = regexp.MustCompile(`^$|^\s*\*\s*$|^\s*[A-Za-z_][A-Za-z0-9_]*(\s*,\s*[A-Za-z_][A-Za-z0-9_]*)*\s*$`)
	pathPattern    = regexp.MustCompile(`^\S.*$`)
	yesNoPattern   = regexp.MustCompile(`(?i)^(y|yes|n|no|true|false)$`)
	mappedPattern  = regexp.MustCompile(`(?i)^@?(column|basic)$`)
	anyPattern     = regexp.MustCompile(`^.*$`)
)

// AllColumns answers the Columns question with "every column", dropping a
// list seeded from the config. A blank answer keeps the seeded list.
const AllColumns = "*"

func namingPattern() *regexp.Regexp {
	names := make([]string, len(naming.Conventions))
	for i, c := range naming.Conventions {
		names[i] = regexp.QuoteMeta(string(c))
	}
	return regexp.MustCompile(`(?i)^(` + strings.Join(names, "|") + `)$`)
}

func yes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes", "true":
		return true
	}
	return false
}

func needDao(s *settings.Settings) bool { return s.NeedDao }

// DefaultQuestions returns the generation questions in the order they are
// asked.
func DefaultQuestions() []Question {
	return []Question{
		{
			Label:   "Database",
			Example: "app",
			Pattern: identPattern,
			Current: func(s *settings.Settings) string { return s.Database },
			Set:     func(s *settings.Settings, a string) { s.Database = a },
		},
		{
			Label:   settings.LabelDomainObjectName,
			Example: "SCTest",
			Pattern: identPattern,
			Current: func(s *settings.Settings) string { return s.DomainObjectName },
			Set:     func(s *settings.Settings, a string) { s.DomainObjectName = a },
		},
		{
			Label:   settings.LabelTableName,
			Example: "SCTYPE",
			Pattern: tablePattern,
			Current: func(s *settings.Settings) string { return s.TableName },
			Set:     func(s *settings.Settings, a string) { s.TableName = a },
		},
		{
			Label:   "Columns",
			Example: "id, typeName (" + AllColumns + " for all)",
			Pattern: columnsPattern,
			Current: func(s *settings.Settings) string { return strings.Join(s.Columns, ", ") },
			Set: func(s *settings.Settings, a string) {
				if strings.TrimSpace(a) == AllColumns {
					s.Columns = nil
					return
				}
				s.Columns = schema.ParseColumnList(a)
			},
		},
		{
			Label:   "NamingConvention",
			Example: "camel",
			Pattern: namingPattern(),
			Current: func(s *settings.Settings) string { return string(s.NamingConvention) },
			Set: func(s *settings.Settings, a string) {
				s.NamingConvention, _ = naming.ParseConvention(a)
			},
		},
		{
			Label:   "MappedType",
			Example: "@Column or @Basic",
			Pattern: mappedPattern,
			Current: func(s *settings.Settings) string { return string(s.MappedType) },
			Set: func(s *settings.Settings, a string) {
				s.MappedType, _ = settings.ParseMappedType(a)
			},
		},
		{
			Label:   "NeedDao",
			Example: "y/n",
			Pattern: yesNoPattern,
			Current: func(s *settings.Settings) string { return yesNo(s.NeedDao) },
			Set:     func(s *settings.Settings, a string) { s.NeedDao = yes(a) },
		},
		{
			Label:   "WithToString",
			Example: "y/n",
			Pattern: yesNoPattern,
			Current: func(s *settings.Settings) string { return yesNo(s.WithToString) },
			Set:     func(s *settings.Settings, a string) { s.WithToString = yes(a) },
		},
		{
			Label:   settings.LabelEntityPath,
			Example: `D:\workspace\src\main\java\com\acme\entity`,
			Pattern: pathPattern,
			Current: func(s *settings.Settings) string { return s.EntityPath },
			Set:     func(s *settings.Settings, a string) { s.EntityPath = a },
		},
		{
			Label:   settings.LabelInterfacePath,
			Example: "/workspace/src/main/java/com/acme/dao",
			Pattern: pathPattern,
			When:    needDao,
			Current: func(s *settings.Settings) string { return s.InterfacePath },
			Set:     func(s *settings.Settings, a string) { s.InterfacePath = a },
		},
		{
			Label:   settings.LabelDaoPath,
			Example: "/workspace/src/main/java/com/acme/dao",
			Pattern: pathPattern,
			When:    needDao,
			Current: func(s *settings.Settings) string { return s.DaoPath },
			Set:     func(s *settings.Settings, a string) { s.DaoPath = a },
		},
		{
			Label:   "TaskID",
			Example: "TEST001",
			Pattern: anyPattern,
			Current: func(s *settings.Settings) string { return s.TaskID },
			Set:     func(s *settings.Settings, a string) { s.TaskID = a },
		},
		{
			Label:   "TaskName",
			Pattern: anyPattern,
			Current: func(s *settings.Settings) string { return s.TaskName },
			Set:     func(s *settings.Settings, a string) { s.TaskName = a },
		},
		{
			Label:   "TaskDescription",
			Pattern: anyPattern,
			Current: func(s *settings.Settings) string { return s.TaskDescription },
			Set:     func(s *settings.Settings, a string) { s.TaskDescription = a },
		},
		{
			Label:   "SourceDescription",
			Pattern: anyPattern,
			Current: func(s *settings.Settings) string { return s.SourceDescription },
			Set:     func(s *settings.Settings, a string) { s.SourceDescription = a },
		},
		{
			Label:   "Author",
			Pattern: anyPattern,
			Current: func(s *settings.Settings) string { return s.Author },
			Set:     func(s *settings.Settings, a string) { s.Author = a },
		},
	}
}

func yesNo(b bool) string {
	return strconv.FormatBool(b)
}
