package codegen

import (
	"embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/settings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Block template names. Each file under templates/ renders one block.
const (
	blockPackage     = "package.tmpl"
	blockImports     = "imports.tmpl"
	blockHeader      = "header.tmpl"
	blockDeclaration = "declaration.tmpl"
	blockFields      = "fields.tmpl"
	blockAccessors   = "accessors.tmpl"
	blockToString    = "tostring.tmpl"
	blockClosing     = "closing.tmpl"
)

var blocks = template.Must(template.New("blocks").Funcs(funcMap()).ParseFS(templateFS, "templates/*.tmpl"))

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["doc"] = docText
	fm["javaString"] = javaString
	return fm
}

// docText makes free text safe inside a /** */ comment line.
func docText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "*/", "*\\/").Replace(s)
	return s
}

// javaString escapes s for use inside a double-quoted string literal.
func javaString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
}

// columnView is the per-column data the field, accessor and toString
// blocks read.
type columnView struct {
	Name        string
	Type        string
	Field       string
	Suffix      string
	Remarks     string
	Annotations []string
}

// blockData is the data every block template executes against.
type blockData struct {
	Target        Target
	Table         string
	Generated     string
	Settings      settings.Settings
	HasPrimaryKey bool
	ColumnStyle   bool
	Imports       []string
	Implements    string
	Columns       []columnView

	names Names
}

// builder renders one named block.
type builder func(d *blockData) (string, error)

func render(name string) builder {
	return func(d *blockData) (string, error) {
		var sb strings.Builder
		if err := blocks.ExecuteTemplate(&sb, name, d); err != nil {
			return "", errs.Wrap(errs.ErrKindUnknown, "render block "+name, err)
		}
		return sb.String(), nil
	}
}

// withImports renders the imports block over a different import list.
func withImports(imports func(d *blockData) []string, leadingBlank bool) builder {
	inner := render(blockImports)
	return func(d *blockData) (string, error) {
		scoped := *d
		scoped.Imports = imports(d)
		out, err := inner(&scoped)
		if err != nil {
			return "", err
		}
		if leadingBlank {
			out = "\n" + out
		}
		return out, nil
	}
}

// step is one recipe entry. Steps with a false only predicate are left out
// of the artifact entirely.
type step struct {
	build builder
	only  func(d *blockData) bool
}
