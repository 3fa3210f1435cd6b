// Package codegen turns an introspected table into the source text of the
// persistence entity and its data-access interface and implementation.
//
// Every artifact is a fixed recipe of named blocks (package, imports, doc
// header, declaration, body, closing). Blocks are text/template files
// rendered with the sprig function map; Artifact.Render joins them with the
// requested line separator.
package codegen

import (
	"strings"
	"time"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/naming"
	"github.com/koustreak/schemagen/internal/schema"
	"github.com/koustreak/schemagen/internal/settings"
)

// TimeLayout formats the generation timestamp embedded in every artifact.
const TimeLayout = "2006-01-02 15:04:05"

// Artifact is one generated source file.
type Artifact struct {
	Kind     Kind
	Name     string
	Package  string
	FileName string
	Dir      string
	Blocks   []string
}

// Render joins the blocks, terminating each with sep. Line breaks inside a
// block are rewritten to sep as well. An empty sep means "\n".
func (a *Artifact) Render(sep string) []byte {
	if sep == "" {
		sep = "\n"
	}
	var sb strings.Builder
	for _, b := range a.Blocks {
		if sep != "\n" {
			b = strings.ReplaceAll(b, "\n", sep)
		}
		sb.WriteString(b)
		sb.WriteString(sep)
	}
	return []byte(sb.String())
}

// Emitter builds artifacts. It holds no per-run state and is safe for
// concurrent use.
type Emitter struct {
	clock func() time.Time
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithClock sets the clock the generation timestamp is read from.
func WithClock(clock func() time.Time) Option {
	return func(e *Emitter) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New returns an Emitter using the wall clock unless overridden.
func New(opts ...Option) *Emitter {
	e := &Emitter{clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit builds the entity and, when s.NeedDao is set, the interface and the
// implementation, in that order. All artifacts share one timestamp.
func (e *Emitter) Emit(t *schema.TableInfo, s settings.Settings) ([]*Artifact, error) {
	kinds := []Kind{KindEntity}
	if s.NeedDao {
		kinds = append(kinds, KindInterface, KindDao)
	}
	return e.emit(t, s, kinds)
}

// EmitKind builds a single artifact regardless of s.NeedDao.
func (e *Emitter) EmitKind(kind Kind, t *schema.TableInfo, s settings.Settings) (*Artifact, error) {
	arts, err := e.emit(t, s, []Kind{kind})
	if err != nil {
		return nil, err
	}
	return arts[0], nil
}

func (e *Emitter) emit(t *schema.TableInfo, s settings.Settings, kinds []Kind) ([]*Artifact, error) {
	if t == nil || t.Columns == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "no table model to emit")
	}
	s = s.Normalized()
	names := Resolve(s)
	generated := e.clock().Format(TimeLayout)
	columns := columnViews(t, s)

	out := make([]*Artifact, 0, len(kinds))
	for _, kind := range kinds {
		target := names.Target(kind)
		d := &blockData{
			Target:        target,
			Table:         t.TableName,
			Generated:     generated,
			Settings:      s,
			HasPrimaryKey: t.HasPrimaryKey,
			ColumnStyle:   s.MappedType != settings.MappedBasic,
			Imports:       t.Imports.Paths(),
			Implements:    names.Interface.Name,
			Columns:       columns,
			names:         names,
		}

		art := &Artifact{
			Kind:     kind,
			Name:     target.Name,
			Package:  target.Package,
			FileName: target.FileName(),
			Dir:      target.Dir,
		}
		for _, st := range recipes[kind] {
			if st.only != nil && !st.only(d) {
				continue
			}
			block, err := st.build(d)
			if err != nil {
				return nil, err
			}
			art.Blocks = append(art.Blocks, block)
		}
		out = append(out, art)
	}
	return out, nil
}

// --- recipes ---

var recipes = map[Kind][]step{
	KindEntity: {
		{build: render(blockPackage)},
		{build: render(blockImports)},
		{build: withImports(persistenceImports, false)},
		{build: render(blockHeader)},
		{build: render(blockDeclaration)},
		{build: render(blockFields)},
		{build: render(blockAccessors)},
		{build: render(blockToString), only: func(d *blockData) bool { return d.Settings.WithToString }},
		{build: render(blockClosing)},
	},
	KindInterface: {
		{build: render(blockPackage)},
		{build: withImports(func(d *blockData) []string {
			return importable(d.names.Entity)
		}, true)},
		{build: render(blockHeader)},
		{build: render(blockDeclaration)},
		{build: render(blockClosing)},
	},
	KindDao: {
		{build: render(blockPackage)},
		{build: withImports(func(d *blockData) []string {
			return append(importable(d.names.Interface), importable(d.names.Entity)...)
		}, true)},
		{build: render(blockHeader)},
		{build: render(blockDeclaration)},
		{build: render(blockClosing)},
	},
}

// persistenceImports lists the annotation types the entity uses.
func persistenceImports(d *blockData) []string {
	pkg := d.Settings.PersistencePackage
	var types []string
	if d.ColumnStyle {
		types = append(types, "Column")
	} else {
		types = append(types, "Basic")
	}
	types = append(types, "Entity")
	if d.HasPrimaryKey {
		if d.ColumnStyle {
			types = append(types, "GeneratedValue", "GenerationType")
		}
		types = append(types, "Id")
	}
	types = append(types, "Table")

	out := make([]string, len(types))
	for i, t := range types {
		out[i] = pkg + "." + t
	}
	return out
}

// importable returns t's qualified name unless t lives in the default
// package, which cannot be imported.
func importable(t Target) []string {
	if t.Package == "" {
		return nil
	}
	return []string{t.Qualified()}
}

// columnViews derives field names, accessor suffixes and annotations. With
// explicit columns the caller's spelling is the field name and the accessor
// suffix only has its first letter raised; otherwise the field follows the
// naming convention and the suffix is Pascal case.
func columnViews(t *schema.TableInfo, s settings.Settings) []columnView {
	columnStyle := s.MappedType != settings.MappedBasic

	cols := t.Columns.List()
	out := make([]columnView, 0, len(cols))
	for _, c := range cols {
		v := columnView{
			Name:    c.Name,
			Type:    c.ScalarType,
			Remarks: c.RemarksOr(""),
		}
		if t.Explicit && c.DisplayName != "" {
			v.Field = c.DisplayName
			v.Suffix = naming.CapitalizeOnly(c.DisplayName)
		} else {
			v.Field = naming.Convert(c.Name, s.NamingConvention)
			v.Suffix = naming.ToPascal(c.Name)
		}

		switch {
		case c.IsPrimaryKey && columnStyle:
			v.Annotations = []string{
				"@Id",
				"@GeneratedValue(strategy=GenerationType.IDENTITY)",
				`@Column(name="` + javaString(c.Name) + `")`,
			}
		case c.IsPrimaryKey:
			v.Annotations = []string{"@Id"}
		case columnStyle:
			v.Annotations = []string{`@Column(name="` + javaString(c.Name) + `")`}
		default:
			v.Annotations = []string{"@Basic"}
		}
		out = append(out, v)
	}
	return out
}
