package codegen

import (
	"path"
	"strings"

	"github.com/koustreak/schemagen/internal/settings"
)

// Kind identifies one of the three generated artifacts.
type Kind string

const (
	KindEntity    Kind = "entity"
	KindInterface Kind = "interface"
	KindDao       Kind = "dao"
)

// Kinds lists the artifact kinds in emission order.
var Kinds = []Kind{KindEntity, KindInterface, KindDao}

// ParseKind accepts an artifact kind case-insensitively.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindEntity:
		return KindEntity, true
	case KindInterface:
		return KindInterface, true
	case KindDao:
		return KindDao, true
	}
	return "", false
}

// FileExt is appended to every artifact name.
const FileExt = ".java"

// sourceRoot marks where the package path starts inside an output directory.
const sourceRoot = "src/main/java"

// Target is the resolved name, package and output directory of one artifact.
type Target struct {
	Kind    Kind
	Name    string
	Package string
	Dir     string
}

// FileName returns the artifact's file name.
func (t Target) FileName() string {
	return t.Name + FileExt
}

// Qualified returns the package-qualified type name.
func (t Target) Qualified() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Names holds the three targets of a run. They are fixed before any
// artifact is emitted so the DAO pair can reference the entity.
type Names struct {
	Entity    Target
	Interface Target
	Dao       Target
}

// Target returns the target for kind.
func (n Names) Target(kind Kind) Target {
	switch kind {
	case KindInterface:
		return n.Interface
	case KindDao:
		return n.Dao
	default:
		return n.Entity
	}
}

// Resolve computes the artifact names and packages from s, entity first,
// then interface, then implementation.
func Resolve(s settings.Settings) Names {
	base := strings.TrimSpace(s.DomainObjectName)

	var n Names
	n.Entity = Target{Kind: KindEntity, Name: base + "Entity", Dir: s.EntityPath, Package: PackageOf(s.EntityPath)}
	n.Interface = Target{Kind: KindInterface, Name: "I" + base + "Dao", Dir: s.InterfacePath, Package: PackageOf(s.InterfacePath)}
	n.Dao = Target{Kind: KindDao, Name: base + "Dao", Dir: s.DaoPath, Package: PackageOf(s.DaoPath)}
	return n
}

// PackageOf derives a package name from an output directory. The part after
// src/main/java (either separator style) becomes the dotted package; without
// that marker the last path element is used.
func PackageOf(dir string) string {
	d := strings.TrimRight(strings.ReplaceAll(strings.TrimSpace(dir), `\`, "/"), "/")
	if d == "" {
		return ""
	}

	if i := strings.Index(d, sourceRoot); i >= 0 {
		rest := strings.Trim(d[i+len(sourceRoot):], "/")
		return strings.ReplaceAll(rest, "/", ".")
	}

	last := path.Base(d)
	if last == "." || last == "/" || last == ".." {
		return ""
	}
	return last
}
