package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/koustreak/schemagen/internal/generator"
	"github.com/koustreak/schemagen/internal/naming"
	"github.com/koustreak/schemagen/internal/settings"
)

type genOptions struct {
	flags        settings.Settings
	settingsFile string
	dryRun       bool
}

func newGenCmd(a *app) *cobra.Command {
	o := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "generate the entity (and DAO pair) for one table",
		Example: "  schemagen gen --db app --table SCTYPE --base SCTest --entity-path ./src/main/java/com/acme/entity\n" +
			"  schemagen gen --settings run.yaml --dry-run",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := o.resolve(cmd, a.cfg.Settings())
			if err != nil {
				return err
			}
			if o.dryRun {
				return dryRun(cmd, a, s)
			}
			return run(cmd, a, s)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.settingsFile, "settings", "", "settings file saved by 'interactive --save'; flags override it")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the generated sources instead of writing them")

	f.StringVar(&o.flags.Database, "db", "", "configured database to introspect")
	f.StringVar(&o.flags.TableName, "table", "", "table to generate from")
	f.StringVar(&o.flags.DomainObjectName, "base", "", "base name of the generated classes, e.g. SCTest")
	f.StringSliceVar(&o.flags.Columns, "columns", nil, "explicit column list; names are kept verbatim as field names")
	f.StringVar((*string)(&o.flags.NamingConvention), "naming", "", "field naming convention "+conventionList())
	f.StringVar((*string)(&o.flags.MappedType), "mapped", "", "annotation style [column|basic]")
	f.BoolVar(&o.flags.NeedDao, "dao", false, "also generate the DAO interface and implementation")
	f.BoolVar(&o.flags.WithToString, "tostring", false, "generate a toString method in the entity")
	f.BoolVar(&o.flags.LenientColumns, "lenient", false, "accept an explicit column list longer than the described columns")
	f.StringVar(&o.flags.EntityPath, "entity-path", "", "output directory of the entity")
	f.StringVar(&o.flags.InterfacePath, "interface-path", "", "output directory of the DAO interface")
	f.StringVar(&o.flags.DaoPath, "dao-path", "", "output directory of the DAO implementation")
	f.StringVar(&o.flags.TaskID, "task-id", "", "task id for the doc header")
	f.StringVar(&o.flags.TaskName, "task-name", "", "task name for the doc header")
	f.StringVar(&o.flags.TaskDescription, "task-description", "", "description for the doc header")
	f.StringVar(&o.flags.SourceDescription, "source-description", "", "source description for the doc header")
	f.StringVar(&o.flags.Author, "author", "", "author for the doc header")
	f.StringVar(&o.flags.Company, "company", "", "company for the doc header")
	f.StringVar(&o.flags.PersistencePackage, "persistence", "", "persistence package, e.g. jakarta.persistence")
	f.StringVar(&o.flags.LineSeparator, "sep", "", "line separator [lf|crlf]")
	return cmd
}

// resolve starts from base (or the --settings file) and applies every flag
// the user set.
func (o *genOptions) resolve(cmd *cobra.Command, base settings.Settings) (settings.Settings, error) {
	s := base
	if o.settingsFile != "" {
		loaded, err := settings.Load(o.settingsFile)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	changed := cmd.Flags().Changed
	f := o.flags
	for _, p := range []struct {
		flag string
		dst  *string
		src  string
	}{
		{"db", &s.Database, f.Database},
		{"table", &s.TableName, f.TableName},
		{"base", &s.DomainObjectName, f.DomainObjectName},
		{"naming", (*string)(&s.NamingConvention), string(f.NamingConvention)},
		{"mapped", (*string)(&s.MappedType), string(f.MappedType)},
		{"entity-path", &s.EntityPath, f.EntityPath},
		{"interface-path", &s.InterfacePath, f.InterfacePath},
		{"dao-path", &s.DaoPath, f.DaoPath},
		{"task-id", &s.TaskID, f.TaskID},
		{"task-name", &s.TaskName, f.TaskName},
		{"task-description", &s.TaskDescription, f.TaskDescription},
		{"source-description", &s.SourceDescription, f.SourceDescription},
		{"author", &s.Author, f.Author},
		{"company", &s.Company, f.Company},
		{"persistence", &s.PersistencePackage, f.PersistencePackage},
		{"sep", &s.LineSeparator, f.LineSeparator},
	} {
		if changed(p.flag) {
			*p.dst = p.src
		}
	}
	if changed("columns") {
		s.Columns = append([]string(nil), f.Columns...)
	}
	if changed("dao") {
		s.NeedDao = f.NeedDao
	}
	if changed("tostring") {
		s.WithToString = f.WithToString
	}
	if changed("lenient") {
		s.LenientColumns = f.LenientColumns
	}
	return s, nil
}

func run(cmd *cobra.Command, a *app, s settings.Settings) error {
	ctx := cmd.Context()
	w, closeWriter, err := a.writer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWriter(); err != nil {
			a.log.With().Err(err).Logger().Warn("close output writer")
		}
	}()

	report, err := a.generator(w).Run(ctx, s)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func dryRun(cmd *cobra.Command, a *app, s settings.Settings) error {
	res, err := a.generator(nil).Preview(cmd.Context(), s)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	sep := res.Settings.Separator()
	for _, art := range res.Artifacts {
		fmt.Fprintf(out, "// ==> %s (%s)%s", art.FileName, art.Dir, sep)
		if _, err := out.Write(art.Render(sep)); err != nil {
			return err
		}
	}
	return nil
}

func printReport(w io.Writer, r *generator.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"kind", "file", "location", "size"})
	for _, f := range r.Files {
		table.Append([]string{string(f.Kind), f.Name, f.Location, strconv.Itoa(f.Size)})
	}
	table.Render()
	fmt.Fprintf(w, "run %s %s in %s\n", r.RunID, r.State, r.Finished.Sub(r.Started).Round(time.Millisecond))
}

func conventionList() string {
	names := make([]string, len(naming.Conventions))
	for i, c := range naming.Conventions {
		names[i] = string(c)
	}
	return "[" + strings.Join(names, "|") + "]"
}
