package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/koustreak/schemagen/internal/schema"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		db      string
		table   string
		columns []string
		lenient bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "print the introspected model of a table, or list the tables of a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaults := a.cfg.Settings()
			if db == "" {
				db = defaults.Database
			}
			if !cmd.Flags().Changed("columns") {
				columns = defaults.Columns
			}
			gen := a.generator(nil)

			if table == "" {
				tables, err := gen.Tables(cmd.Context(), db)
				if err != nil {
					return err
				}
				printTables(cmd.OutOrStdout(), db, tables)
				return nil
			}

			info, err := gen.Introspect(cmd.Context(), db, table, columns, lenient || defaults.LenientColumns)
			if err != nil {
				return err
			}
			printTableInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "configured database (default: generation.database)")
	cmd.Flags().StringVar(&table, "table", "", "table to describe; lists all tables when empty")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "explicit column list")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "accept an explicit column list longer than the described columns")
	return cmd
}

func printTables(w io.Writer, db string, tables []string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"#", "table"})
	for i, name := range tables {
		t.Append([]string{strconv.Itoa(i + 1), name})
	}
	t.Render()
	fmt.Fprintf(w, "%d tables in %s\n", len(tables), db)
}

func printTableInfo(w io.Writer, info *schema.TableInfo) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"column", "field", "sql type", "value class", "java type", "key", "remarks"})
	for _, c := range info.Columns.List() {
		key := ""
		if c.IsPrimaryKey {
			key = "PK"
		}
		t.Append([]string{c.Name, c.DisplayName, c.SQLType, c.ValueClass, c.ScalarType, key, c.RemarksOr("")})
	}
	t.Render()
	fmt.Fprintf(w, "%s: %d columns, primary key %v, imports %v\n",
		info.TableName, info.ColumnCount, info.HasPrimaryKey, info.Imports.Paths())
}
