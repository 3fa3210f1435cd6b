package generator

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemagen/internal/codegen"
	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/database/drivers"
	"github.com/koustreak/schemagen/internal/database/sqlite"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/logger"
	"github.com/koustreak/schemagen/internal/output"
	"github.com/koustreak/schemagen/internal/settings"
)

var fixedClock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

// newRegistry creates a SQLite file holding SCTYPE and returns a registry
// that knows it as "app".
func newRegistry(t *testing.T) *drivers.Registry {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open(sqlite.DriverName, dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE SCTYPE (ID INTEGER PRIMARY KEY, NAME VARCHAR(40), PRICE DECIMAL(10,2))`)
	require.NoError(t, err)
	// Stored in mixed case for the DAO pair test.
	_, err = db.Exec(`CREATE TABLE SCKIND (id INTEGER PRIMARY KEY, typeName VARCHAR(40))`)
	require.NoError(t, err)

	return drivers.NewRegistry(map[string]*database.Config{
		"app": database.DefaultConfig(database.DriverSQLite, dsn),
	})
}

func runSettings(root string) settings.Settings {
	s := settings.Default()
	s.DomainObjectName = "SCTest"
	s.Database = "app"
	s.TableName = "SCTYPE"
	s.EntityPath = filepath.Join(root, "src", "main", "java", "com", "acme", "entity")
	s.InterfacePath = filepath.Join(root, "src", "main", "java", "com", "acme", "dao")
	s.DaoPath = s.InterfacePath
	s.Author = "kou"
	return s
}

func TestRun_EntityOnly(t *testing.T) {
	root := t.TempDir()
	var logs bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: "json", Output: &logs})

	g := New(newRegistry(t), output.NewDirWriter(""), WithClock(fixedClock), WithLogger(log))
	report, err := g.Run(context.Background(), runSettings(root))
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Files, 1)
	assert.Equal(t, codegen.KindEntity, report.Files[0].Kind)

	want := filepath.Join(root, "src", "main", "java", "com", "acme", "entity", "SCTestEntity.java")
	assert.Equal(t, want, report.Files[0].Location)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	src := string(data)
	assert.Contains(t, src, "package com.acme.entity;")
	assert.Contains(t, src, "import java.math.BigDecimal;")
	assert.Contains(t, src, "@Table(name=\"SCTYPE\")")
	assert.Contains(t, src, "\t@Id\n\t@GeneratedValue(strategy=GenerationType.IDENTITY)\n\t@Column(name=\"ID\")\n\tprivate Integer id;")
	assert.Contains(t, src, "\t@Column(name=\"NAME\")\n\tprivate String name;")
	assert.Contains(t, src, "Remarks: NONE")
	assert.Equal(t, len(data), report.Files[0].Size)

	assert.Contains(t, logs.String(), report.RunID)
	assert.Contains(t, logs.String(), "[ SCTestEntity.java ] generated successful")
	assert.Contains(t, logs.String(), `"table":"SCTYPE"`)
}

func TestRun_WithDaoAndExplicitColumns(t *testing.T) {
	root := t.TempDir()
	s := runSettings(root)
	s.NeedDao = true
	s.TableName = "SCKIND"
	s.Columns = []string{"id", "typeName"}
	s.LineSeparator = "crlf"

	g := New(newRegistry(t), output.NewDirWriter(""), WithClock(fixedClock), WithLogger(logger.Nop()))
	report, err := g.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, report.Files, 3)
	assert.Equal(t, []codegen.Kind{codegen.KindEntity, codegen.KindInterface, codegen.KindDao},
		[]codegen.Kind{report.Files[0].Kind, report.Files[1].Kind, report.Files[2].Kind})

	entity, err := os.ReadFile(report.Files[0].Location)
	require.NoError(t, err)
	assert.Contains(t, string(entity), "public String getTypeName() {\r\n")

	dao, err := os.ReadFile(report.Files[2].Location)
	require.NoError(t, err)
	assert.Contains(t, string(dao), "import com.acme.dao.ISCTestDao;\r\nimport com.acme.entity.SCTestEntity;\r\n")
	assert.Contains(t, string(dao), "public class SCTestDao implements ISCTestDao {")
}

func TestRun_Deterministic(t *testing.T) {
	reg := newRegistry(t)
	g := New(reg, output.NewDirWriter(""), WithClock(fixedClock), WithLogger(logger.Nop()))

	first, err := g.Run(context.Background(), runSettings(t.TempDir()))
	require.NoError(t, err)
	second, err := g.Run(context.Background(), runSettings(t.TempDir()))
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)

	a, _ := os.ReadFile(first.Files[0].Location)
	b, _ := os.ReadFile(second.Files[0].Location)
	assert.Equal(t, a, b)
}

func TestRun_MissingSettings(t *testing.T) {
	dialed := false
	dialer := database.DialerFunc(func(ctx context.Context, name string) (database.Conn, error) {
		dialed = true
		return nil, errs.New(errs.ErrKindConnectionFailed, "unreachable")
	})

	s := settings.Default()
	s.DomainObjectName = "SCTest"

	report, err := New(dialer, output.NewDirWriter(""), WithLogger(logger.Nop())).Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Equal(t, []string{settings.LabelTableName, settings.LabelEntityPath}, errs.DetailsOf(err))
	assert.Equal(t, StateFailed, report.State)
	assert.False(t, dialed, "nothing touches the database before validation passes")
}

func TestRun_UnknownTableWritesNothing(t *testing.T) {
	root := t.TempDir()
	s := runSettings(root)
	s.TableName = "NOPE"

	report, err := New(newRegistry(t), output.NewDirWriter(""), WithLogger(logger.Nop())).Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errs.IsSchema(err))
	assert.Equal(t, StateFailed, report.State)
	assert.Empty(t, report.Files)

	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries)
}

func TestRun_UnknownDatabase(t *testing.T) {
	s := runSettings(t.TempDir())
	s.Database = "missing"

	_, err := New(newRegistry(t), output.NewDirWriter(""), WithLogger(logger.Nop())).Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

// failingWriter accepts the first n writes, then fails.
type failingWriter struct {
	n     int
	names []string
}

func (w *failingWriter) Write(ctx context.Context, dir, name string, content []byte) (string, error) {
	if len(w.names) >= w.n {
		return "", errs.New(errs.ErrKindIO, "disk full")
	}
	w.names = append(w.names, name)
	return "/mem/" + name, nil
}

func TestRun_WriteFailureStopsEmission(t *testing.T) {
	s := runSettings(t.TempDir())
	s.NeedDao = true
	w := &failingWriter{n: 2}

	report, err := New(newRegistry(t), w, WithLogger(logger.Nop())).Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errs.IsIO(err))
	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, []string{"SCTestEntity.java", "ISCTestDao.java"}, w.names)
	assert.Len(t, report.Files, 2)
}

func TestRun_NoWriter(t *testing.T) {
	_, err := New(newRegistry(t), nil, WithLogger(logger.Nop())).Run(context.Background(), runSettings(t.TempDir()))
	assert.True(t, errs.IsConfiguration(err))
}

func TestPreview(t *testing.T) {
	s := runSettings(t.TempDir())
	s.NeedDao = true

	res, err := New(newRegistry(t), nil, WithClock(fixedClock), WithLogger(logger.Nop())).Preview(context.Background(), s)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Table.ColumnCount)
	assert.True(t, res.Table.HasPrimaryKey)
	require.Len(t, res.Artifacts, 3)
	assert.Equal(t, "ISCTestDao", res.Artifacts[1].Name)

	_, err = os.Stat(s.EntityPath)
	assert.True(t, os.IsNotExist(err), "preview writes nothing")
}

func TestPreview_RecasedExplicitColumns(t *testing.T) {
	s := runSettings(t.TempDir())
	s.Columns = []string{"id", "name"}

	res, err := New(newRegistry(t), nil, WithClock(fixedClock), WithLogger(logger.Nop())).Preview(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "NAME"}, res.Table.Columns.Names(), "stored names")
	assert.Equal(t, []string{"ID"}, res.Table.PrimaryKeys())

	require.Len(t, res.Artifacts, 1)
	src := string(res.Artifacts[0].Render("\n"))
	assert.Contains(t, src, "\t@Id\n\t@GeneratedValue(strategy=GenerationType.IDENTITY)\n\t@Column(name=\"ID\")\n\tprivate Integer id;")
	assert.Contains(t, src, "\t@Column(name=\"NAME\")\n\tprivate String name;")
	assert.Contains(t, src, "public Integer getId() {")
	assert.Contains(t, src, "public String getName() {")
}

func TestIntrospect(t *testing.T) {
	g := New(newRegistry(t), nil, WithLogger(logger.Nop()))

	table, err := g.Introspect(context.Background(), "app", "SCTYPE", []string{"ID", "NAME"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "NAME"}, table.Columns.Names())
	assert.Equal(t, []string{"ID"}, table.PrimaryKeys())

	_, err = g.Introspect(context.Background(), "app", "", nil, false)
	assert.True(t, errs.IsConfiguration(err))
}

func TestTables(t *testing.T) {
	g := New(newRegistry(t), nil, WithLogger(logger.Nop()))

	tables, err := g.Tables(context.Background(), "app")
	require.NoError(t, err)
	assert.Equal(t, []string{"SCKIND", "SCTYPE"}, tables)

	_, err = g.Tables(context.Background(), "missing")
	assert.True(t, errs.IsConfiguration(err))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "entity_emitted", StateEntityEmitted.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
