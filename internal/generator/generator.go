// Package generator drives one generation run: validate the settings,
// introspect the table, emit the entity and the optional DAO pair, and hand
// every file to an output.Writer.
package generator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/schemagen/internal/codegen"
	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/logger"
	"github.com/koustreak/schemagen/internal/output"
	"github.com/koustreak/schemagen/internal/schema"
	"github.com/koustreak/schemagen/internal/settings"
)

// State is the position of a run in its lifecycle. Runs only move forward.
type State int

const (
	StateUnconfigured State = iota
	StateValidated
	StateIntrospected
	StateEntityEmitted
	StateDaoEmitted
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateValidated:
		return "validated"
	case StateIntrospected:
		return "introspected"
	case StateEntityEmitted:
		return "entity_emitted"
	case StateDaoEmitted:
		return "dao_emitted"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// File records one written artifact.
type File struct {
	Kind     codegen.Kind `json:"kind"`
	Name     string       `json:"name"`
	Location string       `json:"location"`
	Size     int          `json:"size"`
}

// Report summarises a run. Run returns it on failure too, with State set to
// StateFailed and Files holding whatever was written before the failure.
type Report struct {
	RunID    string    `json:"run_id"`
	Database string    `json:"database"`
	Table    string    `json:"table"`
	State    State     `json:"-"`
	Files    []File    `json:"files"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Result is what Preview produces: the table model and the rendered
// artifacts, nothing written.
type Result struct {
	RunID     string
	Table     *schema.TableInfo
	Artifacts []*codegen.Artifact
	Settings  settings.Settings
}

// catalogCaser is implemented by dialers that know each database's catalog
// casing, such as drivers.Registry.
type catalogCaser interface {
	CatalogCase(name string) database.CatalogCase
}

// Generator holds the collaborators of a run. It keeps no per-run state, so
// concurrent runs are independent.
type Generator struct {
	dialer  database.Dialer
	writer  output.Writer
	emitter *codegen.Emitter
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithEmitter replaces the default codegen.Emitter.
func WithEmitter(e *codegen.Emitter) Option {
	return func(g *Generator) { g.emitter = e }
}

// WithLogger sets the logger runs report to.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithClock sets the clock for report timestamps and the emitted
// generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
		g.emitter = codegen.New(codegen.WithClock(now))
	}
}

// New returns a Generator. writer may be nil when only Preview is used.
func New(dialer database.Dialer, writer output.Writer, opts ...Option) *Generator {
	g := &Generator{
		dialer:  dialer,
		writer:  writer,
		emitter: codegen.New(),
		log:     logger.L(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes a full generation run and writes every artifact.
func (g *Generator) Run(ctx context.Context, s settings.Settings) (*Report, error) {
	report := &Report{
		RunID:    uuid.NewString(),
		Database: s.Database,
		Table:    s.TableName,
		State:    StateUnconfigured,
		Started:  g.now(),
	}
	log := g.log.ForRun(report.RunID, s.Database, s.TableName)
	ctx = log.WithContext(ctx)

	fail := func(err error) (*Report, error) {
		log.With().Str("state", report.State.String()).Err(err).Logger().Error("generation failed")
		report.State = StateFailed
		report.Finished = g.now()
		return report, err
	}

	if g.writer == nil {
		return fail(errs.New(errs.ErrKindConfiguration, "no output writer configured"))
	}

	res, state, err := g.prepare(ctx, s)
	report.State = state
	if err != nil {
		return fail(err)
	}
	log.With().Int("columns", res.Table.ColumnCount).Bool("primary_key", res.Table.HasPrimaryKey).Logger().
		Info("table introspected")

	sep := res.Settings.Separator()
	for _, art := range res.Artifacts {
		content := art.Render(sep)
		loc, err := g.writer.Write(ctx, art.Dir, art.FileName, content)
		if err != nil {
			return fail(err)
		}
		report.Files = append(report.Files, File{Kind: art.Kind, Name: art.FileName, Location: loc, Size: len(content)})
		log.With().Str("kind", string(art.Kind)).Str("location", loc).Logger().
			Infof("[ %s ] generated successful", art.FileName)

		switch art.Kind {
		case codegen.KindEntity:
			report.State = StateEntityEmitted
		case codegen.KindDao:
			report.State = StateDaoEmitted
		}
	}

	report.State = StateDone
	report.Finished = g.now()
	log.With().Int("files", len(report.Files)).Logger().Info("generation finished")
	return report, nil
}

// Preview validates, introspects and emits without writing anything.
func (g *Generator) Preview(ctx context.Context, s settings.Settings) (*Result, error) {
	runID := uuid.NewString()
	log := g.log.ForRun(runID, s.Database, s.TableName)
	res, _, err := g.prepare(log.WithContext(ctx), s)
	if err != nil {
		log.With().Err(err).Logger().Debug("preview failed")
		return nil, err
	}
	res.RunID = runID
	return res, nil
}

// Introspect validates only what introspection needs and loads the table
// model.
func (g *Generator) Introspect(ctx context.Context, db, table string, explicit []string, lenient bool) (*schema.TableInfo, error) {
	if table == "" {
		return nil, errs.WithDetails(errs.ErrKindConfiguration, "required settings missing", []string{settings.LabelTableName})
	}
	return schema.Load(ctx, g.dialer, db, table, explicit, g.schemaOptions(db, lenient))
}

// Tables lists the tables of the database named db.
func (g *Generator) Tables(ctx context.Context, db string) ([]string, error) {
	return schema.ListTables(ctx, g.dialer, db)
}

// prepare runs the states shared by Run and Preview and returns the last
// state reached.
func (g *Generator) prepare(ctx context.Context, s settings.Settings) (*Result, State, error) {
	if err := s.Check(); err != nil {
		return nil, StateUnconfigured, err
	}
	s = s.Normalized()

	table, err := schema.Load(ctx, g.dialer, s.Database, s.TableName, s.Columns, g.schemaOptions(s.Database, s.LenientColumns))
	if err != nil {
		return nil, StateValidated, err
	}

	arts, err := g.emitter.Emit(table, s)
	if err != nil {
		return nil, StateIntrospected, err
	}
	return &Result{Table: table, Artifacts: arts, Settings: s}, StateIntrospected, nil
}

func (g *Generator) schemaOptions(db string, lenient bool) schema.Options {
	opts := schema.Options{Lenient: lenient}
	if cc, ok := g.dialer.(catalogCaser); ok {
		opts.CatalogCase = cc.CatalogCase(db)
	}
	return opts
}
