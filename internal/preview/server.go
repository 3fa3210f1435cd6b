// Package preview serves introspection results and generated sources over
// HTTP without writing anything to disk.
//
//	GET /healthz
//	GET /tables?db=app
//	GET /tables/{table}?db=app&columns=id,name&lenient=true
//	GET /tables/{table}/{artifact}?db=app&base=SCTest&tostring=true
//
// {artifact} is entity, interface or dao. Query parameters override the
// generation defaults the server was started with.
package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/koustreak/schemagen/internal/codegen"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/generator"
	"github.com/koustreak/schemagen/internal/logger"
	"github.com/koustreak/schemagen/internal/naming"
	"github.com/koustreak/schemagen/internal/schema"
	"github.com/koustreak/schemagen/internal/settings"
)

// Default output directories for previews that name none. They only decide
// the package line of the rendered source.
const (
	DefaultEntityDir = "entity"
	DefaultDaoDir    = "dao"
)

// Service is the part of generator.Generator the server uses.
type Service interface {
	Preview(ctx context.Context, s settings.Settings) (*generator.Result, error)
	Introspect(ctx context.Context, db, table string, explicit []string, lenient bool) (*schema.TableInfo, error)
	Tables(ctx context.Context, db string) ([]string, error)
}

// Server routes preview requests to a Service.
type Server struct {
	svc      Service
	defaults settings.Settings
	log      *logger.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer returns a server whose previews start from defaults.
func NewServer(svc Service, defaults settings.Settings, opts ...Option) *Server {
	s := &Server{svc: svc, defaults: defaults, log: logger.L()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errs.New(errs.ErrKindNotFound, "no such route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed", Kind: "invalid_input"})
	})

	r.Get("/healthz", s.health)
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.listTables)
		r.Get("/{table}", s.describeTable)
		r.Get("/{table}/{artifact}", s.renderArtifact)
	})

	s.router = r
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	db := s.database(r)
	tables, err := s.svc.Tables(r.Context(), db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"database": db, "tables": tables})
}

func (s *Server) describeTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lenient, err := boolParam(q.Get("lenient"), s.defaults.LenientColumns)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	explicit := s.defaults.Columns
	if q.Has("columns") {
		explicit = schema.ParseColumnList(q.Get("columns"))
	}

	info, err := s.svc.Introspect(r.Context(), s.database(r), chi.URLParam(r, "table"), explicit, lenient)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) renderArtifact(w http.ResponseWriter, r *http.Request) {
	kind, ok := codegen.ParseKind(chi.URLParam(r, "artifact"))
	if !ok {
		s.fail(w, r, errs.Newf(errs.ErrKindNotFound, "unknown artifact %q (want %s)",
			chi.URLParam(r, "artifact"), strings.Join(kindNames(), ", ")))
		return
	}

	st, err := s.settingsFor(r, kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.Preview(r.Context(), st)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for _, art := range res.Artifacts {
		if art.Kind != kind {
			continue
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Artifact-Name", art.FileName)
		w.Header().Set("X-Run-Id", res.RunID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(art.Render(res.Settings.Separator()))
		return
	}
	s.fail(w, r, errs.Newf(errs.ErrKindNotFound, "no %s artifact emitted", kind))
}

// settingsFor layers the query parameters over the server defaults.
func (s *Server) settingsFor(r *http.Request, kind codegen.Kind) (settings.Settings, error) {
	q := r.URL.Query()
	st := s.defaults
	st.Columns = append([]string(nil), s.defaults.Columns...)
	st.TableName = chi.URLParam(r, "table")
	st.Database = s.database(r)

	if v := q.Get("base"); v != "" {
		st.DomainObjectName = v
	}
	if strings.TrimSpace(st.DomainObjectName) == "" {
		st.DomainObjectName = naming.ToPascal(st.TableName)
	}
	if q.Has("columns") {
		st.Columns = schema.ParseColumnList(q.Get("columns"))
	}
	if v := q.Get("naming"); v != "" {
		st.NamingConvention = naming.Convention(v)
	}
	if v := q.Get("mapped"); v != "" {
		st.MappedType = settings.MappedType(v)
	}
	if v := q.Get("persistence"); v != "" {
		st.PersistencePackage = v
	}
	if v := q.Get("sep"); v != "" {
		st.LineSeparator = v
	}

	var err error
	if st.WithToString, err = boolParam(q.Get("tostring"), st.WithToString); err != nil {
		return st, err
	}
	if st.LenientColumns, err = boolParam(q.Get("lenient"), st.LenientColumns); err != nil {
		return st, err
	}

	for _, p := range []struct {
		param string
		dst   *string
		def   string
	}{
		{"entity_path", &st.EntityPath, DefaultEntityDir},
		{"interface_path", &st.InterfacePath, DefaultDaoDir},
		{"dao_path", &st.DaoPath, DefaultDaoDir},
	} {
		if v := q.Get(p.param); v != "" {
			*p.dst = v
		}
		if strings.TrimSpace(*p.dst) == "" {
			*p.dst = p.def
		}
	}

	st.NeedDao = kind != codegen.KindEntity
	return st, nil
}

func (s *Server) database(r *http.Request) string {
	if db := r.URL.Query().Get("db"); db != "" {
		return db
	}
	return s.defaults.Database
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	log := logger.FromContext(r.Context()).With().Int("status", status).Err(err).Logger()
	if status >= http.StatusInternalServerError {
		log.Error("preview failed")
	} else {
		log.Debug("preview rejected")
	}
	writeError(w, err)
}

// logRequests logs one line per request and hands handlers a logger
// carrying the request id.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		ctx := s.log.With().Str("request_id", reqID).Logger().WithContext(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.log.HTTPEvent().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// statusOf maps an error chain onto a response status. A NotFound anywhere
// in the chain wins over the outer kind, so an unknown table reads as 404
// when the backend says so.
func statusOf(err error) int {
	switch {
	case errs.HasKind(err, errs.ErrKindNotFound):
		return http.StatusNotFound
	case errs.HasKind(err, errs.ErrKindConfiguration), errs.HasKind(err, errs.ErrKindInvalidInput):
		return http.StatusBadRequest
	case errs.HasKind(err, errs.ErrKindSchema), errs.HasKind(err, errs.ErrKindConsistency):
		return http.StatusUnprocessableEntity
	case errs.HasKind(err, errs.ErrKindTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorBody{
		Error:   err.Error(),
		Kind:    errs.KindOf(err).String(),
		Details: errs.DetailsOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errs.Newf(errs.ErrKindInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func kindNames() []string {
	names := make([]string, len(codegen.Kinds))
	for i, k := range codegen.Kinds {
		names[i] = string(k)
	}
	return names
}
