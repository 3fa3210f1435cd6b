// Package drivers maps configured database names onto the concrete mysql,
// postgres and sqlite implementations.
package drivers

import (
	"context"
	"sort"

	"github.com/koustreak/schemagen/internal/database"
	"github.com/koustreak/schemagen/internal/database/mysql"
	"github.com/koustreak/schemagen/internal/database/postgres"
	"github.com/koustreak/schemagen/internal/database/sqlite"
	"github.com/koustreak/schemagen/internal/errs"
)

// Registry is a database.Dialer over a fixed set of named configurations.
type Registry struct {
	configs map[string]*database.Config
}

// NewRegistry copies configs so later changes by the caller do not leak in.
func NewRegistry(configs map[string]*database.Config) *Registry {
	r := &Registry{configs: make(map[string]*database.Config, len(configs))}
	for name, cfg := range configs {
		if cfg == nil {
			continue
		}
		c := *cfg
		r.configs[name] = &c
	}
	return r
}

// Names returns the configured database names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for n := range r.configs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Config returns the configuration registered under name.
func (r *Registry) Config(name string) (*database.Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, errs.Newf(errs.ErrKindConfiguration, "unknown database %q (configured: %v)", name, r.Names())
	}
	return cfg, nil
}

// CatalogCase returns the catalog casing configured for name.
func (r *Registry) CatalogCase(name string) database.CatalogCase {
	if cfg, ok := r.configs[name]; ok {
		return cfg.CatalogCase
	}
	return database.CatalogPreserve
}

// Dial opens a connection to the database registered under name.
func (r *Registry) Dial(ctx context.Context, name string) (database.Conn, error) {
	cfg, err := r.Config(name)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg)
}

// Open connects using cfg.Driver to pick the implementation.
func Open(ctx context.Context, cfg *database.Config) (database.Conn, error) {
	var (
		conn database.Conn
		err  error
	)
	switch cfg.Driver {
	case database.DriverMySQL:
		conn, err = asConn(mysql.New(ctx, cfg))
	case database.DriverPostgres:
		conn, err = asConn(postgres.New(ctx, cfg))
	case database.DriverSQLite:
		conn, err = asConn(sqlite.New(ctx, cfg))
	default:
		return nil, errs.Newf(errs.ErrKindConfiguration, "unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// asConn drops the typed nil a failed constructor returns.
func asConn[T database.Conn](c T, err error) (database.Conn, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
