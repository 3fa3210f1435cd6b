// Package cmd holds the schemagen command tree.
package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/koustreak/schemagen/internal/config"
	"github.com/koustreak/schemagen/internal/database/drivers"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/filestore/minio"
	"github.com/koustreak/schemagen/internal/generator"
	"github.com/koustreak/schemagen/internal/logger"
	"github.com/koustreak/schemagen/internal/output"
)

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "schemagen",
		Short: "Generate JPA entities and DAO pairs from database tables",
		Long: "schemagen introspects a table of a configured database and writes a JPA entity " +
			"for it, optionally with a DAO interface and implementation. Settings come from " +
			"the config file, SCHEMAGEN_* environment variables, flags or an interactive session.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./schemagen.yaml or $HOME/.config/schemagen/schemagen.yaml)")
	flags.String("log-format", "console", "logging format [console|json]")
	flags.String("log-level", zerolog.LevelInfoValue,
		fmt.Sprintf(
			"logging level [%s|%s|%s|%s]",
			zerolog.LevelDebugValue,
			zerolog.LevelInfoValue,
			zerolog.LevelWarnValue,
			zerolog.LevelErrorValue,
		),
	)
	cobra.CheckErr(a.v.BindPFlag("log.format", flags.Lookup("log-format")))
	cobra.CheckErr(a.v.BindPFlag("log.level", flags.Lookup("log-level")))

	root.AddCommand(newGenCmd(a))
	root.AddCommand(newInteractiveCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

// init loads the configuration and installs the logger before any command
// runs.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	cfg.Log.Output = cmd.ErrOrStderr()

	a.cfg = cfg
	a.log = logger.New(&cfg.Log)
	logger.SetGlobal(a.log)
	a.log.With().Str("config", a.v.ConfigFileUsed()).Int("databases", len(cfg.Databases)).Logger().
		Debug("configuration loaded")
	return nil
}

// generator wires a Generator over the configured databases.
func (a *app) generator(w output.Writer) *generator.Generator {
	return generator.New(drivers.NewRegistry(a.cfg.Databases), w, generator.WithLogger(a.log))
}

// writer builds the configured output writer. The returned close func
// releases the object store client, if any.
func (a *app) writer(ctx context.Context) (output.Writer, func() error, error) {
	out := a.cfg.Output
	switch out.Kind {
	case config.OutputMinio:
		store, err := minio.New(ctx, &out.Minio)
		if err != nil {
			return nil, nil, err
		}
		opts := []output.ObjectOption{output.WithPrefix(out.Minio.Prefix)}
		if out.PresignTTL > 0 {
			opts = append(opts, output.WithPresignedLocations(out.PresignTTL))
		}
		return output.NewObjectWriter(store, out.Minio.Bucket, opts...), store.Close, nil
	case config.OutputDir, "":
		return output.NewDirWriter(out.Root), func() error { return nil }, nil
	default:
		return nil, nil, errs.Newf(errs.ErrKindConfiguration, "unknown output kind %q", out.Kind)
	}
}
