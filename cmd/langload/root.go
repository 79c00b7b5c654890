package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ava12/langload/catalog"
	"github.com/ava12/langload/internal/config"
	"github.com/ava12/langload/internal/logutil"
	"github.com/ava12/langload/loader"
)

type app struct {
	fs      afero.Fs
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
	catalog *catalog.Catalog
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	root := &cobra.Command{
		Use:               "langload",
		Short:             "Inspect and check GtkSourceView language definitions",
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/langload/config.yaml)")
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(newListCmd(a), newMetaCmd(a), newCheckCmd(a), newDumpCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, e := config.Load(a.fs, a.cfgFile, cmd.Flags())
	if e != nil {
		return fmt.Errorf("loading configuration: %w", e)
	}

	level, _ := logutil.ParseLevel(cfg.Log.Level)
	a.cfg = cfg
	a.log = logutil.NewLogger(cmd.ErrOrStderr(), level)
	a.catalog = catalog.New(a.fs, cfg.SearchPaths...)
	a.catalog.SetLogger(a.log)
	if e := a.catalog.Scan(); e != nil {
		a.log.Warn("some language directories cannot be read", "error", e)
	}
	return nil
}

func (a *app) newLoader() *loader.Loader {
	return loader.New(a.catalog,
		loader.WithFs(a.fs),
		loader.WithLogger(a.log),
		loader.WithThemeStyles(a.cfg.ThemeStyles),
	)
}
