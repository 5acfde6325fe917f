package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/abm/internal/history"
	"github.com/nikbrunner/abm/internal/storage"
	"github.com/nikbrunner/abm/internal/tui"
	"github.com/nikbrunner/abm/internal/watch"
	"github.com/spf13/cobra"
)

// defaultLogFile is used when ABM_DEBUG is set without --log.
const defaultLogFile = "abm-debug.log"

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "abm",
		Short: "Asset bookmark panel for a project directory",
		Long: `abm keeps a list of bookmarked files and folders of a project and
shows them as a sortable, searchable panel.

Bookmarks are stored per project in UserSettings/abm/.
Run without a subcommand to open the interactive panel.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&c.project, "project", "C", ".", "project directory")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/abm/config.json)")
	root.Flags().StringVar(&c.logPath, "log", "", "write debug log to this file")

	root.AddCommand(
		newAddCmd(c),
		newRemoveCmd(c),
		newListCmd(c),
		newCheckCmd(c),
		newPruneCmd(c),
		newOpenCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newRefsCmd(c),
	)
	return root
}

// runTUI runs the full interactive panel.
func (c *cli) runTUI(ctx context.Context) error {
	logPath := c.logPath
	if logPath == "" && os.Getenv("ABM_DEBUG") != "" {
		logPath = defaultLogFile
	}
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "abm")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ws, err := c.open()
	if err != nil {
		return err
	}
	defer ws.Close()

	journal := history.New(ws.store, history.DefaultLimit)
	ws.store.SetRecorder(journal)

	session := storage.OpenSession(storage.ProjectSessionPath(ws.registry.Root()))
	v, err := ws.newView(c.host, session.GetString(storage.SessionKeySearch, ""))
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if ws.config.ShouldWatchAssets() {
		watcher, err = watch.New()
		if err != nil {
			log.Printf("asset watching disabled: %v", err)
			watcher = nil
		} else {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			defer watcher.Close()
			go watcher.Run(ctx)
		}
	}

	app := tui.NewApp(tui.AppParams{
		Store:         ws.store,
		View:          v,
		Journal:       journal,
		Registry:      ws.registry,
		Session:       session,
		Watcher:       watcher,
		ConfirmRemove: ws.config.ConfirmRemove,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run panel: %w", err)
	}
	v.Detach()
	return nil
}
