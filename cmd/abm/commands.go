package main

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/check"
	"github.com/nikbrunner/abm/internal/exporter"
	"github.com/nikbrunner/abm/internal/importer"
	"github.com/nikbrunner/abm/internal/picker"
	"github.com/nikbrunner/abm/internal/search"
	"github.com/nikbrunner/abm/internal/view"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Bookmark files or folders of the project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			failed := 0
			for _, p := range args {
				a, err := ws.registry.Lookup(p)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s: %v\n", p, err)
					failed++
					continue
				}
				_, added, err := ws.store.Add(a.Ref)
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(out, "Added %s\n", a.Ref)
				} else {
					fmt.Fprintf(out, "Already bookmarked: %s\n", a.Ref)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d paths could not be added", failed, len(args))
			}
			return nil
		},
	}
}

// refFor accepts either a stored reference or a path into the project.
func refFor(ws *workspace, arg string) (asset.Ref, bool) {
	if ws.store.ContainsRef(asset.Ref(arg)) {
		return asset.Ref(arg), true
	}
	ref, err := ws.registry.RefFor(arg)
	if err != nil {
		return "", false
	}
	return ref, ws.store.ContainsRef(ref)
}

func newRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <ref|path>...",
		Aliases: []string{"rm"},
		Short:   "Remove bookmarks by reference or path",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				ref, ok := refFor(ws, arg)
				if !ok {
					fmt.Fprintf(out, "Not bookmarked: %s\n", arg)
					continue
				}
				if err := ws.store.RemoveRef(ref); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %s\n", ref)
			}
			return nil
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks, including missing ones",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			v, err := ws.newView(c.host, "")
			if err != nil {
				return err
			}
			if v.Display().Empty {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
				return nil
			}

			if tree {
				fmt.Fprintln(cmd.OutOrStdout(), exporter.RenderTree(refOrder(v.Rows()), ws.name()))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), exporter.RenderTable(v.Rows()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "render as a directory tree")
	return cmd
}

// refOrder sorts rows by reference so tree siblings come out in path order.
func refOrder(rows []view.Row) []view.Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b view.Row) int {
		return cmp.Compare(a.Ref, b.Ref)
	})
	return out
}

// checkJobs is the default number of concurrent asset checks.
const checkJobs = 8

func newCheckCmd(c *cli) *cobra.Command {
	var jobs int
	var progress bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report bookmarks whose asset is missing or whose reference is invalid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			errOut := cmd.ErrOrStderr()
			if !cmd.Flags().Changed("progress") {
				progress = isTerminal(errOut)
			}
			var onProgress check.ProgressFunc
			if progress {
				onProgress = func(completed, total int) {
					fmt.Fprintf(errOut, "\rChecking %d/%d", completed, total)
					if completed == total {
						fmt.Fprintln(errOut)
					}
				}
			}

			results := check.Entries(ws.store.Entries(), ws.registry, jobs, onProgress)
			out := cmd.OutOrStdout()
			for _, r := range check.Failed(results) {
				fmt.Fprintf(out, "%-8s %s\n", r.Status, r.Entry.Ref)
			}
			sum := check.Summarize(results)
			fmt.Fprintf(out, "%d ok, %d missing, %d invalid\n", sum.OK, sum.Missing, sum.Invalid)
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", checkJobs, "number of concurrent checks")
	cmd.Flags().BoolVar(&progress, "progress", false, "show progress on stderr (default when stderr is a terminal)")
	return cmd
}

func newPruneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove bookmarks whose asset no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			failed := check.Failed(check.Entries(ws.store.Entries(), ws.registry, checkJobs, nil))

			changed, err := ws.store.Prune()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintln(out, "Nothing to prune")
				return nil
			}
			for _, r := range failed {
				fmt.Fprintf(out, "Removed %s (%s)\n", r.Entry.Ref, r.Status)
			}
			if len(failed) == 1 {
				fmt.Fprintln(out, "Pruned 1 missing bookmark")
			} else {
				fmt.Fprintf(out, "Pruned %d missing bookmarks\n", len(failed))
			}
			return nil
		},
	}
}

func newOpenCmd(c *cli) *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "open <query>...",
		Short: "Fuzzy find a bookmark by name and open it",
		Long: `Fuzzy find a bookmark by name. A single or exact match is opened
directly, otherwise a picker is shown. Folders are revealed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			v, err := ws.newView(c.host, "")
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := search.FuzzySearchRows(v.Rows(), query)
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No bookmarks found for '%s'\n", query)
				return nil
			}

			var row view.Row
			if exact, ok := search.Exact(results, query); ok {
				row = exact.Row
			} else if len(results) == 1 {
				row = results[0].Row
			} else {
				p := picker.New(results, query)
				finalModel, err := tea.NewProgram(p, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(out)).Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}
				selected, ok := finalModel.(picker.Picker).Selected()
				if !ok {
					return nil
				}
				row = selected
			}

			if reveal {
				fmt.Fprintf(out, "Revealing: %s\n", row.Ref)
				return v.Dispatch(row.ID, view.ColumnPing)
			}
			fmt.Fprintf(out, "Opening: %s\n", row.Ref)
			return v.DoubleClick(row.ID)
		},
	}
	cmd.Flags().BoolVarP(&reveal, "reveal", "r", false, "reveal in the file manager instead of opening")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import file:// links from a Netscape bookmark file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := importer.ParseHTMLBookmarks(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			var added, existing, rejected int
			for _, link := range result.Links {
				a, err := ws.registry.Lookup(link.Path)
				if err != nil {
					rejected++
					continue
				}
				_, ok, err := ws.store.Add(a.Ref)
				if err != nil {
					return err
				}
				if ok {
					added++
				} else {
					existing++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d bookmarks", added)
			var notes []string
			if existing > 0 {
				notes = append(notes, fmt.Sprintf("%d already bookmarked", existing))
			}
			if rejected > 0 {
				notes = append(notes, fmt.Sprintf("%d outside the project or missing", rejected))
			}
			if result.Skipped > 0 {
				notes = append(notes, fmt.Sprintf("%d non-file links skipped", result.Skipped))
			}
			if len(notes) > 0 {
				fmt.Fprintf(out, " (%s)", strings.Join(notes, ", "))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to a Netscape bookmark file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				outputPath, err = exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			v, err := ws.newView(c.host, "")
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, []byte(exporter.ExportHTML(v.Rows(), ws.name())), 0644); err != nil {
				return err
			}

			exported := len(v.Visible())
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks to %s\n", exported, outputPath)
			if missing := len(v.Rows()) - exported; missing > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d missing bookmarks were not exported\n", missing)
			}
			return nil
		},
	}
}

func newRefsCmd(c *cli) *cobra.Command {
	refs := &cobra.Command{
		Use:   "refs",
		Short: "Print the raw bookmarked references, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			snap := ws.store.Snapshot()
			for _, ref := range snap.Refs() {
				fmt.Fprintln(cmd.OutOrStdout(), ref)
			}
			return nil
		},
	}

	refs.AddCommand(&cobra.Command{
		Use:   "set [file|-]",
		Short: "Replace the bookmarked references with the lines of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 0 && isTerminal(in) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Enter references, one per line. End with Ctrl-D.")
			}
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			lines, err := readRefLines(in)
			if err != nil {
				return err
			}

			ws, err := c.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			changed, err := ws.store.ReplaceRefs(lines)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d references\n", ws.store.Len())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes")
			}
			return nil
		},
	})
	return refs
}

// readRefLines reads one reference per non-blank line.
func readRefLines(r io.Reader) ([]asset.Ref, error) {
	var refs []asset.Ref
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		refs = append(refs, asset.Ref(filepath.ToSlash(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read references: %w", err)
	}
	return refs, nil
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
