package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/manager"
	"github.com/prettyresults/prettyresults/internal/results"
)

// addOptions holds the flags shared by the add subcommands.
type addOptions struct {
	parent string
	labels []string
	pre    string
	post   string
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add results to a results directory",
		Long: `Add containers, figures and tables to a results directory.

Each subcommand loads data.json (creating the directory when needed),
adds one result under --parent and writes data.json back. Ids are
qualified by their parent: adding "fits" under root creates "root.fits".`,
		Example: `  prettyresults add container results fits "Model fits" --label success:converged
  prettyresults add figure results curve "Fitted curve" curve.png --parent root.fits
  prettyresults add table results coeffs "Coefficients" --csv coeffs.csv
  prettyresults add keyvalue results summary "Summary" n=120 r2=0.93
  prettyresults add skeleton results layout.yaml`,
	}

	cmd.PersistentFlags().StringVar(&opts.parent, "parent", string(manager.RootID), "Qualified id of the parent container")
	cmd.PersistentFlags().StringArrayVar(&opts.labels, "label", nil, "Label as color:text (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.pre, "pre", "", "Text shown before a table")
	cmd.PersistentFlags().StringVar(&opts.post, "post", "", "Text shown after a table")

	cmd.AddCommand(newAddContainerCmd(&opts))
	cmd.AddCommand(newAddFigureCmd(&opts))
	cmd.AddCommand(newAddTableCmd(&opts))
	cmd.AddCommand(newAddKeyValueCmd(&opts))
	cmd.AddCommand(newAddSkeletonCmd())

	return cmd
}

func newAddContainerCmd(opts *addOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "container <results-dir> <id> <name>",
		Short: "Add a container",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], *opts, func(parent *manager.Container, addOpts []manager.AddOption) (results.ID, error) {
				c, err := parent.AddContainer(args[1], args[2], addOpts...)
				if err != nil {
					return "", err
				}
				return c.ID(), nil
			})
		},
	}
}

func newAddFigureCmd(opts *addOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "figure <results-dir> <id> <name> <image>",
		Short: "Add a figure, copying the image into the results directory",
		Long: `Add a figure. The image is copied to <qualified id>.<ext> inside the
results directory, keeping the extension of the source file.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := os.ReadFile(args[3])
			if err != nil {
				return prerrors.IOError("failed to read image "+args[3], err)
			}
			ext := filepath.Ext(args[3])
			if ext == "" {
				return prerrors.ValidationError("image "+args[3]+" has no extension", nil).
					WithSuggestion("Name the image after its format, e.g. curve.png")
			}
			return runAdd(cmd, args[0], *opts, func(parent *manager.Container, addOpts []manager.AddOption) (results.ID, error) {
				r, err := parent.AddFigure(args[1], args[2], img, append(addOpts, manager.WithFormat(ext))...)
				if err != nil {
					return "", err
				}
				return r.ID(), nil
			})
		},
	}
}

func newAddTableCmd(opts *addOptions) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "table <results-dir> <id> <name>",
		Short: "Add a table read from CSV",
		Long: `Add a table. The first CSV record holds the headings; every other record
is a row and must have one cell per heading. Use --csv - to read stdin.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			headings, rows, err := readCSV(cmd, csvPath)
			if err != nil {
				return err
			}
			return runAdd(cmd, args[0], *opts, func(parent *manager.Container, addOpts []manager.AddOption) (results.ID, error) {
				r, err := parent.AddTable(args[1], args[2], headings, rows, addOpts...)
				if err != nil {
					return "", err
				}
				return r.ID(), nil
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with a heading record (required)")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func newAddKeyValueCmd(opts *addOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keyvalue <results-dir> <id> <name> [key=value...]",
		Short: "Add a two-column name/value table",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([][]string, 0, len(args)-3)
			for _, arg := range args[3:] {
				k, v, ok := strings.Cut(arg, "=")
				if !ok {
					return prerrors.ValidationError("expected key=value, got "+arg, nil)
				}
				values = append(values, []string{k, v})
			}
			return runAdd(cmd, args[0], *opts, func(parent *manager.Container, addOpts []manager.AddOption) (results.ID, error) {
				r, err := parent.AddKeyValueTable(args[1], args[2], values, addOpts...)
				if err != nil {
					return "", err
				}
				return r.ID(), nil
			})
		},
	}
}

func newAddSkeletonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skeleton <results-dir> <layout.yaml>",
		Short: "Create nested containers from a YAML layout",
		Long: `Create a tree of empty containers under root. The layout is a YAML
list of containers, each with an id, a name and optional children:

  - id: fits
    name: Model fits
    children:
      - id: linear
        name: Linear`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return prerrors.IOError("failed to read layout "+args[1], err)
			}
			var specs []manager.ContainerSpec
			if err := yaml.Unmarshal(data, &specs); err != nil {
				return prerrors.ValidationError("failed to parse layout", err).
					WithDetail("path", args[1])
			}

			m, err := openForAdd(args[0])
			if err != nil {
				return err
			}
			if err := m.CreateContainers(specs); err != nil {
				return err
			}
			if err := m.Dump(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d results in %s\n", m.Len(), m.DataPath())
			return nil
		},
	}
}

// addFunc adds one result under parent and returns its qualified id.
type addFunc func(parent *manager.Container, opts []manager.AddOption) (results.ID, error)

func runAdd(cmd *cobra.Command, dir string, opts addOptions, add addFunc) error {
	addOpts, err := opts.addOptions()
	if err != nil {
		return err
	}

	m, err := openForAdd(dir)
	if err != nil {
		return err
	}
	parent, err := m.Container(results.ID(opts.parent))
	if err != nil {
		return err
	}

	id, err := add(parent, addOpts)
	if err != nil {
		return err
	}
	if err := m.Dump(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", id)
	return nil
}

// openForAdd opens dir for writing. An unreadable data.json is an error
// rather than a fresh start, so adding never discards existing results.
func openForAdd(dir string) (*manager.Manager, error) {
	path := filepath.Join(dir, manager.DataFileName)
	if _, err := results.ReadFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, prerrors.New(prerrors.ErrCodeResultsCorrupt, "failed to read result set", err).
			WithDetail("path", path).
			WithSuggestion("Fix or remove " + manager.DataFileName + " before adding results")
	}
	return manager.Open(dir, manager.WithLogger(slog.Default()))
}

func (o addOptions) addOptions() ([]manager.AddOption, error) {
	labels := make([]results.Label, 0, len(o.labels))
	for _, s := range o.labels {
		color, text, ok := strings.Cut(s, ":")
		if !ok || color == "" || text == "" {
			return nil, prerrors.ValidationError("label must be color:text, got "+s, nil).
				WithSuggestion("Use e.g. --label success:converged")
		}
		labels = append(labels, results.Label{Color: color, Text: text})
	}

	opts := []manager.AddOption{manager.WithPre(o.pre), manager.WithPost(o.post)}
	if len(labels) > 0 {
		opts = append(opts, manager.WithLabels(labels...))
	}
	return opts, nil
}

// readCSV returns the heading record and the remaining rows of path.
func readCSV(cmd *cobra.Command, path string) ([]string, [][]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, prerrors.IOError("failed to read CSV "+path, err)
		}
		defer f.Close()
		r = f
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, prerrors.ValidationError("failed to parse CSV", err).
			WithDetail("path", path)
	}
	if len(records) == 0 {
		return nil, nil, prerrors.ValidationError("CSV "+path+" is empty", nil).
			WithSuggestion("Put the headings on the first line")
	}
	return records[0], records[1:], nil
}
