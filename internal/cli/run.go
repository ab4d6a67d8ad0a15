package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oscarhermoso/cubecache/changelog"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/index"
	"github.com/oscarhermoso/cubecache/internal/jsonbody"
)

// Usage describes the supported commands.
const Usage = `usage: cubecache [-config file] <command> [args]

commands:
  get <key>                      print the object stored under key
  put <key> <file|->             store the JSON document read from file or stdin
  delete <key>                   delete the object stored under key
  ensure-bucket                  create the configured bucket (s3 backend)
  changelog get <cube> <id>      print one changelog
  changelog list <cube>          list a cube's changelogs, newest first
  changelog put <cube> <file|->  store a changelog and print its id
  changelog import <file|->      store a JSON array of changelog documents
`

// Options are the global command line settings.
type Options struct {
	ConfigPath string
	Command    string
	Args       []string
}

// ParseOptions parses the global flags and splits off the command.
func ParseOptions(fs *flag.FlagSet, args []string) (Options, error) {
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", os.Getenv("CUBECACHE_CONFIG"), "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Options{}, errors.New(errors.CodeInvalidInput, "command is required")
	}
	opts.Command = rest[0]
	opts.Args = rest[1:]
	return opts, nil
}

// Run executes one command against app.
func Run(ctx context.Context, app *App, command string, args []string, in io.Reader, out io.Writer) error {
	switch command {
	case "get":
		return runGet(ctx, app, args, out)
	case "put":
		return runPut(ctx, app, args, in)
	case "delete":
		if err := requireArgs("delete", args, 1); err != nil {
			return err
		}
		return app.Objects.Delete(ctx, app.Bucket, args[0])
	case "changelog":
		if len(args) == 0 {
			return errors.New(errors.CodeInvalidInput, "changelog requires a subcommand")
		}
		return runChangelog(ctx, app, args[0], args[1:], in, out)
	default:
		return errors.Newf(errors.CodeInvalidInput, "unknown command %q", command)
	}
}

func runGet(ctx context.Context, app *App, args []string, out io.Writer) error {
	if err := requireArgs("get", args, 1); err != nil {
		return err
	}
	value, ok := app.Objects.Get(ctx, app.Bucket, args[0])
	if !ok {
		return errors.WithContext(
			errors.New(errors.CodeNotFound, "object not available"),
			"key", args[0])
	}
	return writeJSON(out, value)
}

func runPut(ctx context.Context, app *App, args []string, in io.Reader) error {
	if err := requireArgs("put", args, 2); err != nil {
		return err
	}
	body, err := readInput(args[1], in)
	if err != nil {
		return err
	}
	value, err := jsonbody.Decode[any](body)
	if err != nil {
		return err
	}
	return app.Objects.Put(ctx, app.Bucket, args[0], value)
}

func runChangelog(ctx context.Context, app *App, sub string, args []string, in io.Reader, out io.Writer) error {
	switch sub {
	case "get":
		if err := requireArgs("changelog get", args, 2); err != nil {
			return err
		}
		cl, err := app.Changelogs.GetByID(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		return writeJSON(out, cl)

	case "list":
		return runChangelogList(ctx, app, args, out)

	case "put":
		if err := requireArgs("changelog put", args, 2); err != nil {
			return err
		}
		body, err := readInput(args[1], in)
		if err != nil {
			return err
		}
		cl, err := jsonbody.Decode[changelog.Changelog](body)
		if err != nil {
			return err
		}
		id, err := app.Changelogs.Put(ctx, cl, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, id)
		return err

	case "import":
		return runChangelogImport(ctx, app, args, in, out)

	default:
		return errors.Newf(errors.CodeInvalidInput, "unknown changelog subcommand %q", sub)
	}
}

type listOutput struct {
	Items []documentJSON `json:"items"`
	Next  *index.Cursor  `json:"next,omitempty"`
}

func runChangelogList(ctx context.Context, app *App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("changelog list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("limit", index.DefaultLimit, "maximum changelogs per page")
	afterDate := fs.Int64("after-date", 0, "resume after the changelog with this date")
	afterID := fs.String("after-id", "", "resume after the changelog with this id")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "invalid changelog list flags")
	}
	if err := requireArgs("changelog list", fs.Args(), 1); err != nil {
		return err
	}
	cubeID := fs.Arg(0)

	var cursor *index.Cursor
	if *afterID != "" {
		cursor = &index.Cursor{PartitionKey: cubeID, SortKey: *afterDate, ID: *afterID}
	}

	page, err := app.Changelogs.ListByCube(ctx, cubeID, cursor, index.WithLimit(*limit))
	if err != nil {
		return err
	}

	result := listOutput{Items: make([]documentJSON, len(page.Items)), Next: page.Next}
	for i, doc := range page.Items {
		result.Items[i] = toDocumentJSON(doc)
	}
	return writeJSON(out, result)
}

// documentJSON is the import and listing format of a changelog document.
type documentJSON struct {
	ID        string              `json:"id"`
	CubeID    string              `json:"cubeId"`
	Date      int64               `json:"date,omitempty"`
	Changelog changelog.Changelog `json:"changelog"`
}

func toDocumentJSON(doc changelog.Document) documentJSON {
	return documentJSON{ID: doc.ID, CubeID: doc.CubeID, Date: doc.Date, Changelog: doc.Changelog}
}

func runChangelogImport(ctx context.Context, app *App, args []string, in io.Reader, out io.Writer) error {
	if err := requireArgs("changelog import", args, 1); err != nil {
		return err
	}
	body, err := readInput(args[0], in)
	if err != nil {
		return err
	}
	raw, err := jsonbody.Decode[[]documentJSON](body)
	if err != nil {
		return err
	}

	docs := make([]changelog.Document, len(raw))
	for i, d := range raw {
		docs[i] = changelog.Document{ID: d.ID, CubeID: d.CubeID, Date: d.Date, Changelog: d.Changelog}
	}

	err = app.Changelogs.BatchPut(ctx, docs)
	var batchErr *changelog.BatchError
	if errors.As(err, &batchErr) {
		for _, f := range batchErr.Failures {
			fmt.Fprintf(out, "failed %s/%s: %v\n", f.CubeID, f.ID, f.Err)
		}
		fmt.Fprintf(out, "imported %d of %d changelogs\n", batchErr.Total-len(batchErr.Failures), batchErr.Total)
		return err
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "imported %d of %d changelogs\n", len(docs), len(docs))
	return err
}

func requireArgs(command string, args []string, n int) error {
	if len(args) != n {
		return errors.Newf(errors.CodeInvalidInput, "%s expects %d argument(s), got %d", command, n, len(args))
	}
	return nil
}

// readInput reads the named file, or in when name is "-".
func readInput(name string, in io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(name) == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidInput, "failed to read input"),
			"source", name)
	}
	return data, nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
