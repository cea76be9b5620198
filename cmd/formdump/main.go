// Command formdump parses a captured multipart/form-data body and prints the assembled
// form as JSON. Settings are taken from FORMDUMP_* environment variables, which may be
// put into a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	json "github.com/json-iterator/go"

	"github.com/indigo-web/formdata/config"
	"github.com/indigo-web/formdata/http/form"
	"github.com/indigo-web/formdata/http/mime"
	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/formdata/internal/logging"
	"github.com/indigo-web/formdata/multipart"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	env, err := loadEnvironment()
	log := logging.Setup(os.Stderr, env.LogLevel, env.LogFormat)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg := env.Apply(config.Default())
	if err = cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log = log.With("form_id", uuid.NewString())
	if err = run(ctx, os.Args[1:], os.Stdin, os.Stdout, cfg, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		reportFailure(log, err)
		stop()
		os.Exit(1)
	}
}

func reportFailure(log *slog.Logger, err error) {
	code := status.CodeOf(err)
	log.Error("failed to parse the form",
		"error", err,
		"status", code,
		"reason", status.Text(code),
	)
}

type options struct {
	input        string
	contentType  string
	boundary     string
	chunked      bool
	disk         string
	query        string
	detect       bool
	restrictions map[string]int
}

func parseOptions(args []string, output io.Writer) (options, error) {
	opts := options{restrictions: make(map[string]int)}

	flags := flag.NewFlagSet("formdump", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&opts.input, "in", "-", "file with the request body, - for stdin")
	flags.StringVar(&opts.contentType, "content-type", "", "Content-Type of the request, the boundary is taken from it")
	flags.StringVar(&opts.boundary, "boundary", "", "boundary, if no Content-Type is given")
	flags.BoolVar(&opts.chunked, "chunked", false, "the body is sent with Transfer-Encoding: chunked")
	flags.StringVar(&opts.disk, "disk", "", "store files in the directory instead of memory")
	flags.StringVar(&opts.query, "query", "", "urlencoded fields the form is merged into")
	flags.BoolVar(&opts.detect, "detect", false, "sniff actual file types")
	flags.Func("restrict", "accept files only under the field, as name=max (repeatable)", func(value string) error {
		name, rawMax, found := strings.Cut(value, "=")
		if !found || len(name) == 0 {
			return fmt.Errorf("want name=max, got %q", value)
		}

		maxCount, err := strconv.Atoi(rawMax)
		if err != nil {
			return err
		}

		opts.restrictions[name] = maxCount
		return nil
	})

	if err := flags.Parse(args); err != nil {
		return opts, err
	}

	if len(opts.boundary) == 0 {
		boundary, err := mime.Boundary(opts.contentType)
		if err != nil {
			return opts, fmt.Errorf("boundary: %w", err)
		}

		opts.boundary = boundary
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, cfg *config.Config, log *slog.Logger) error {
	opts, err := parseOptions(args, stdout)
	if err != nil {
		return err
	}

	input := stdin
	if opts.input != "-" {
		file, err := os.Open(opts.input)
		if err != nil {
			return err
		}

		defer file.Close()
		input = file
	}

	var storage multipart.Storage = multipart.NewMemoryStorage()
	if len(opts.disk) > 0 {
		storage = multipart.NewDiskStorage(multipart.DirDestination(opts.disk))
	}

	assembler := multipart.NewAssembler(cfg, opts.boundary, storage).
		WithContext(ctx).
		WithLogger(log)
	for name, maxCount := range opts.restrictions {
		assembler.Restrict(name, maxCount)
	}

	var retriever multipart.Retriever = multipart.NewReaderRetriever(input, cfg.Body.ReadBufferSize)
	if opts.chunked {
		retriever = multipart.NewChunkedRetriever(retriever)
	}

	result, err := assembler.Consume(retriever)
	if err != nil {
		return err
	}

	var request form.Request
	if len(opts.query) > 0 {
		if request.Body, err = form.ParseURLEncoded(cfg, []byte(opts.query)); err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}

	request.Attach(result.Fields, result.Files, log)
	log.Info("form parsed",
		"fields", result.Fields.Len(),
		"files", result.Files.Count(),
	)

	return dump(stdout, request, opts.detect)
}

type fileView struct {
	Field    string `json:"field"`
	Filename string `json:"filename,omitempty"`
	Type     string `json:"type"`
	Detected string `json:"detected,omitempty"`
	Size     int    `json:"size"`
	Path     string `json:"path,omitempty"`
}

type dumpView struct {
	Fields form.Body             `json:"fields"`
	Files  map[string][]fileView `json:"files"`
}

func dump(w io.Writer, request form.Request, detect bool) error {
	view := dumpView{
		Fields: request.Body,
		Files:  make(map[string][]fileView, len(request.Files)),
	}

	for name, files := range request.Files {
		views := make([]fileView, 0, len(files))
		for _, file := range files {
			fv := fileView{
				Field:    file.FieldName,
				Filename: file.OriginalName,
				Type:     file.MIMEType,
				Size:     file.Size,
				Path:     file.Path,
			}

			if detect {
				detected, err := file.DetectType()
				if err != nil {
					return fmt.Errorf("detecting type of %q: %w", file.OriginalName, err)
				}

				fv.Detected = detected
			}

			views = append(views, fv)
		}

		view.Files[name] = views
	}

	encoder := json.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}
