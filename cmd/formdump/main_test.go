package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/indigo-web/formdata/config"
	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/formdata/multipart"
)

const body = "--xyz\r\n" +
	"Content-Disposition: form-data; name=\"title\"\r\n\r\n" +
	"report\r\n" +
	"--xyz\r\n" +
	"Content-Disposition: form-data; name=\"doc\"; filename=\"report.csv\"\r\n" +
	"Content-Type: text/csv\r\n\r\n" +
	"a,b\n1,2\n\r\n" +
	"--xyz--\r\n"

type output struct {
	Fields map[string]any        `json:"fields"`
	Files  map[string][]fileView `json:"files"`
}

func dumpBody(t *testing.T, cfg *config.Config, input string, args ...string) (output, error) {
	var stdout bytes.Buffer
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	err := run(context.Background(), args, strings.NewReader(input), &stdout, cfg, log)
	if err != nil {
		return output{}, err
	}

	var out output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	return out, nil
}

func TestRun(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		out, err := dumpBody(t, config.Default(), body, "-content-type", "multipart/form-data; boundary=xyz")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"title": "report"}, out.Fields)
		require.Equal(t, []fileView{{
			Field:    "doc",
			Filename: "report.csv",
			Type:     "text/csv",
			Size:     len("a,b\n1,2\n"),
		}}, out.Files["doc"])
	})

	t.Run("disk and chunked", func(t *testing.T) {
		dir := t.TempDir()
		chunked := "10\r\n" + body[:16] + "\r\n" +
			strconv.FormatInt(int64(len(body)-16), 16) + "\r\n" + body[16:] + "\r\n" +
			"0\r\n\r\n"

		out, err := dumpBody(t, config.Default(), chunked, "-boundary", "xyz", "-chunked", "-disk", dir)
		require.NoError(t, err)

		doc := out.Files["doc"][0]
		require.Equal(t, dir, filepath.Dir(doc.Path))
		content, err := os.ReadFile(doc.Path)
		require.NoError(t, err)
		require.Equal(t, "a,b\n1,2\n", string(content))
	})

	t.Run("merge with query", func(t *testing.T) {
		out, err := dumpBody(t, config.Default(), body, "-boundary", "xyz", "-query", "title=draft&page=1")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"title": "report", "page": "1"}, out.Fields)
	})

	t.Run("restrictions", func(t *testing.T) {
		_, err := dumpBody(t, config.Default(), body, "-boundary", "xyz", "-restrict", "avatar=1")
		require.ErrorIs(t, err, multipart.ErrUnexpectedFile)

		_, err = dumpBody(t, config.Default(), body, "-boundary", "xyz", "-restrict", "doc")
		require.Error(t, err)
	})

	t.Run("not a multipart", func(t *testing.T) {
		_, err := dumpBody(t, config.Default(), body, "-content-type", "application/json")
		require.ErrorIs(t, err, status.ErrUnsupportedMediaType)
	})
}

func TestReportFailure(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	reportFailure(log, multipart.ErrMaxHeaderLength)
	require.Contains(t, logs.String(), "status=431")
	require.Contains(t, logs.String(), `reason="Request Header Fields Too Large"`)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("FORMDUMP_FILES", "3")
	t.Setenv("FORMDUMP_HEADER_CHARSET", "latin1")

	env, err := loadEnvironment()
	require.NoError(t, err)
	require.Equal(t, "info", env.LogLevel)

	cfg := env.Apply(config.Default())
	require.Equal(t, 3, cfg.Multipart.Limits.Files)
	require.Equal(t, "latin1", cfg.Multipart.HeaderCharset)
	require.Equal(t, config.Default().Multipart.MaxHeaderLength, cfg.Multipart.MaxHeaderLength)
	require.NoError(t, cfg.Validate())
}
