package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indigo-web/formdata/http/mime"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	t.Run("is empty", func(t *testing.T) {
		require.True(t, (&File{FieldName: "file"}).IsEmpty())
		require.False(t, (&File{FieldName: "file", OriginalName: "a.txt"}).IsEmpty())
		require.False(t, (&File{FieldName: "file", Buffer: []byte{}}).IsEmpty())
		require.False(t, (&File{FieldName: "file", Path: "/tmp/x"}).IsEmpty())
	})

	t.Run("detect type in memory", func(t *testing.T) {
		png := &File{Buffer: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")}
		detected, err := png.DetectType()
		require.NoError(t, err)
		require.Equal(t, mime.PNG, detected)

		text := &File{Buffer: []byte("just some words")}
		detected, err = text.DetectType()
		require.NoError(t, err)
		require.Equal(t, mime.Plain, detected)
	})

	t.Run("detect type on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "upload")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%âãÏÓ\n"), 0o600))

		detected, err := (&File{Path: path}).DetectType()
		require.NoError(t, err)
		require.Equal(t, mime.PDF, detected)
	})

	t.Run("fall back to the filename", func(t *testing.T) {
		detected, err := (&File{OriginalName: "data.csv"}).DetectType()
		require.NoError(t, err)
		require.Equal(t, mime.CSV, detected)
	})

	t.Run("files", func(t *testing.T) {
		files := Files{"docs": {{OriginalName: "a"}, {OriginalName: "b"}}, "none": nil}
		first, found := files.First("docs")
		require.True(t, found)
		require.Equal(t, "a", first.OriginalName)

		_, found = files.First("none")
		require.False(t, found)
		require.Equal(t, 2, files.Count())
	})
}
