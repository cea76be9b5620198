package mime

import (
	"path/filepath"
	"strings"
)

var Extension = map[string]MIME{
	".csv":  CSV,
	".gif":  GIF,
	".htm":  HTML,
	".html": HTML,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".json": JSON,
	".pdf":  PDF,
	".png":  PNG,
	".svg":  SVG,
	".txt":  Plain,
	".webp": WEBP,
	".xml":  XML,
	".gz":   GZIP,
	".yaml": YAML,
	".yml":  YAML,
	".zip":  ZIP,
}

// ByFilename guesses the MIME by the file extension. OctetStream is returned if the
// extension is unknown.
func ByFilename(name string) MIME {
	if mime, found := Extension[strings.ToLower(filepath.Ext(name))]; found {
		return mime
	}

	return OctetStream
}
