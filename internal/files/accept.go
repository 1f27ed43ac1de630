package files

import (
	"path/filepath"
	"strings"
)

var acceptedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.ms-excel":                                                  true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"text/csv":                                                                  true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain":      true,
	"application/rtf": true,
}

var acceptedExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".csv": true,
	".ppt": true, ".pptx": true, ".txt": true, ".rtf": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".svg": true,
}

// Accepted reports whether a file may be attached, by MIME type first and
// by extension otherwise.
func Accepted(name, contentType string) bool {
	ct := strings.ToLower(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if strings.HasPrefix(ct, "image/") || acceptedTypes[ct] {
		return true
	}
	return acceptedExts[strings.ToLower(filepath.Ext(name))]
}
