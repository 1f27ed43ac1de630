// Package files stores template attachments in blob storage.
package files

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MaxFiles    = 10
	MaxFileSize = 25 << 20

	defaultContentType = "application/octet-stream"
)

// Blob is an object store addressed by slash-separated paths.
type Blob interface {
	// Put stores the object and returns a URL it can be downloaded from.
	Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string, meta map[string]string) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// NewFileID builds "<unixMillis>_<9 base36 chars>_<sanitized name>".
func NewFileID(name string, now time.Time) string {
	return fmt.Sprintf("%d_%s_%s", now.UnixMilli(), randomBase36(9), unsafeName.ReplaceAllString(name, "_"))
}

// ObjectPath is where an owner's file lives in the bucket.
func ObjectPath(ownerID, fileID string) string {
	return path.Join("templates", ownerID, fileID)
}

const tempOwnerPrefix = "temp_"

// TempOwnerID names the owner of files uploaded before their template exists.
func TempOwnerID(now time.Time) string {
	return tempOwnerPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// IsTempOwner reports whether ownerID was made by TempOwnerID, as opposed to
// the id of a saved template.
func IsTempOwner(ownerID string) bool {
	rest, ok := strings.CutPrefix(ownerID, tempOwnerPrefix)
	return ok && rest != ""
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count the way the attachment list shows it, e.g. "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + sizeUnits[i]
}
