package gallery

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/garnizeh/outreach/pkg/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var allowedExtensions = map[string]models.MediaKind{
	"png":  models.MediaImage,
	"jpg":  models.MediaImage,
	"jpeg": models.MediaImage,
	"gif":  models.MediaImage,
	"mp4":  models.MediaVideo,
	"mov":  models.MediaVideo,
	"avi":  models.MediaVideo,
}

// KindForFilename returns the media kind implied by the file extension and
// whether the extension is accepted at all.
func KindForFilename(filename string) (models.MediaKind, string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	kind, ok := allowedExtensions[ext]
	return kind, ext, ok
}

// SecureFilename reduces name to a safe ASCII file name: accents are folded,
// whitespace becomes underscores, anything outside [A-Za-z0-9._-] is dropped and
// leading dots or underscores are trimmed. It may return "".
func SecureFilename(name string) string {
	// browsers on some platforms send full client paths
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(folded), "_") {
		switch {
		case r > unicode.MaxASCII:
		case unicode.IsLetter(r) || unicode.IsDigit(r), r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}

// storedName builds the collision-resistant blob name for an upload.
func storedName(original, ext string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	stem := SecureFilename(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "upload"
	}
	return fmt.Sprintf("%d.%09d_%s.%s", at.Unix(), at.Nanosecond(), stem, ext)
}
