// Package imagestore stores the uploaded images, on the local disk or in a Supabase storage bucket.
package imagestore

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
)

var (
	ErrInvalidImage = errors.New("unsupported or corrupted image")

	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
	nowFunc     = time.Now // mockable
)

type processed struct {
	data        *bytes.Buffer
	contentType string
	ext         string
}

// process decodes r, shrinks the image to fit in a maxDim square (when maxDim > 0) and re-encodes it.
// PNG and GIF images are stored as PNG to keep their transparency, anything else as JPEG.
func process(r io.Reader, maxDim int) (processed, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return processed{}, core.NewValidationError(ErrInvalidImage, core.FieldError{Field: "file", Error: ErrInvalidImage.Error()})
	}

	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	out := processed{data: new(bytes.Buffer)}
	switch format {
	case "png", "gif":
		out.contentType, out.ext = "image/png", ".png"
		err = imaging.Encode(out.data, img, imaging.PNG)
	default:
		out.contentType, out.ext = "image/jpeg", ".jpg"
		err = imaging.Encode(out.data, img, imaging.JPEG, imaging.JPEGQuality(85))
	}
	if err != nil {
		return processed{}, errors.Wrap(err, "encoding image")
	}
	return out, nil
}

func sanitizeFilename(filename string) string {
	return unsafeChars.ReplaceAllString(filename, "_")
}

// uniqueName returns `<folder>/<yyyymmdd>-<uuid>-<safe name><ext>`.
func uniqueName(folder, filename, ext string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	name := fmt.Sprintf("%s-%s-%s%s", nowFunc().Format("20060102"), uuid.NewString(), sanitizeFilename(base), ext)
	if folder == "" {
		return name
	}
	return path.Join(sanitizeFilename(folder), name)
}
