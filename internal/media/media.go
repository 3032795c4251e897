// Package media stores uploaded catalog images on local disk.
package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrTooLarge         = errors.New("image too large")
)

const (
	KindCategory = "categories"
	KindProduct  = "products"

	stampLayout = "20060102_150405"
)

// sniffed content types accepted for each allowed extension.
var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

type Config struct {
	Dir          string
	MaxBytes     int64
	MaxDimension int
	AllowedExt   []string
}

type Store struct {
	dir     string
	prefix  string // first element of stored relative paths, e.g. "uploads"
	max     int64
	maxDim  int
	allowed map[string]bool
	logger  logger.ZapLogger
	now     func() time.Time
	token   func() string
}

// shortID keeps names unique when uploads land in the same second.
func shortID() string {
	return uuid.NewString()[:8]
}

// NewStore creates the upload directories.
func NewStore(cfg Config, log logger.ZapLogger) (*Store, error) {
	s := &Store{
		dir:     filepath.Clean(cfg.Dir),
		prefix:  filepath.Base(filepath.Clean(cfg.Dir)),
		max:     cfg.MaxBytes,
		maxDim:  cfg.MaxDimension,
		allowed: map[string]bool{},
		logger:  log,
		now:     time.Now,
		token:   shortID,
	}
	for _, ext := range cfg.AllowedExt {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if _, ok := contentTypes[ext]; ok {
			s.allowed[ext] = true
		}
	}
	for _, kind := range []string{KindCategory, KindProduct} {
		if err := os.MkdirAll(filepath.Join(s.dir, kind), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create upload dir %s", kind)
		}
	}
	return s, nil
}

// SaveFile stores a multipart upload. See Save.
func (s *Store) SaveFile(kind string, fh *multipart.FileHeader, index int) (string, error) {
	if fh.Size > s.max {
		return "", errors.Wrapf(ErrTooLarge, "%s is %d bytes", fh.Filename, fh.Size)
	}
	f, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer f.Close()
	return s.Save(kind, fh.Filename, f, index)
}

// Save validates, downsizes and writes an image, returning its path relative
// to the static root (uploads/<kind>/<file>). index > 0 is embedded in the
// file name so several images of one product never collide.
func (s *Store) Save(kind, filename string, r io.Reader, index int) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !s.allowed[ext] {
		return "", errors.Wrapf(ErrUnsupportedImage, "extension %q", ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.max+1))
	if err != nil {
		return "", errors.Wrap(err, "read upload")
	}
	if int64(len(data)) > s.max {
		return "", errors.Wrapf(ErrTooLarge, "limit is %d bytes", s.max)
	}
	if mt := mimetype.Detect(data); !mt.Is(contentTypes[ext]) {
		return "", errors.Wrapf(ErrUnsupportedImage, "content is %s", mt.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", errors.Wrapf(ErrUnsupportedImage, "decode: %v", err)
	}
	img = s.fit(img)

	name := s.now().Format(stampLayout) + "_" + s.token() + "_"
	if index > 0 {
		name += fmt.Sprintf("%d_", index)
	}
	name += SanitizeFilename(filename)

	dst := filepath.Join(s.dir, kind, name)
	if err := imaging.Save(img, dst, imaging.JPEGQuality(85)); err != nil {
		return "", errors.Wrap(err, "write image")
	}

	rel := path.Join(s.prefix, kind, name)
	s.logger.Debug("image stored", zap.String("path", rel), zap.Int("bytes", len(data)))
	return rel, nil
}

func (s *Store) fit(img image.Image) image.Image {
	b := img.Bounds()
	if s.maxDim <= 0 || (b.Dx() <= s.maxDim && b.Dy() <= s.maxDim) {
		return img
	}
	return imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
}

// Remove deletes a file previously returned by Save. Paths outside the upload
// directory are ignored.
func (s *Store) Remove(rel string) error {
	rel = path.Clean(strings.TrimSpace(rel))
	if !strings.HasPrefix(rel, s.prefix+"/") {
		return nil
	}
	full := filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(rel, s.prefix+"/")))
	if !strings.HasPrefix(full, s.dir+string(filepath.Separator)) {
		return nil
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove image")
	}
	return nil
}

// RemoveAll removes each path and logs failures instead of returning them.
func (s *Store) RemoveAll(paths ...string) {
	for _, p := range paths {
		if err := s.Remove(p); err != nil {
			s.logger.Warn("failed to remove image", zap.String("path", p), zap.Error(err))
		}
	}
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// SanitizeFilename reduces a client supplied name to ASCII letters, digits,
// dots, dashes and underscores with no directory part.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" || !strings.Contains(out, ".") {
		ext := strings.ToLower(filepath.Ext(name))
		if !isASCII(ext) {
			ext = ""
		}
		out = "image" + ext
	}
	return out
}

func isASCII(s string) bool {
	for _, r := range s {
		if r >= unicode.MaxASCII {
			return false
		}
	}
	return true
}
