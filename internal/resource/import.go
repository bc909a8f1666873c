package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

var (
	ErrNotFound     = fmt.Errorf("resource: not found: %w", fs.ErrNotExist)
	ErrNotDirectory = errors.New("resource: not a directory")
	ErrIsDirectory  = errors.New("resource: is a directory")
	ErrPermission   = fmt.Errorf("resource: permission denied: %w", fs.ErrPermission)
)

// Importer links files into Dir.
type Importer struct {
	Dir string
	// Token returns the disambiguation token for colliding names. Defaults
	// to a random UUID.
	Token func() string
	// Access checks permissions like access(2). Defaults to unix.Access.
	Access func(path string, mode uint32) error
}

func NewImporter(dir string) *Importer {
	return &Importer{Dir: dir}
}

// Import links filePath into the session directory and returns the path the
// host should reference from now on.
//
// A source already inside the directory is returned as-is. An existing link
// of the same name that points exactly at the source is reused. Any other
// same-named entry gets a new link named "<stem>.<token><ext>".
func Import(sessionDir, filePath string) (string, error) {
	return NewImporter(sessionDir).Import(filePath)
}

func (im *Importer) Import(filePath string) (string, error) {
	dir, err := filepath.Abs(im.Dir)
	if err != nil {
		return "", err
	}
	src, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	if err := im.validateDir(dir, "session directory"); err != nil {
		return "", err
	}
	if err := im.validateSource(src); err != nil {
		return "", err
	}

	link := filepath.Join(dir, filepath.Base(src))
	if err := im.checkAccess(filepath.Dir(link), unix.W_OK, "link directory"); err != nil {
		return "", err
	}

	if isWithin(src, dir) {
		log.Debug().Str("path", src).Msg("resource: already inside session directory")
		return src, nil
	}

	existing, err := os.Lstat(link)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return im.link(src, link)
	case err != nil:
		return "", err
	}

	if existing.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(link)
		if err != nil {
			return "", err
		}
		if target == src {
			log.Debug().Str("link", link).Str("target", src).Msg("resource: reusing existing link")
			return link, nil
		}
	}
	return im.link(src, im.disambiguate(link))
}

func (im *Importer) link(src, link string) (string, error) {
	if err := os.Symlink(src, link); err != nil {
		return "", fmt.Errorf("resource: link %q -> %q: %w", link, src, err)
	}
	log.Info().Str("link", link).Str("target", src).Msg("resource: imported")
	return link, nil
}

func (im *Importer) disambiguate(link string) string {
	token := im.Token
	if token == nil {
		token = uuid.NewString
	}
	// Leading dots belong to the stem: ".bashrc" has no extension.
	ext := filepath.Ext(strings.TrimLeft(filepath.Base(link), "."))
	stem := strings.TrimSuffix(link, ext)
	return stem + "." + token() + ext
}

func (im *Importer) validateDir(dir, what string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return statError(err, what, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s %q", ErrNotDirectory, what, dir)
	}
	return im.checkAccess(dir, unix.W_OK, what)
}

func (im *Importer) validateSource(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return statError(err, "source", src)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: source %q", ErrIsDirectory, src)
	}
	return im.checkAccess(src, unix.R_OK, "source")
}

func statError(err error, what, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s %q", ErrNotFound, what, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s %q", ErrPermission, what, path)
	case errors.Is(err, unix.ENOTDIR):
		return fmt.Errorf("%w: %s %q", ErrNotFound, what, path)
	default:
		return err
	}
}

func (im *Importer) checkAccess(path string, mode uint32, what string) error {
	access := im.Access
	if access == nil {
		access = unix.Access
	}
	if err := access(path, mode); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrPermission, what, path, err)
	}
	return nil
}

func isWithin(path string, root string) bool {
	p := filepath.Clean(path)
	r := filepath.Clean(root)
	if p == r {
		return true
	}
	if !strings.HasSuffix(r, string(os.PathSeparator)) {
		r += string(os.PathSeparator)
	}
	return strings.HasPrefix(p, r)
}
