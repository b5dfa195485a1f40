// Package storage keeps uploaded product images on local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"go-gin-shop/internal/domain"
	"go-gin-shop/pkg/utils"
)

// LocalImages writes uploads under Dir and serves them from URLPrefix.
type LocalImages struct {
	Dir       string
	URLPrefix string
}

func NewLocalImages(dir, urlPrefix string) (*LocalImages, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalImages{Dir: dir, URLPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Save stores every file under a fresh UUID name. The MIME type is
// sniffed from content; anything that is not an image is rejected and
// nothing from the batch is kept.
func (s *LocalImages) Save(files []*multipart.FileHeader) (domain.ImageList, error) {
	out := make(domain.ImageList, 0, len(files))
	var written []string
	for _, fh := range files {
		img, stored, err := s.saveOne(fh)
		if err != nil {
			s.remove(written)
			return nil, err
		}
		written = append(written, stored)
		out = append(out, img)
	}
	return out, nil
}

func (s *LocalImages) saveOne(fh *multipart.FileHeader) (domain.ImageFile, string, error) {
	src, err := fh.Open()
	if err != nil {
		return domain.ImageFile{}, "", domain.InvalidArgument("cannot read upload " + fh.Filename)
	}
	defer func() { _ = src.Close() }()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return domain.ImageFile{}, "", domain.Internal("detect upload type", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return domain.ImageFile{}, "", domain.InvalidArgument(fh.Filename + " is not an image")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return domain.ImageFile{}, "", domain.Internal("rewind upload", err)
	}

	name := utils.NewID() + mt.Extension()
	stored := filepath.Join(s.Dir, name)
	dst, err := os.OpenFile(stored, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return domain.ImageFile{}, "", domain.Internal("create upload file", err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(stored)
		return domain.ImageFile{}, "", domain.Internal("write upload file", err)
	}
	return domain.ImageFile{
		FileName: filepath.Base(fh.Filename),
		FilePath: path.Join(s.URLPrefix, name),
		FileType: mt.String(),
		FileSize: utils.FormatFileSize(n, 2),
	}, stored, nil
}

func (s *LocalImages) remove(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

var _ domain.ImageStore = (*LocalImages)(nil)

// Discard deletes files previously returned by Save: uploads for a
// rejected product, or images a product no longer references. Paths
// outside URLPrefix are left alone.
func (s *LocalImages) Discard(imgs domain.ImageList) {
	paths := make([]string, 0, len(imgs))
	for _, img := range imgs {
		if !strings.HasPrefix(img.FilePath, s.URLPrefix+"/") {
			continue
		}
		paths = append(paths, filepath.Join(s.Dir, path.Base(img.FilePath)))
	}
	s.remove(paths)
}
