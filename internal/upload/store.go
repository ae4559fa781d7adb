// Package upload guarda archivos de formularios multipart en disco y
// produce la URL relativa (/uploads/<archivo>) que se persiste en el
// documento. Solo acepta imágenes; el límite de tamaño lo fija cada ruta
// (5MB fotos de rescate, 10MB reportes de animales).
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotImage = errors.New("only images are allowed")
	ErrTooLarge = errors.New("file too large")
)

const (
	MaxRescuePhotoBytes = 5 << 20
	MaxAnimalImageBytes = 10 << 20
)

// Store escribe archivos en un directorio local.
// El directorio se crea lazy en el primer Save.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		now: time.Now,
	}
}

func (s *Store) Dir() string { return s.dir }

// SavedFile describe un archivo ya escrito.
type SavedFile struct {
	Filename    string
	URL         string
	ContentType string
	Size        int64
}

// Save valida y escribe un archivo subido.
// Rechaza (sin tocar disco) si excede maxBytes o si el contenido no es
// una imagen. El nombre final es <prefix>-<unix-ms>-<random><ext> para
// evitar colisiones.
func (s *Store) Save(prefix string, fh *multipart.FileHeader, maxBytes int64) (SavedFile, error) {
	if fh == nil {
		return SavedFile{}, errors.New("upload: nil file header")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return SavedFile{}, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return SavedFile{}, fmt.Errorf("upload: open: %w", err)
	}
	defer src.Close()

	// Sniff del contenido real; el Content-Type declarado por el cliente
	// no es confiable.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return SavedFile{}, fmt.Errorf("upload: read: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return SavedFile{}, ErrNotImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return SavedFile{}, fmt.Errorf("upload: mkdir: %w", err)
	}

	name := s.filename(prefix, fh.Filename)
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return SavedFile{}, fmt.Errorf("upload: create: %w", err)
	}
	defer dst.Close()

	written, err := dst.Write(head)
	if err != nil {
		_ = os.Remove(path)
		return SavedFile{}, fmt.Errorf("upload: write: %w", err)
	}

	rest, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(path)
		return SavedFile{}, fmt.Errorf("upload: write: %w", err)
	}

	return SavedFile{
		Filename:    name,
		URL:         "/uploads/" + name,
		ContentType: contentType,
		Size:        int64(written) + rest,
	}, nil
}

// Remove borra un archivo ya guardado. Lo usan los handlers cuando el
// insert posterior falla, para no dejar archivos huérfanos en uploads/.
func (s *Store) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

func (s *Store) filename(prefix, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	// extensiones raras o vacías: no arrastramos basura al nombre
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}

	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%d-%s%s", prefix, s.now().UnixMilli(), suffix, ext)
}
