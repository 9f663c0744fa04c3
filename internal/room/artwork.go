package room

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxArtworkSize caps uploads at the size of a 512x512 PNG
const maxArtworkSize = 262_144

// ErrArtworkTooLarge indicates an artwork upload over the size cap
var ErrArtworkTooLarge = errors.New("artwork exceeds maximum size")

// ArtworkStore persists room artwork as flat files keyed by room id.
// It stores bytes as-is; validating or resizing images is out of scope.
type ArtworkStore struct {
	dir string
}

// NewArtworkStore creates an artwork store rooted at dir, creating it if needed
func NewArtworkStore(dir string) (*ArtworkStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artwork directory: %w", err)
	}
	return &ArtworkStore{dir: dir}, nil
}

// Save stores artwork for a room, replacing any previous file
func (s *ArtworkStore) Save(roomID uuid.UUID, r io.Reader) error {
	f, err := os.Create(s.path(roomID))
	if err != nil {
		return fmt.Errorf("failed to create artwork file: %w", err)
	}
	defer f.Close()

	// Read one byte past the cap to detect oversized uploads
	n, err := io.Copy(f, io.LimitReader(r, maxArtworkSize+1))
	if err != nil {
		return fmt.Errorf("failed to write artwork: %w", err)
	}
	if n > maxArtworkSize {
		_ = os.Remove(s.path(roomID))
		return ErrArtworkTooLarge
	}

	return nil
}

// Open returns a reader for a room's artwork, or os.ErrNotExist
func (s *ArtworkStore) Open(roomID uuid.UUID) (io.ReadCloser, error) {
	return os.Open(s.path(roomID))
}

// Remove deletes a room's artwork; missing artwork is not an error
func (s *ArtworkStore) Remove(roomID uuid.UUID) error {
	if err := os.Remove(s.path(roomID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove artwork: %w", err)
	}
	return nil
}

func (s *ArtworkStore) path(roomID uuid.UUID) string {
	return filepath.Join(s.dir, roomID.String())
}
