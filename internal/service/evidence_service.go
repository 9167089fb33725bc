package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrEvidenceNotFound is returned when a requested evidence frame does not
// exist or its path escapes the evidence directory.
var ErrEvidenceNotFound = errors.New("evidence not found")

// EvidenceService stores violation frames on local disk, one directory per
// attempt. Paths handed out are relative to the evidence root so the
// storage location can move without rewriting the proctoring log.
type EvidenceService struct {
	dir string
	log zerolog.Logger
}

// NewEvidenceService creates a new EvidenceService rooted at dir.
func NewEvidenceService(dir string, log zerolog.Logger) *EvidenceService {
	return &EvidenceService{
		dir: dir,
		log: log.With().Str("component", "evidence_service").Logger(),
	}
}

// Save writes one violation frame and returns its relative path. Filenames
// carry the capture time plus a UUID so concurrent frames never collide.
func (s *EvidenceService) Save(attemptID string, at time.Time, frame []byte) (string, error) {
	dir := filepath.Join(s.dir, attemptID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create evidence dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.jpg", at.UTC().Format("20060102T150405"), uuid.New().String())
	if err := os.WriteFile(filepath.Join(dir, filename), frame, 0o644); err != nil {
		return "", fmt.Errorf("write evidence frame: %w", err)
	}

	return filepath.Join(attemptID, filename), nil
}

// Open resolves a stored relative path for admin review. Paths that
// traverse out of the evidence root are rejected.
func (s *EvidenceService) Open(relPath string) (string, error) {
	clean := filepath.Clean(relPath)
	if clean == "" || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrEvidenceNotFound
	}

	full := filepath.Join(s.dir, clean)
	if _, err := os.Stat(full); err != nil {
		return "", ErrEvidenceNotFound
	}
	return full, nil
}

// PurgeOlderThan removes evidence frames written before cutoff and prunes
// attempt directories that end up empty. Returns the number of frames
// removed.
func (s *EvidenceService) PurgeOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read evidence dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		attemptDir := filepath.Join(s.dir, entry.Name())

		frames, err := os.ReadDir(attemptDir)
		if err != nil {
			s.log.Warn().Err(err).Str("dir", attemptDir).Msg("skipping unreadable evidence dir")
			continue
		}

		remaining := 0
		for _, frame := range frames {
			info, err := frame.Info()
			if err != nil {
				remaining++
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(attemptDir, frame.Name())); err != nil {
					s.log.Warn().Err(err).Str("file", frame.Name()).Msg("failed to remove evidence frame")
					remaining++
					continue
				}
				removed++
			} else {
				remaining++
			}
		}

		if remaining == 0 {
			_ = os.Remove(attemptDir)
		}
	}

	return removed, nil
}
