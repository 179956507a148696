// Package backup wires the archive, encryption and transport stages
// into the two linear pipelines: upload (archive → encrypt → size-check
// → upload) and download (download → decrypt → extract).
package backup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/goback/internal/archive"
	"github.com/idelchi/goback/internal/config"
	"github.com/idelchi/goback/internal/encryption"
	"github.com/idelchi/goback/internal/fileutil"
	"github.com/idelchi/goback/internal/password"
	"github.com/idelchi/goback/internal/transport"
)

// remoteFilename is the hint sent with every upload; the remote never
// sees the original file names.
const remoteFilename = "backup.tar.gz"

// artifactPattern names the temporary encrypted blob each operation owns.
const artifactPattern = "goback-*.tar.gz.enc"

// Service runs backup operations against one remote store.
type Service struct {
	cfg    *config.Config
	client *transport.Client
	logger zerolog.Logger
}

// New creates a Service from its collaborators.
func New(cfg *config.Config, client *transport.Client, logger zerolog.Logger) *Service {
	return &Service{cfg: cfg, client: client, logger: logger}
}

// Upload archives and encrypts the given paths into a single blob and
// uploads it. If pass is empty a fresh password is generated; the
// returned descriptor is the only carrier of it. The temporary
// encrypted artifact is removed on every exit path.
func (s *Service) Upload(ctx context.Context, paths []string, pass string) (*transport.Descriptor, error) {
	if pass == "" {
		generated, err := password.Generate(s.cfg.PasswordLength)
		if err != nil {
			return nil, fmt.Errorf("generating password: %w", err)
		}

		pass = generated

		s.logger.Info().Str("password", pass).Msg("auto-generated password")
	}

	if missing := missingPaths(paths); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	artifact, err := fileutil.NewArtifact(s.cfg.TempDir, artifactPattern)
	if err != nil {
		return nil, err
	}
	defer artifact.Cleanup()

	s.logger.Info().Int("files", len(paths)).Msg("archiving and encrypting")

	if err := s.encryptToArtifact(artifact, paths, pass); err != nil {
		return nil, err
	}

	size, err := artifact.Size()
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("size", humanize.IBytes(uint64(size))).Msg("encrypted backup size")

	if size > s.cfg.MaxSize {
		return nil, &SizeExceededError{Size: size, Limit: s.cfg.MaxSize}
	}

	if err := artifact.Rewind(); err != nil {
		return nil, err
	}

	s.logger.Info().Str("url", s.cfg.BaseURL).Msg("uploading")

	descriptor, err := s.client.Upload(ctx, artifact.File, size, remoteFilename)
	if err != nil {
		return nil, err
	}

	// The remote never receives the password; this response is the only
	// place it can be recovered from.
	descriptor.Password = pass

	s.logger.Info().Str("id", descriptor.BackupID).Msg("upload successful")

	return descriptor, nil
}

// encryptToArtifact streams the archive of paths straight into the
// cipher through a pipe, so the uncompressed archive is never
// materialized in memory or on disk.
func (s *Service) encryptToArtifact(artifact *fileutil.Artifact, paths []string, pass string) error {
	pipeReader, pipeWriter := io.Pipe()

	var group errgroup.Group

	group.Go(func() error {
		if err := archive.Create(pipeWriter, paths); err != nil {
			pipeWriter.CloseWithError(err)

			return fmt.Errorf("creating archive: %w", err)
		}

		return pipeWriter.Close()
	})

	group.Go(func() error {
		if err := encryption.Encrypt(artifact.File, pipeReader, pass); err != nil {
			pipeReader.CloseWithError(err)

			return fmt.Errorf("encrypting archive: %w", err)
		}

		return nil
	})

	return group.Wait()
}

// Download fetches the blob stored under id, checks the password
// against it, then streams decryption straight into extraction under
// outputDir. It returns the extracted relative paths in archive order.
func (s *Service) Download(ctx context.Context, id, pass, outputDir string) ([]string, error) {
	artifact, err := fileutil.NewArtifact(s.cfg.TempDir, artifactPattern)
	if err != nil {
		return nil, err
	}
	defer artifact.Cleanup()

	s.logger.Info().Str("id", id).Msg("downloading backup")

	received, err := s.client.Download(ctx, artifact.File, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("size", humanize.IBytes(uint64(received))).Msg("downloaded")

	// Authenticate the blob before anything lands in outputDir. A wrong
	// password and a corrupted blob fail identically here.
	if err := artifact.Rewind(); err != nil {
		return nil, err
	}

	if err := encryption.Verify(artifact.File, pass); err != nil {
		return nil, err
	}

	if err := artifact.Rewind(); err != nil {
		return nil, err
	}

	s.logger.Info().Msg("decrypting and extracting")

	extracted, err := s.extractFromArtifact(artifact, pass, outputDir)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("files", len(extracted)).Msg("extraction complete")

	return extracted, nil
}

// extractFromArtifact streams decrypted plaintext straight into the
// extractor through a pipe.
func (s *Service) extractFromArtifact(artifact *fileutil.Artifact, pass, outputDir string) ([]string, error) {
	pipeReader, pipeWriter := io.Pipe()

	var (
		group     errgroup.Group
		extracted []string
	)

	group.Go(func() error {
		if err := encryption.Decrypt(pipeWriter, artifact.File, pass); err != nil {
			pipeWriter.CloseWithError(err)

			return err
		}

		return pipeWriter.Close()
	})

	group.Go(func() error {
		paths, err := archive.Extract(pipeReader, outputDir)
		if err != nil {
			pipeReader.CloseWithError(err)

			return err
		}

		extracted = paths

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return extracted, nil
}

// Delete removes the blob stored under id from the remote.
func (s *Service) Delete(ctx context.Context, id string) (*transport.DeleteResult, error) {
	s.logger.Info().Str("id", id).Msg("deleting backup")

	result, err := s.client.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", result.BackupID).Msg("delete successful")

	return result, nil
}

// missingPaths returns every path that does not exist, so a failed
// validation lists all offenders at once.
func missingPaths(paths []string) []string {
	var missing []string

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}

	return missing
}
