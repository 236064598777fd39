package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Restore extracts a backup archive into dataDir. Existing files are left
// untouched unless force is set. Entries that would escape dataDir are
// rejected.
func Restore(_ context.Context, archivePath, dataDir string, force bool) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		// Archives only contain flat basenames; reject anything else.
		name := filepath.Clean(hdr.Name)
		if strings.Contains(name, "..") || filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
			return fmt.Errorf("unsafe archive entry %q", hdr.Name)
		}

		target := filepath.Join(dataDir, name)
		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("%s already exists (use force to overwrite)", target)
		}

		if err := extractFile(tr, target, hdr.FileInfo().Mode()); err != nil {
			return fmt.Errorf("extracting %q: %w", name, err)
		}
	}
}

func extractFile(r io.Reader, target string, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return out.Close()
}
