package output

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Compress writes a tar.gz archive of srcDir to dstPath. Entries are rooted
// at the directory's base name so extraction recreates the run directory.
// A missing or empty source directory is an error.
func Compress(srcDir, dstPath string) error {
	srcDir = strings.TrimSuffix(srcDir, string(os.PathSeparator))

	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("cannot archive %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot archive %s: not a directory", srcDir)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("cannot archive %s: %w", srcDir, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("cannot archive %s: directory is empty", srcDir)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	base := filepath.Base(srcDir)
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(base, rel))

		fi, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = name
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add directory to archive: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
