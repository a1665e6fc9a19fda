package convert

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"diorama/internal/utils"
)

type FileEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

func readPkgString(r io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadPkgIndex reads the header of a scene package and returns its version
// and entries. Offsets are relative to the returned data start.
func ReadPkgIndex(r io.ReadSeeker) (string, []FileEntry, int64, error) {
	version, err := readPkgString(r)
	if err != nil {
		return "", nil, 0, fmt.Errorf("read version: %w", err)
	}

	var fileCount uint32
	if err := binary.Read(r, binary.LittleEndian, &fileCount); err != nil {
		return "", nil, 0, fmt.Errorf("read file count: %w", err)
	}

	entries := make([]FileEntry, 0, fileCount)
	for i := uint32(0); i < fileCount; i++ {
		name, err := readPkgString(r)
		if err != nil {
			return "", nil, 0, fmt.Errorf("read entry %d: %w", i, err)
		}
		var offset, size uint32
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return "", nil, 0, err
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return "", nil, 0, err
		}
		entries = append(entries, FileEntry{Name: name, Offset: offset, Size: size})
	}

	dataStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", nil, 0, err
	}
	return version, entries, dataStart, nil
}

// ExtractPkg unpacks a Wallpaper Engine style package into outputDir.
// Entries that would land outside outputDir are rejected.
func ExtractPkg(pkgPath, outputDir string) error {
	f, err := os.Open(pkgPath)
	if err != nil {
		return err
	}
	defer f.Close()

	version, entries, dataStart, err := ReadPkgIndex(f)
	if err != nil {
		return fmt.Errorf("package %s: %w", pkgPath, err)
	}
	utils.Debug("Unpacker: %s is %s with %d entries", pkgPath, version, len(entries))

	root, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		dest := filepath.Join(root, filepath.FromSlash(entry.Name))
		if !strings.HasPrefix(dest, root+string(filepath.Separator)) {
			return fmt.Errorf("package entry %q escapes %s", entry.Name, outputDir)
		}
		section := io.NewSectionReader(f, dataStart+int64(entry.Offset), int64(entry.Size))
		if err := writeEntry(dest, section, int64(entry.Size)); err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}

	utils.Info("Unpacker: Extracted %d files to %s", len(entries), outputDir)
	return nil
}

func writeEntry(dest string, r io.Reader, size int64) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(out, r, size); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// texWorkers bounds concurrent decodes; each one holds a full RGBA mip.
const texWorkers = 10

// BulkConvertTextures decodes every .tex under root into the PNG cache so
// later scene loads skip the texture decoder. It returns how many succeeded.
func BulkConvertTextures(root string, outDir string) int {
	TextureOutDir = outDir
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			utils.Error("Cannot create texture cache %s: %v", outDir, err)
			TextureOutDir = ""
		}
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".tex") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		utils.Error("Error walking %s: %v", root, err)
	}
	utils.Info("Converting %d textures with %d workers...", len(paths), texWorkers)

	jobs := make(chan string)
	var converted atomic.Int32
	var wg sync.WaitGroup
	for range min(texWorkers, len(paths)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if _, err := LoadTexture(p); err != nil {
					utils.Error("Failed to convert %s: %v", p, err)
					continue
				}
				converted.Add(1)
			}
		}()
	}
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	n := int(converted.Load())
	utils.Info("Texture conversion finished: %d/%d", n, len(paths))
	return n
}
