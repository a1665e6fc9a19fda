package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AssetsDir is the user supplied asset root. It is searched after the
// working directory's own assets/ folder.
var AssetsDir string

// UnpackDir is where a scene package gets extracted to.
var UnpackDir = "tmp"

// TextureExtensions lists the image formats the asset loader can decode, in
// lookup order.
var TextureExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".tex"}

var errFound = errors.New("found")

func ResolveAssetPath(relPath string) string {
	localPath := filepath.Join("assets", relPath)
	if _, err := os.Stat(localPath); err == nil {
		return localPath
	}

	if AssetsDir != "" {
		userPath := filepath.Join(AssetsDir, relPath)
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}

	return localPath
}

func searchDirs() []string {
	dirs := make([]string, 0, 6)
	if AssetsDir != "" {
		dirs = append(dirs, AssetsDir, filepath.Join(AssetsDir, "materials"))
	}
	dirs = append(dirs,
		UnpackDir,
		filepath.Join(UnpackDir, "materials"),
		"assets",
		"assets/materials",
	)
	return dirs
}

// FindTextureFile locates an image for a layer. The name may carry an
// extension or not; a name without one is tried against every entry of
// TextureExtensions. An empty result means nothing matched.
func FindTextureFile(name string) string {
	if name == "" {
		return ""
	}

	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name
		}
		return ""
	}

	cleanName := strings.TrimPrefix(filepath.ToSlash(name), "materials/")
	ext := filepath.Ext(cleanName)
	stem := strings.TrimSuffix(cleanName, ext)

	for _, dir := range searchDirs() {
		if ext != "" {
			p := filepath.Join(dir, cleanName)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
		for _, e := range TextureExtensions {
			p := filepath.Join(dir, stem+e)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	// Deep search by base name.
	var foundPath string
	targetBase := filepath.Base(stem)
	for _, d := range searchDirs() {
		if _, err := os.Stat(d); err != nil {
			continue
		}
		filepath.Walk(d, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			fileExt := strings.ToLower(filepath.Ext(base))
			if strings.TrimSuffix(base, filepath.Ext(base)) != targetBase {
				return nil
			}
			for _, e := range TextureExtensions {
				if fileExt == e {
					foundPath = path
					return errFound
				}
			}
			return nil
		})
		if foundPath != "" {
			break
		}
	}

	return foundPath
}

// FindFile walks root for the first regular file called name.
func FindFile(root, name string) (string, error) {
	var found string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == name {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}
	if found == "" {
		return "", os.ErrNotExist
	}
	Debug("Found %s at: %s", name, found)
	return found, nil
}
