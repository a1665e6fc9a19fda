package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

// inTempWorkdir isolates the relative assets/ and tmp/ lookups.
func inTempWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	prevAssets, prevUnpack := AssetsDir, UnpackDir
	t.Cleanup(func() { AssetsDir, UnpackDir = prevAssets, prevUnpack })
	AssetsDir = ""
	UnpackDir = "tmp"
	return dir
}

func TestResolveAssetPath(t *testing.T) {
	dir := inTempWorkdir(t)
	user := filepath.Join(dir, "user")
	AssetsDir = user

	touch(t, filepath.Join(user, "shaders", "layer.frag"))
	assert.Equal(t, filepath.Join(user, "shaders", "layer.frag"), ResolveAssetPath("shaders/layer.frag"))

	touch(t, filepath.Join("assets", "shaders", "layer.frag"))
	assert.Equal(t, filepath.Join("assets", "shaders", "layer.frag"), ResolveAssetPath("shaders/layer.frag"),
		"local assets win over the user directory")

	assert.Equal(t, filepath.Join("assets", "missing.glsl"), ResolveAssetPath("missing.glsl"))
}

func TestFindTextureFile(t *testing.T) {
	dir := inTempWorkdir(t)
	AssetsDir = filepath.Join(dir, "user")

	touch(t, filepath.Join(AssetsDir, "bear.png"))
	touch(t, filepath.Join("tmp", "materials", "leaves1.tex"))
	touch(t, filepath.Join(AssetsDir, "deep", "nested", "stars.webp"))

	t.Run("with extension", func(t *testing.T) {
		assert.Equal(t, filepath.Join(AssetsDir, "bear.png"), FindTextureFile("bear.png"))
	})
	t.Run("without extension", func(t *testing.T) {
		assert.Equal(t, filepath.Join(AssetsDir, "bear.png"), FindTextureFile("bear"))
	})
	t.Run("materials prefix", func(t *testing.T) {
		assert.Equal(t, filepath.Join("tmp", "materials", "leaves1.tex"), FindTextureFile("materials/leaves1"))
	})
	t.Run("deep search", func(t *testing.T) {
		assert.Equal(t, filepath.Join(AssetsDir, "deep", "nested", "stars.webp"), FindTextureFile("stars"))
	})
	t.Run("absolute", func(t *testing.T) {
		abs := filepath.Join(AssetsDir, "bear.png")
		assert.Equal(t, abs, FindTextureFile(abs))
		assert.Empty(t, FindTextureFile(filepath.Join(dir, "nope.png")))
	})
	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, FindTextureFile("ground"))
		assert.Empty(t, FindTextureFile(""))
	})
}

func TestFindFile(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "b", "diorama.json"))

	path, err := FindFile(root, "diorama.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b", "diorama.json"), path)

	_, err = FindFile(root, "scene.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
