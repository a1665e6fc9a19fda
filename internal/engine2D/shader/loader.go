package shader

import (
	"os"
	"path/filepath"
	"strings"

	"diorama/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const includePrefix = "#include \""

// Preprocess inlines `#include "file"` directives from the assets shaders
// directory, recursively. Each file is inlined at most once.
func Preprocess(source string, name string) string {
	var sb strings.Builder
	expand(&sb, source, name, make(map[string]bool))
	return sb.String()
}

func expand(sb *strings.Builder, source, name string, seen map[string]bool) {
	for _, line := range strings.Split(source, "\n") {
		directive := strings.TrimSpace(line)
		if len(directive) <= len(includePrefix) || !strings.HasPrefix(directive, includePrefix) || !strings.HasSuffix(directive, "\"") {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}

		file := strings.TrimSpace(directive[len(includePrefix) : len(directive)-1])
		if seen[file] {
			continue
		}
		seen[file] = true

		content, err := os.ReadFile(utils.ResolveAssetPath(filepath.Join("shaders", file)))
		if err != nil {
			utils.Warn("Shader: %s - Could not resolve include: %s", name, file)
			continue
		}
		expand(sb, strings.TrimPrefix(string(content), "\ufeff"), name, seen)
	}
}

// readOverride returns assets/shaders/<name><ext> if the user supplied one.
func readOverride(name, ext string) (string, bool) {
	path := utils.ResolveAssetPath(filepath.Join("shaders", name+ext))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	utils.Info("Shader: %s - Using override %s", name, path)
	return Preprocess(string(data), name), true
}

// Load compiles a program from memory, preferring user overrides in the
// assets directory. An empty vs uses raylib's default vertex shader. Failure
// returns an empty shader that callers skip.
func Load(name, vs, fs string) rl.Shader {
	if src, ok := readOverride(name, ".vert"); ok {
		vs = src
	}
	if src, ok := readOverride(name, ".frag"); ok {
		fs = src
	}

	if vs == "" && fs == "" {
		utils.Warn("Shader: %s - Both vertex and fragment sources are empty", name)
		return rl.Shader{}
	}

	var shader rl.Shader
	func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Error("Shader: %s - Compilation panic (skipping): %v", name, r)
				shader = rl.Shader{}
			}
		}()
		shader = rl.LoadShaderFromMemory(vs, fs)
	}()

	if shader.ID == 0 || !rl.IsShaderValid(shader) {
		utils.Warn("Shader: %s - Failed to compile from memory (returning empty shader)", name)
		return rl.Shader{}
	}
	utils.Debug("Shader: %s - Loaded successfully (ID: %d)", name, shader.ID)
	return shader
}
