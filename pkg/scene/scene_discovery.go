package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "ply"
	FilePath    string `json:"filePath"`    // Path to the PLY file (ply type only)
}

type preset struct {
	info  SceneInfo
	build func(props *core.Properties) (*Scene, error)
}

var presets = []preset{
	{SceneInfo{ID: "point", Name: "Point Light", Description: "Diffuse floor and sphere under a single point light", Type: "builtin"}, NewPointLightScene},
	{SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Cornell box with a Phong sphere and a mirror sphere", Type: "builtin"}, NewCornellScene},
	{SceneInfo{ID: "spheres", Name: "Phong Spheres", Description: "Spheres of increasing glossiness under area and directional lights", Type: "builtin"}, NewSpheresScene},
	{SceneInfo{ID: "fog", Name: "Fog", Description: "Spheres inside a homogeneous medium", Type: "builtin"}, NewFogScene},
}

// ListBuiltinScenes returns the built-in scenes in registration order
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(presets))
	for i, p := range presets {
		scenes[i] = p.info
	}
	return scenes
}

// ListMeshScenes scans dir for PLY files. Each one renders inside the Cornell box.
func ListMeshScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		// No mesh directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.ply"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan mesh directory: %v", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParsePLYMetadata(filePath)
		if err != nil {
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParsePLYMetadata extracts "comment Scene:" and "comment Description:" lines
// from a PLY header
func ParsePLYMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "ply:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "ply",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// If we can't read the file, return with fallback values
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "end_header" {
			break
		}
		if !strings.HasPrefix(line, "comment ") {
			continue
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "comment "))
		if strings.HasPrefix(content, "Scene:") {
			info.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		} else if strings.HasPrefix(content, "Description:") {
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		}
	}

	return info, scanner.Err()
}

// NewScene builds the scene with the given ID. Built-in IDs name a preset and
// a path ending in .ply loads that mesh into the Cornell box.
// The returned scene has a camera but no integrator.
func NewScene(id string, props *core.Properties) (*Scene, error) {
	for _, p := range presets {
		if p.info.ID == id {
			return p.build(props)
		}
	}

	if strings.HasSuffix(strings.ToLower(id), ".ply") {
		if props.Has("mesh") {
			return nil, core.NewConfigurationError("scene", "mesh given both as scene %q and property", id)
		}
		return NewCornellScene(props.Set("mesh", id))
	}

	return nil, core.NewConfigurationError("scene", "unknown scene %q", id)
}

// titleCase converts a filename-style string to title case
// e.g., "stanford-bunny" -> "Stanford Bunny"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
