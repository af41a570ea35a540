package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

const testPLY = `ply
format ascii 1.0
comment Scene: Tiny Tetrahedron
comment Description: Four faces
element vertex 4
property float x
property float y
property float z
element face 4
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
0 0 1
3 0 2 1
3 0 1 3
3 0 3 2
3 1 2 3
`

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"stanford-bunny", "Stanford Bunny"},
		{"dragon_gold", "Dragon Gold"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParsePLYMetadata(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		wantName    string
		description string
	}{
		{"tetra.ply", testPLY, "Tiny Tetrahedron", "Four faces"},
		{"plain_mesh.ply", "ply\nformat ascii 1.0\nelement vertex 0\nend_header\n", "Plain Mesh", ""},
		{"late-comment.ply", "ply\nformat ascii 1.0\nend_header\ncomment Scene: Ignored\n", "Late Comment", ""},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			info, err := ParsePLYMetadata(path)
			if err != nil {
				t.Fatalf("ParsePLYMetadata() error: %v", err)
			}
			if info.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", info.Name, tc.wantName)
			}
			if info.Description != tc.description {
				t.Errorf("Description = %q, want %q", info.Description, tc.description)
			}
			if info.Type != "ply" || info.FilePath != path {
				t.Errorf("unexpected type %q or path %q", info.Type, info.FilePath)
			}
		})
	}
}

func TestParsePLYMetadata_MissingFile(t *testing.T) {
	info, err := ParsePLYMetadata("nonexistent.ply")
	if err != nil {
		t.Errorf("ParsePLYMetadata() should handle missing files gracefully: %v", err)
	}
	if info.ID != "ply:nonexistent" {
		t.Errorf("ID = %q, want ply:nonexistent", info.ID)
	}
}

func TestListMeshScenes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.ply", "a.ply", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("ply\nend_header\n"), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
	}

	scenes, err := ListMeshScenes(dir)
	if err != nil {
		t.Fatalf("ListMeshScenes() error: %v", err)
	}
	if len(scenes) != 2 || scenes[0].Name != "A" || scenes[1].Name != "B" {
		t.Errorf("unexpected scenes %+v", scenes)
	}

	missing, err := ListMeshScenes(filepath.Join(dir, "missing"))
	if err != nil || missing == nil || len(missing) != 0 {
		t.Errorf("expected an empty list for a missing directory, got %v, %v", missing, err)
	}
}

func TestListBuiltinScenes(t *testing.T) {
	expected := []string{"point", "cornell", "spheres", "fog"}
	scenes := ListBuiltinScenes()
	if len(scenes) != len(expected) {
		t.Fatalf("got %d built-in scenes, want %d", len(scenes), len(expected))
	}
	for i, id := range expected {
		if scenes[i].ID != id || scenes[i].Type != "builtin" || scenes[i].Name == "" {
			t.Errorf("scene %d = %+v, want ID %q", i, scenes[i], id)
		}
	}
}

func TestNewSceneFromPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.ply")
	if err := os.WriteFile(path, []byte(testPLY), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	s, err := NewScene(path, core.NewProperties())
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	// Five walls, the light, the Phong sphere and the mesh
	if len(s.Shapes()) != 8 {
		t.Fatalf("expected 8 shapes, got %d", len(s.Shapes()))
	}
	mesh := s.Shapes()[7]
	if mesh.PrimitiveCount() != 4 {
		t.Errorf("mesh has %d triangles, want 4", mesh.PrimitiveCount())
	}
	bounds := mesh.BoundingBox()
	if bounds.Min.Y > 1e-9 || bounds.Max.Y < 219 {
		t.Errorf("mesh bounds %v should rest on the floor and be 220 units tall", bounds)
	}
}

func TestNewSceneUnknown(t *testing.T) {
	if _, err := NewScene("nope", core.NewProperties()); err == nil {
		t.Error("expected an unknown scene to fail")
	}
}
