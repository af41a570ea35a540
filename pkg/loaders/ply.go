package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
	Comments []string
}

// PLYElement is an element declaration with its properties in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the triangulated geometry loaded from a PLY file
type PLYData struct {
	Vertices  []core.Vec3 // Vertex positions (x, y, z)
	Faces     [][3]int    // Triangle indices, polygons are fan-triangulated
	Normals   []core.Vec3 // Per-vertex normals (nx, ny, nz) - empty if not present
	TexCoords []core.Vec2 // Per-vertex texture coordinates (u, v) - empty if not present
	Comments  []string    // Header comments
}

// LoadPLY loads a PLY file in any of the three standard encodings
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %v", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}

	fmt.Printf("Loaded PLY data: %d vertices, %d triangles in %v\n",
		len(data.Vertices), len(data.Faces), time.Since(startTime))
	return data, nil
}

// ReadPLY parses PLY data from r
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %v", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	data := &PLYData{Comments: header.Comments}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %v", element.Name, err)
		}
	}
	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header is not terminated by end_header")
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimPrefix(line, parts[0])))
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property declared before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %v", err)
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("unexpected header line: %q", line)
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("missing format line")
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported list types %s %s", prop.ListType, prop.DataType)
		}
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
		if getTypeSize(prop.Type) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported data type: %s", prop.Type)
		}
	}

	return prop, nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader decodes one scalar of the given PLY type
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, a.scanner.Text())
	}
	return value, nil
}

type binaryValueReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.reader, buf); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "char", "int8":
		return float64(int8(buf[0])), nil
	default: // uchar, uint8
		return float64(buf[0]), nil
	}
}

// readList reads a list property's count followed by its entries
func readList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.read(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count != math.Trunc(count) {
		return nil, fmt.Errorf("invalid list length %v", count)
	}
	list := make([]float64, int(count))
	for i := range list {
		if list[i], err = values.read(prop.DataType); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// readVertices reads positions plus optional normals and texture coordinates
func readVertices(values plyValueReader, element PLYElement, data *PLYData) error {
	index := make(map[string]int, len(element.Props))
	for i, prop := range element.Props {
		index[prop.Name] = i
	}
	lookup := func(names ...string) int {
		for _, name := range names {
			if i, ok := index[name]; ok {
				return i
			}
		}
		return -1
	}

	px, py, pz := lookup("x"), lookup("y"), lookup("z")
	if px < 0 || py < 0 || pz < 0 {
		return fmt.Errorf("vertex element lacks x, y or z")
	}
	nx, ny, nz := lookup("nx"), lookup("ny"), lookup("nz")
	hasNormals := nx >= 0 && ny >= 0 && nz >= 0
	tu, tv := lookup("u", "s", "texture_u"), lookup("v", "t", "texture_v")
	hasTexCoords := tu >= 0 && tv >= 0

	data.Vertices = make([]core.Vec3, 0, element.Count)
	if hasNormals {
		data.Normals = make([]core.Vec3, 0, element.Count)
	}
	if hasTexCoords {
		data.TexCoords = make([]core.Vec2, 0, element.Count)
	}

	row := make([]float64, len(element.Props))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Props {
			if prop.IsList {
				if _, err := readList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %v", v, err)
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %v", v, err)
			}
			row[i] = value
		}

		data.Vertices = append(data.Vertices, core.NewVec3(row[px], row[py], row[pz]))
		if hasNormals {
			data.Normals = append(data.Normals, core.NewVec3(row[nx], row[ny], row[nz]))
		}
		if hasTexCoords {
			data.TexCoords = append(data.TexCoords, core.NewVec2(row[tu], row[tv]))
		}
	}
	return nil
}

// readFaces reads vertex index lists and fan-triangulates polygons
func readFaces(values plyValueReader, element PLYElement, data *PLYData) error {
	data.Faces = make([][3]int, 0, element.Count)
	found := false

	for f := 0; f < element.Count; f++ {
		for _, prop := range element.Props {
			if !prop.IsList {
				if _, err := values.read(prop.Type); err != nil {
					return fmt.Errorf("face %d: %v", f, err)
				}
				continue
			}

			list, err := readList(values, prop)
			if err != nil {
				return fmt.Errorf("face %d: %v", f, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			found = true
			if len(list) < 3 {
				return fmt.Errorf("face %d has %d vertices", f, len(list))
			}
			for i := 1; i+1 < len(list); i++ {
				data.Faces = append(data.Faces, [3]int{int(list[0]), int(list[i]), int(list[i+1])})
			}
		}
	}

	if element.Count > 0 && !found {
		return fmt.Errorf("face element lacks vertex_indices")
	}
	return nil
}

// skipElement consumes an element the loader does not use
func skipElement(values plyValueReader, element PLYElement) error {
	for e := 0; e < element.Count; e++ {
		for _, prop := range element.Props {
			var err error
			if prop.IsList {
				_, err = readList(values, prop)
			} else {
				_, err = values.read(prop.Type)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Bounds returns the bounding box of the vertex positions
func (d *PLYData) Bounds() core.AABB {
	return core.NewAABBFromPoints(d.Vertices...)
}

// ToMesh transforms the data to world space and builds a mesh. Normals are
// transformed as directions, which is exact for rotations, translations and
// uniform scales.
func (d *PLYData) ToMesh(toWorld core.Transform) (*geometry.Mesh, error) {
	positions := make([]core.Vec3, len(d.Vertices))
	for i, p := range d.Vertices {
		positions[i] = toWorld.Point(p)
	}

	var normals []core.Vec3
	if len(d.Normals) > 0 {
		normals = make([]core.Vec3, len(d.Normals))
		for i, n := range d.Normals {
			normals[i] = toWorld.Vector(n).Normalize()
		}
	}

	return geometry.NewMesh(positions, d.Faces, normals, d.TexCoords)
}
