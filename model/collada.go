package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sync"

	"github.com/devblok/korufx/util/collada"
	glm "github.com/go-gl/mathgl/mgl32"
)

// DefaultColor is the vertex color of imported meshes without colors
var DefaultColor = glm.Vec4{1.0, 1.0, 0.0, 1.0}

// ImportColladaObject reads given file and converts the first Collada
// geometry to engine's internal object
func ImportColladaObject(fileContents []byte) (Object, error) {
	var colladaModel collada.Collada
	if err := xml.Unmarshal(fileContents, &colladaModel); err != nil {
		return nil, err
	}
	if len(colladaModel.Geometries) == 0 {
		return nil, errors.New("collada: document has no geometry")
	}

	mesh := colladaModel.Geometries[0].Mesh
	positions, positionOffset, err := positionSource(&mesh)
	if err != nil {
		return nil, err
	}

	var (
		normals      *collada.Source
		normalOffset int
	)
	if in, ok := mesh.Triangles.Input(collada.SemanticNormal); ok {
		if normals, err = mesh.SourceByRef(in.Source); err != nil {
			return nil, err
		}
		normalOffset = int(in.Offset)
	}

	stride := mesh.Triangles.Stride()
	if stride == 0 || len(mesh.Triangles.Index)%stride != 0 {
		return nil, fmt.Errorf("collada: %d indices do not divide into vertices of %d", len(mesh.Triangles.Index), stride)
	}

	vertices := make([]Vertex, 0, len(mesh.Triangles.Index)/stride)
	for idx := 0; idx < len(mesh.Triangles.Index)/stride; idx++ {
		indices := mesh.Triangles.Index[stride*idx : (stride*idx)+stride]

		pos, err := positions.Element(indices[positionOffset])
		if err != nil {
			return nil, err
		}
		vert := Vertex{
			Pos:   glm.Vec3{pos[0], pos[1], pos[2]},
			Color: DefaultColor,
		}
		if normals != nil {
			n, err := normals.Element(indices[normalOffset])
			if err != nil {
				return nil, err
			}
			vert.Normal = glm.Vec3{n[0], n[1], n[2]}
		}
		vertices = append(vertices, vert)
	}

	return &ColladaObject{
		position: glm.Ident4(),
		rotation: glm.Ident4(),
		vertices: vertices,
	}, nil
}

// positionSource follows the VERTEX input of the triangles to the
// POSITION input of the vertices element.
func positionSource(mesh *collada.Mesh) (*collada.Source, int, error) {
	in, ok := mesh.Triangles.Input(collada.SemanticVertex)
	if !ok {
		return nil, 0, errors.New("collada: triangles have no VERTEX input")
	}
	pos, ok := mesh.Vertices.Input(collada.SemanticPosition)
	if !ok {
		return nil, 0, errors.New("collada: vertices have no POSITION input")
	}
	source, err := mesh.SourceByRef(pos.Source)
	if err != nil {
		return nil, 0, err
	}
	if source.Stride() < 3 {
		return nil, 0, fmt.Errorf("collada: positions of %d components", source.Stride())
	}
	return source, int(in.Offset), nil
}

// ColladaObject is imported from a collada (.dae) file.
// Loaded and held in memory
type ColladaObject struct {
	Object

	mutex    sync.RWMutex
	position glm.Mat4
	rotation glm.Mat4

	vertices []Vertex
}

// SetPosition implements interface
func (co *ColladaObject) SetPosition(pos glm.Mat4) {
	co.mutex.Lock()
	co.position = pos
	co.mutex.Unlock()
}

// Position implements interface
func (co *ColladaObject) Position() glm.Mat4 {
	co.mutex.RLock()
	defer co.mutex.RUnlock()
	return co.position
}

// SetRotation implements interface
func (co *ColladaObject) SetRotation(rot glm.Mat4) {
	co.mutex.Lock()
	co.rotation = rot
	co.mutex.Unlock()
}

// Rotation implements interface
func (co *ColladaObject) Rotation() glm.Mat4 {
	co.mutex.RLock()
	defer co.mutex.RUnlock()
	return co.rotation
}

// Vertices implements interface
func (co *ColladaObject) Vertices() []Vertex {
	return co.vertices
}
