// Package collada decodes the geometry subset of Collada (.dae) documents.
package collada

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Input semantics used by meshes
const (
	SemanticVertex   = "VERTEX"
	SemanticPosition = "POSITION"
	SemanticNormal   = "NORMAL"
	SemanticTexCoord = "TEXCOORD"
	SemanticColor    = "COLOR"
)

// Collada is the top-level Collada object
type Collada struct {
	Geometries []Geometry `xml:"library_geometries>geometry"`
}

// Geometry represents Collada's geometry
type Geometry struct {
	Mesh Mesh   `xml:"mesh"`
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// Mesh contains all the primitive data
type Mesh struct {
	Source    []Source  `xml:"source"`
	Vertices  Vertices  `xml:"vertices"`
	Triangles Triangles `xml:"triangles"`
}

// SourceByRef finds a source by its id, with or without the leading '#'
// of a reference.
func (m *Mesh) SourceByRef(ref string) (*Source, error) {
	id := strings.TrimPrefix(ref, "#")
	for i := range m.Source {
		if m.Source[i].ID == id {
			return &m.Source[i], nil
		}
	}
	return nil, fmt.Errorf("collada: source %q not found", ref)
}

// Source holds one array of per-vertex data
type Source struct {
	ID       string   `xml:"id,attr"`
	Floats   Floats   `xml:"float_array"`
	Accessor Accessor `xml:"technique_common>accessor"`
}

// Stride returns the number of floats per element, 1 when not given.
func (s *Source) Stride() int {
	if s.Accessor.Stride > 0 {
		return s.Accessor.Stride
	}
	return 1
}

// Element returns the floats of element i.
func (s *Source) Element(i int) ([]float32, error) {
	stride := s.Stride()
	if i < 0 || (i+1)*stride > len(s.Floats.Data) {
		return nil, fmt.Errorf("collada: element %d out of range of source %q", i, s.ID)
	}
	return s.Floats.Data[i*stride : (i+1)*stride], nil
}

// Accessor describes how a source's array is divided into elements
type Accessor struct {
	Source string `xml:"source,attr"`
	Count  int    `xml:"count,attr"`
	Stride int    `xml:"stride,attr"`
}

// Floats is the array of floats
type Floats struct {
	ID   string
	Data []float32
}

// UnmarshalXML unmarshals the array of floats
func (f *Floats) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			f.ID = attr.Value
		}
	}
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	for _, r := range strings.Fields(raw) {
		num, err := strconv.ParseFloat(r, 32)
		if err != nil {
			return err
		}
		f.Data = append(f.Data, float32(num))
	}
	return nil
}

// Vertices contains the list of vertices
type Vertices struct {
	ID     string  `xml:"id,attr"`
	Inputs []Input `xml:"input"`
}

// Triangles contain the list of triangles
type Triangles struct {
	Count    int     `xml:"count,attr"`
	Material string  `xml:"material,attr"`
	Inputs   []Input `xml:"input"`
	Index    []int
}

// Stride returns the number of indices per vertex.
func (t *Triangles) Stride() int {
	var stride uint
	for _, in := range t.Inputs {
		if in.Offset+1 > stride {
			stride = in.Offset + 1
		}
	}
	return int(stride)
}

// Input returns the input with the given semantic.
func (t *Triangles) Input(semantic string) (Input, bool) {
	return findInput(t.Inputs, semantic)
}

// Input returns the input with the given semantic.
func (v *Vertices) Input(semantic string) (Input, bool) {
	return findInput(v.Inputs, semantic)
}

func findInput(inputs []Input, semantic string) (Input, bool) {
	for _, in := range inputs {
		if in.Semantic == semantic {
			return in, true
		}
	}
	return Input{}, false
}

// UnmarshalXML parses the index list
func (t *Triangles) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "count":
			num, err := strconv.Atoi(attr.Value)
			if err != nil {
				return err
			}
			t.Count = num
		case "material":
			t.Material = attr.Value
		}
	}

	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "input":
				var input Input
				if err := d.DecodeElement(&input, &el); err != nil {
					return err
				}
				t.Inputs = append(t.Inputs, input)
			case "p":
				var raw string
				if err := d.DecodeElement(&raw, &el); err != nil {
					return err
				}
				fields := strings.Fields(raw)
				ints := make([]int, 0, len(fields))
				for _, r := range fields {
					num, err := strconv.Atoi(r)
					if err != nil {
						return err
					}
					ints = append(ints, num)
				}
				t.Index = ints
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if el == start.End() {
				return nil
			}
		}
	}
}

// Input is Collada'a input type
type Input struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   uint   `xml:"offset,attr"`
}
