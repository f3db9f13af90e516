package model

import (
	"os"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
)

func TestImportColladaObject(t *testing.T) {
	c := qt.New(t)
	contents, err := os.ReadFile("testdata/cube.dae")
	c.Assert(err, qt.IsNil)

	obj, err := ImportColladaObject(contents)
	c.Assert(err, qt.IsNil)

	vertices := obj.Vertices()
	c.Assert(vertices, qt.HasLen, 36)
	c.Assert(vertices[0].Pos, qt.Equals, glm.Vec3{-1, -1, -1})
	c.Assert(vertices[0].Normal, qt.Equals, glm.Vec3{0, 0, -1})
	c.Assert(vertices[2].Pos, qt.Equals, glm.Vec3{1, -1, -1})
	c.Assert(vertices[6].Normal, qt.Equals, glm.Vec3{0, 0, 1})
	c.Assert(vertices[35].Color, qt.Equals, DefaultColor)
}

func TestImportColladaErrors(t *testing.T) {
	c := qt.New(t)

	_, err := ImportColladaObject([]byte(`<COLLADA></COLLADA>`))
	c.Assert(err, qt.ErrorMatches, "collada: document has no geometry")

	_, err = ImportColladaObject([]byte(`<COLLADA><library_geometries><geometry><mesh>
<triangles count="1"><input semantic="NORMAL" source="#n" offset="0"/><p>0 0 0</p></triangles>
</mesh></geometry></library_geometries></COLLADA>`))
	c.Assert(err, qt.ErrorMatches, "collada: triangles have no VERTEX input")

	_, err = ImportColladaObject([]byte(`<COLLADA><library_geometries><geometry><mesh>
<source id="p"><float_array>0 0 0</float_array><technique_common><accessor stride="3"/></technique_common></source>
<vertices id="v"><input semantic="POSITION" source="#p"/></vertices>
<triangles count="1"><input semantic="VERTEX" source="#v" offset="0"/><p>0 0 4</p></triangles>
</mesh></geometry></library_geometries></COLLADA>`))
	c.Assert(err, qt.ErrorMatches, `collada: element 4 out of range of source "p"`)

	_, err = ImportColladaObject([]byte(`<COLLADA`))
	c.Assert(err, qt.IsNotNil)
}

func TestObjectTransform(t *testing.T) {
	c := qt.New(t)
	contents, err := os.ReadFile("testdata/cube.dae")
	c.Assert(err, qt.IsNil)
	obj, err := ImportColladaObject(contents)
	c.Assert(err, qt.IsNil)

	c.Assert(obj.Position(), qt.Equals, glm.Ident4())
	c.Assert(obj.Rotation(), qt.Equals, glm.Ident4())

	rot := glm.HomogRotate3DZ(glm.DegToRad(90))
	pos := glm.Translate3D(1, 2, 3)
	obj.SetRotation(rot)
	obj.SetPosition(pos)
	c.Assert(obj.Rotation(), qt.Equals, rot)
	c.Assert(obj.Position(), qt.Equals, pos)
	c.Assert(Matrix(obj), qt.Equals, pos.Mul4(rot))
}
