package loader

import (
	"bytes"
	"path"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/showroom/internal/engine/model"
	"github.com/Faultbox/showroom/internal/engine/scene"
	"github.com/Faultbox/showroom/pkg/formats"
)

// GLTF decodes .glb and .gltf scene bundles.
type GLTF struct{}

// Decode implements Strategy. Files on disk are opened by path so external
// buffers resolve; remote bundles must be self-contained.
func (GLTF) Decode(a Asset) (*scene.Node, error) {
	var doc *gltf.Document
	if a.LocalPath != "" {
		d, err := gltf.Open(a.LocalPath)
		if err != nil {
			return nil, err
		}
		doc = d
	} else {
		doc = new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(a.Data)).Decode(doc); err != nil {
			return nil, err
		}
	}
	return model.FromGLTF(baseName(a.URL), doc)
}

// OBJ decodes Wavefront geometry.
type OBJ struct{}

// Decode implements Strategy.
func (OBJ) Decode(a Asset) (*scene.Node, error) {
	obj, err := formats.ParseOBJ(a.Data)
	if err != nil {
		return nil, err
	}
	return model.FromOBJ(baseName(a.URL), obj), nil
}

func baseName(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	base := path.Base(ref)
	return strings.TrimSuffix(base, path.Ext(base))
}
