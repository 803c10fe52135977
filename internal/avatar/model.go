package avatar

import (
	"fmt"

	"github.com/qmuntal/gltf"
)

// Model describes what the bound character asset actually exposes: the
// morph target names the driver may write and the animation clips it
// may play. Different assets expose different morph sets, so the driver
// drops weights for names a model does not carry.
type Model struct {
	morphs map[string]struct{}
	Clips  []string
}

// NewModel builds a Model from explicit morph target and clip names.
func NewModel(morphNames, clips []string) *Model {
	m := &Model{morphs: make(map[string]struct{}, len(morphNames)), Clips: clips}
	for _, n := range morphNames {
		m.morphs[n] = struct{}{}
	}
	return m
}

// DefaultModel covers the full ARKit-style morph set plus the four base
// clips; used when no asset file is configured.
func DefaultModel() *Model {
	names := append([]string{MorphEyeBlinkLeft, MorphEyeBlinkRight}, mouthMorphNames...)
	return NewModel(names, []string{"Idle", "Greeting", "Thinking", "Talking"})
}

// LoadModel reads morph target names and animation clip names from a
// glTF (.glb/.gltf) asset. Target names live in the mesh extras under
// "targetNames"; meshes without them contribute nothing.
func LoadModel(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	if len(doc.Meshes) == 0 {
		return nil, fmt.Errorf("no meshes in %s", path)
	}

	var morphNames []string
	for _, mesh := range doc.Meshes {
		extras, ok := mesh.Extras.(map[string]interface{})
		if !ok {
			continue
		}
		targetNames, ok := extras["targetNames"].([]interface{})
		if !ok {
			continue
		}
		for _, name := range targetNames {
			if s, ok := name.(string); ok {
				morphNames = append(morphNames, s)
			}
		}
	}

	var clips []string
	for _, anim := range doc.Animations {
		if anim.Name != "" {
			clips = append(clips, anim.Name)
		}
	}
	if len(clips) == 0 {
		clips = []string{"Idle", "Greeting", "Thinking", "Talking"}
	}

	return NewModel(morphNames, clips), nil
}

// Has reports whether the model exposes the named morph target.
func (m *Model) Has(name string) bool {
	_, ok := m.morphs[name]
	return ok
}

// MorphCount returns how many morph targets the model exposes.
func (m *Model) MorphCount() int {
	return len(m.morphs)
}
