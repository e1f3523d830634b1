package scene

import (
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willbeason/tree-armature/pkg/geometry"
	"github.com/willbeason/tree-armature/pkg/tree"
	"testing"
)

func assertVector(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4)
	assert.InDelta(t, want.Y, got.Y, 1e-4)
	assert.InDelta(t, want.Z, got.Z, 1e-4)
}

func TestMaterialize_MatchesGeneratedTree(t *testing.T) {
	params := tree.DefaultParameters()
	params.MaxDepth = 3
	params.BranchesPerSegment = 4

	trunk, err := tree.Generate(params)
	require.NoError(t, err)

	a := New("TreeArmature")
	require.NoError(t, tree.Materialize(trunk, a, false))

	bones := a.Bones()
	require.Len(t, bones, trunk.Count())

	var names []string
	_ = trunk.Walk(func(seg *tree.Segment) error {
		names = append(names, seg.Name)
		return nil
	})

	i := 0
	_ = trunk.Walk(func(seg *tree.Segment) error {
		bone := bones[i]
		assertVector(t, seg.Pose.Head, bone.Head)
		assertVector(t, seg.Tail(), bone.Tail())
		assert.InDelta(t, seg.Roll, bone.Roll, 1e-9)
		if seg.Parent == nil {
			assert.Equal(t, -1, bone.Parent)
		} else {
			assert.Equal(t, seg.Parent.Name, names[bone.Parent])
		}
		i++
		return nil
	})

	// Selection ends back on the trunk.
	active, ok := a.Active()
	assert.True(t, ok)
	assert.Equal(t, tree.Handle(0), active)
	assert.False(t, a.ShowNames)
}

func TestMaterialize_Labels(t *testing.T) {
	params := tree.DefaultParameters()
	params.MaxDepth = 1
	params.BranchesPerSegment = 3

	trunk, err := tree.Generate(params)
	require.NoError(t, err)

	plain := New("Plain")
	require.NoError(t, tree.Materialize(trunk, plain, false))
	var names []string
	for _, b := range plain.Bones() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Bone", "Bone.001", "Bone.002", "Bone.003"}, names)

	labelled := New("Labelled")
	require.NoError(t, tree.Materialize(trunk, labelled, true))
	names = nil
	for _, b := range labelled.Bones() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Trunk", "Bough", "Bough.001", "Bough.002"}, names)
	assert.True(t, labelled.ShowNames)
}

func TestArmature_ExtrudeRequiresActive(t *testing.T) {
	a := New("Tree")
	root, err := a.CreateRoot(geometry.Upright(), 1)
	require.NoError(t, err)

	child, err := a.ExtrudeChild(root, 0.5, geometry.Forward)
	require.NoError(t, err)

	_, err = a.ExtrudeChild(root, 0.5, geometry.Forward)
	assert.ErrorIs(t, err, ErrNotActive)

	require.NoError(t, a.SetActive(root))
	sibling, err := a.ExtrudeChild(root, 0.5, geometry.Forward)
	require.NoError(t, err)
	assert.NotEqual(t, child, sibling)

	b, err := a.Bone(sibling)
	require.NoError(t, err)
	assertVector(t, math32.Vec3(0, 0, 1), b.Head)
	assertVector(t, math32.Vec3(0, 0, 1.5), b.Tail())
}

func TestArmature_Errors(t *testing.T) {
	a := New("Tree")

	_, err := a.ExtrudeChild(0, 1, geometry.Forward)
	assert.ErrorIs(t, err, ErrUnknownBone)

	_, err = a.CreateRoot(geometry.Upright(), 1)
	require.NoError(t, err)
	_, err = a.CreateRoot(geometry.Upright(), 1)
	assert.ErrorIs(t, err, ErrHasRoot)

	assert.ErrorIs(t, a.SetRoll(7, 0), ErrUnknownBone)
	assert.ErrorIs(t, a.AlignOrientation(0, 3), ErrUnknownBone)
	assert.ErrorIs(t, a.Rename(-1, "x"), ErrUnknownBone)
}

func TestArmature_ExtrudeAlongOtherAxes(t *testing.T) {
	a := New("Tree")
	root, err := a.CreateRoot(geometry.Upright(), 1)
	require.NoError(t, err)

	h, err := a.ExtrudeChild(root, 1, geometry.X)
	require.NoError(t, err)
	b, err := a.Bone(h)
	require.NoError(t, err)
	assertVector(t, math32.Vec3(1, 0, 1), b.Tail())

	require.NoError(t, a.SetActive(root))
	h, err = a.ExtrudeChild(root, 1, geometry.Z)
	require.NoError(t, err)
	b, err = a.Bone(h)
	require.NoError(t, err)
	assertVector(t, math32.Vec3(0, -1, 1), b.Tail())
}

func TestArmature_RenameCollision(t *testing.T) {
	a := New("Tree")
	root, err := a.CreateRoot(geometry.Upright(), 1)
	require.NoError(t, err)
	child, err := a.ExtrudeChild(root, 1, geometry.Forward)
	require.NoError(t, err)

	require.NoError(t, a.Rename(root, "Trunk"))
	require.NoError(t, a.Rename(child, "Trunk"))

	b, err := a.Bone(child)
	require.NoError(t, err)
	assert.Equal(t, "Trunk.001", b.Name)
}
