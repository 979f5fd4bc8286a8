package nodes

import (
	"context"
	"testing"

	"github.com/adamdonahue/nodes/testutil"
)

func TestLayerLookupReadsThroughParent(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, _, _ := newTestAccount(g, "a1")
	testutil.ItsNil(t, base.Set(ctx, 5))

	child := newLayer(g, g.activeLayer())
	g.pushLayerFrame(child)
	defer g.popLayerFrame()

	v, err := base.Call(ctx)
	testutil.ItsNil(t, err)
	testutil.ItsEqual(t, 5, v)
}

func TestLayerForkLocalizesWrites(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, _, _ := newTestAccount(g, "a1")
	testutil.ItsNil(t, base.Set(ctx, 5))

	child := newLayer(g, g.activeLayer())
	g.pushLayerFrame(child)

	testutil.ItsNil(t, base.Set(ctx, 9))
	v, _ := base.Call(ctx)
	testutil.ItsEqual(t, 9, v)

	testutil.ItsNil(t, g.popLayerFrame())
	v, _ = base.Call(ctx)
	testutil.ItsEqual(t, 5, v)
}

func TestLayerCreateNodeRejectsDuplicate(t *testing.T) {
	l := newLayer(New(), nil)
	key := newNodeKey("o", "d", "a")
	compute := func(ctx context.Context) (any, error) { return 1, nil }
	_, err := l.createNode(key, compute)
	testutil.ItsNil(t, err)
	_, err = l.createNode(key, compute)
	testutil.ItsError(t, ErrDuplicateNode, err)
}
