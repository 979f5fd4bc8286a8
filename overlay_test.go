package nodes

import (
	"context"
	"testing"

	"github.com/adamdonahue/nodes/testutil"
)

func newOverlayTestNode() *Node {
	return newNode(newNodeKey("o", "d", "a"), nil, func(ctx context.Context) (any, error) { return 0, nil })
}

func TestOverlayApplyAndClearRestoresUnoverlaid(t *testing.T) {
	g := New()
	o := newOverlay(g, g.activeLayer(), nil)
	n := newOverlayTestNode()

	o.apply(n, 1)
	testutil.ItsTrue(t, n.IsOverlaid())
	testutil.ItsEqual(t, 1, n.overlaidValue)
	testutil.ItsTrue(t, o.has(n))

	testutil.ItsNil(t, o.clear(n))
	testutil.ItsFalse(t, n.IsOverlaid())
}

func TestOverlayClearUnboundNodeFails(t *testing.T) {
	g := New()
	o := newOverlay(g, g.activeLayer(), nil)
	n := newOverlayTestNode()
	testutil.ItsError(t, ErrNoOverlayPresent, o.clear(n))
}

func TestOverlayEnterTwiceRedirectsToTransientChild(t *testing.T) {
	g := New()
	o := newOverlay(g, g.activeLayer(), nil)

	active1, err := o.enter()
	testutil.ItsNil(t, err)
	testutil.ItsEqual(t, o, active1)

	active2, err := o.enter()
	testutil.ItsNil(t, err)
	testutil.ItsTrue(t, active2 != o)
	testutil.ItsEqual(t, o, active2.parent)
}
