package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/adamdonahue/nodes/testutil"
)

func TestGraphComputesAndMemoizes(t *testing.T) {
	g := New()
	calls := 0
	owner := &account{}
	descriptor := NewMethodDescriptor[*account, NoArgs, int](
		"calls",
		func(ctx context.Context, owner *account, args NoArgs) (int, error) {
			calls++
			return calls, nil
		},
		0,
	)
	b := NewObjectBinding[*account](g, owner)
	h := BindField(b, descriptor)

	ctx := context.Background()
	v1, err := h.Call(ctx)
	testutil.ItsNil(t, err)
	testutil.ItsEqual(t, 1, v1)

	v2, err := h.Call(ctx)
	testutil.ItsNil(t, err)
	testutil.ItsEqual(t, 1, v2)
	testutil.ItsEqual(t, 1, calls)
}

func TestGraphSetTakesPrecedenceOverComputed(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, _, total := newTestAccount(g, "a1")

	testutil.ItsNil(t, base.Set(ctx, 10))
	v, err := total.Call(ctx)
	testutil.ItsNil(t, err)
	testutil.ItsEqual(t, 10, v)
}

func TestGraphSetInvalidatesDependents(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, _, total := newTestAccount(g, "a1")

	testutil.ItsNil(t, base.Set(ctx, 10))
	v, _ := total.Call(ctx)
	testutil.ItsEqual(t, 10, v)

	testutil.ItsNil(t, base.Set(ctx, 20))
	v, _ = total.Call(ctx)
	testutil.ItsEqual(t, 20, v)
}

func TestGraphClearSetFallsBackToFunction(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, _, _ := newTestAccount(g, "a1")

	testutil.ItsNil(t, base.Set(ctx, 99))
	v, _ := base.Call(ctx)
	testutil.ItsEqual(t, 99, v)

	testutil.ItsNil(t, base.ClearSet(ctx))
	testutil.ItsFalse(t, base.IsSet())
	v, _ = base.Call(ctx)
	testutil.ItsEqual(t, 0, v)
}

func TestGraphOverlayPrecedenceAndUnwind(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, bonus, total := newTestAccount(g, "a1")
	testutil.ItsNil(t, base.Set(ctx, 10))

	root := newOverlay(g, g.activeLayer(), nil)
	_, err := root.enter()
	testutil.ItsNil(t, err)

	testutil.ItsNil(t, bonus.Overlay(ctx, 5))
	v, _ := total.Call(ctx)
	testutil.ItsEqual(t, 15, v)

	testutil.ItsNil(t, root.exit())

	testutil.ItsFalse(t, bonus.IsOverlaid())
	v, _ = total.Call(ctx)
	testutil.ItsEqual(t, 10, v)
}

func TestGraphNestedOverlayStashAndRestore(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, _, bonus, _ := newTestAccount(g, "a1")

	root := newOverlay(g, g.activeLayer(), nil)
	_, err := root.enter()
	testutil.ItsNil(t, err)

	testutil.ItsNil(t, bonus.Overlay(ctx, 7))
	v, _ := bonus.Call(ctx)
	testutil.ItsEqual(t, 7, v)

	// Re-entering the same overlay is apply-only and redirects to a
	// transient child: nested binding stashes the outer value.
	_, err = root.enter()
	testutil.ItsNil(t, err)
	testutil.ItsNil(t, bonus.Overlay(ctx, 9))
	v, _ = bonus.Call(ctx)
	testutil.ItsEqual(t, 9, v)

	testutil.ItsNil(t, g.activeOverlay().exit())
	v, _ = bonus.Call(ctx)
	testutil.ItsEqual(t, 7, v)

	testutil.ItsNil(t, g.activeOverlay().exit())
	testutil.ItsFalse(t, bonus.IsOverlaid())
}

func TestGraphOverlayReappliesBindingsOnReEntryAfterExit(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, bonus, total := newTestAccount(g, "a1")
	testutil.ItsNil(t, base.Set(ctx, 10))

	root := newOverlay(g, g.activeLayer(), nil)
	_, err := root.enter()
	testutil.ItsNil(t, err)
	testutil.ItsNil(t, bonus.Overlay(ctx, 5))
	v, _ := total.Call(ctx)
	testutil.ItsEqual(t, 15, v)
	testutil.ItsNil(t, root.exit())

	// root's own binding outlives the exit: bonus is unoverlaid again,
	// but root still remembers bonus=5 for a later entry to reapply.
	testutil.ItsFalse(t, bonus.IsOverlaid())
	v, _ = total.Call(ctx)
	testutil.ItsEqual(t, 10, v)

	// Re-entering root (without calling bonus.Overlay again) reapplies
	// the remembered binding.
	active, err := root.enter()
	testutil.ItsNil(t, err)
	testutil.ItsTrue(t, active != root)
	testutil.ItsTrue(t, bonus.IsOverlaid())
	v, _ = total.Call(ctx)
	testutil.ItsEqual(t, 15, v)
}

func TestGraphMutationDuringEvaluationIsRejected(t *testing.T) {
	g := New()
	ctx := context.Background()
	owner := &account{}
	b := NewObjectBinding[*account](g, owner)

	var innerErr error
	descriptor := NewMethodDescriptor[*account, NoArgs, int](
		"reentrant",
		func(ctx context.Context, owner *account, args NoArgs) (int, error) {
			innerErr = g.setValue(ctx, &Node{}, 1)
			return 0, nil
		},
		0,
	)
	h := BindField(b, descriptor)
	_, err := h.Call(ctx)
	testutil.ItsNil(t, err)
	testutil.ItsTrue(t, errors.Is(innerErr, ErrEvaluationActive))
}

func TestGraphClearOverlayWithoutActiveScopeFails(t *testing.T) {
	g := New()
	_, _, bonus, _ := newTestAccount(g, "a1")
	ctx := context.Background()
	err := bonus.ClearOverlay(ctx)
	testutil.ItsError(t, ErrNoActiveScope, err)
}

func TestGraphSetOnNonSettableIsNotPermitted(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, _, _, total := newTestAccount(g, "a1")
	err := total.Set(ctx, 5)
	testutil.ItsError(t, ErrNotPermitted, err)
}

func TestGraphClearOverlayOnNonOverlayableIsNotPermitted(t *testing.T) {
	g := New()
	ctx := context.Background()
	_, base, _, _ := newTestAccount(g, "a1")
	err := base.ClearOverlay(ctx)
	testutil.ItsError(t, ErrNotPermitted, err)
}
