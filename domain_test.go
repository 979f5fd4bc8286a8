package nodes

import "context"

// account is a small test fixture shared across this package's tests: a
// Base value a user can Set, a Bonus an overlay can force, and a Total
// derived from both — enough surface to exercise read/write/overlay/
// invalidation behavior end to end.
type account struct {
	id string
}

var (
	baseMethod = NewMethodDescriptor[*account, NoArgs, int](
		"base",
		func(ctx context.Context, owner *account, args NoArgs) (int, error) { return 0, nil },
		Settable|Serializable,
	)
	bonusMethod = NewMethodDescriptor[*account, NoArgs, int](
		"bonus",
		func(ctx context.Context, owner *account, args NoArgs) (int, error) { return 0, nil },
		Overlayable,
	)
)

func totalMethod(b *ObjectBinding[*account]) *MethodDescriptor[*account, NoArgs, int] {
	return NewMethodDescriptor[*account, NoArgs, int](
		"total",
		func(ctx context.Context, owner *account, args NoArgs) (int, error) {
			base, err := BindField(b, baseMethod).Call(ctx)
			if err != nil {
				return 0, err
			}
			bonus, err := BindField(b, bonusMethod).Call(ctx)
			if err != nil {
				return 0, err
			}
			return base + bonus, nil
		},
		0,
	)
}

func newTestAccount(g *Graph, id string) (*ObjectBinding[*account], *Field[*account, int], *Field[*account, int], *Field[*account, int]) {
	owner := &account{id: id}
	b := NewObjectBinding[*account](g, owner)
	base := BindField(b, baseMethod)
	bonus := BindField(b, bonusMethod)
	total := BindField(b, totalMethod(b))
	return b, base, bonus, total
}
