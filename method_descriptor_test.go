package nodes

import (
	"context"
	"testing"

	"github.com/adamdonahue/nodes/testutil"
)

type testAccount struct{}

func TestMethodDescriptorCapabilities(t *testing.T) {
	balance := NewMethodDescriptor[*testAccount, NoArgs, int](
		"balance",
		func(ctx context.Context, owner *testAccount, args NoArgs) (int, error) { return 0, nil },
		Settable|Serializable,
	)
	testutil.ItsTrue(t, balance.IsSettable())
	testutil.ItsTrue(t, balance.IsSerializable())
	testutil.ItsFalse(t, balance.IsOverlayable())
	testutil.ItsTrue(t, balance.IsSaved())
	testutil.ItsTrue(t, balance.IsChangeable())
	testutil.ItsFalse(t, balance.HasDelegate())

	derived := NewMethodDescriptor[*testAccount, NoArgs, int](
		"derived",
		func(ctx context.Context, owner *testAccount, args NoArgs) (int, error) { return 0, nil },
		0,
	)
	testutil.ItsFalse(t, derived.IsSaved())
	testutil.ItsFalse(t, derived.IsChangeable())
}

func TestMethodDescriptorWithDelegateIsChangeable(t *testing.T) {
	delegated := NewMethodDescriptor[*testAccount, NoArgs, int](
		"delegated",
		func(ctx context.Context, owner *testAccount, args NoArgs) (int, error) { return 0, nil },
		0,
		WithDelegate(func(ctx context.Context, owner *testAccount, args NoArgs, value int) ([]NodeChange, error) {
			return nil, nil
		}),
	)
	testutil.ItsTrue(t, delegated.HasDelegate())
	testutil.ItsTrue(t, delegated.IsChangeable())
	testutil.ItsFalse(t, delegated.IsSettable())
}
