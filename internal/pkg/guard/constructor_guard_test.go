package guard_test

import (
	"errors"
	"testing"

	"github.com/GregTMJ/Orders-API/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("CreateOrderCommand must be created via NewCreateOrderCommand constructor")

	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuard_Embedded shows the guard inside a command-like value.
func TestConstructorGuard_Embedded(t *testing.T) {
	errQueryNotConstructed := errors.New("ListOrdersQuery must be created via NewListOrdersQuery")

	type listOrdersQuery struct {
		ownerID string
		guard   guard.ConstructorGuard
	}

	newQuery := func(ownerID string) listOrdersQuery {
		return listOrdersQuery{ownerID: ownerID, guard: guard.NewConstructorGuard()}
	}

	t.Run("built_through_constructor", func(t *testing.T) {
		q := newQuery("u1")

		require.NoError(t, q.guard.Validate(errQueryNotConstructed))
		assert.Equal(t, "u1", q.ownerID)
	})

	t.Run("literal_zero_value", func(t *testing.T) {
		q := listOrdersQuery{ownerID: "u1"}

		assert.Equal(t, errQueryNotConstructed, q.guard.Validate(errQueryNotConstructed))
	})

	t.Run("copies_keep_state", func(t *testing.T) {
		q := newQuery("u2")
		copied := q

		require.NoError(t, copied.guard.Validate(errQueryNotConstructed))
	})
}

func TestConstructorGuard_Concurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan struct{})
	for range 50 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				assert.NoError(t, g.Validate(validationError))
			}
		}()
	}
	for range 50 {
		<-done
	}
}
