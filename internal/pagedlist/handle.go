package pagedlist

import (
	"reflect"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// RequestPullToRefresh runs the refresh flow on behalf of the owner.
func (c *Controller[T]) RequestPullToRefresh() tea.Cmd { return c.Refresh() }

// RequestUpdateItems replaces the loaded items. The cursor is unchanged.
func (c *Controller[T]) RequestUpdateItems(items []T) {
	if items == nil {
		c.items = []T{}
		return
	}
	c.items = slices.Clone(items)
}

// RemoveItem removes the first item equal to item; absent items are ignored.
func (c *Controller[T]) RemoveItem(item T) {
	eq := c.opts.Equal
	if eq == nil {
		eq = identical[T]
	}
	idx := slices.IndexFunc(c.items, func(it T) bool { return eq(it, item) })
	if idx < 0 {
		return
	}
	c.items = slices.Concat(c.items[:idx], c.items[idx+1:])
}

// AddItemFirst prepends item unless it is nil and bumps the update count.
func (c *Controller[T]) AddItemFirst(item T) {
	if isNil(item) {
		return
	}
	c.items = slices.Concat([]T{item}, c.items)
	c.updateCount++
}

// identical compares with == when the dynamic values allow it. Values that
// cannot be compared, including structs or arrays holding a slice or map in
// an interface field, never match; set Options.Equal for those.
func identical[T any](a, b T) (same bool) {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	if !reflect.TypeOf(va).Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return va == vb
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
