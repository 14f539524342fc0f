package todo

import "fmt"

// reorderDisplayed removes the element at source from the displayed
// sequence and reinserts it at destination, returning the new sequence.
// The input is not mutated.
func reorderDisplayed(displayed []Todo, source, destination int) ([]Todo, error) {
	if source < 0 || source >= len(displayed) {
		return nil, fmt.Errorf("%w: source %d of %d", ErrReorderOutOfRange, source, len(displayed))
	}
	if destination < 0 || destination >= len(displayed) {
		return nil, fmt.Errorf("%w: destination %d of %d", ErrReorderOutOfRange, destination, len(displayed))
	}

	result := make([]Todo, 0, len(displayed))
	result = append(result, displayed[:source]...)
	result = append(result, displayed[source+1:]...)

	result = append(result, Todo{})
	copy(result[destination+1:], result[destination:])
	result[destination] = displayed[source]
	return result, nil
}

// applyDisplayedOrder merges a reordered displayed subsequence back into
// the full collection. Todos not part of the displayed view keep their
// positions; the positions that held displayed todos are refilled in the
// new displayed order. The collection's existing Order values are then
// reassigned by position, so hidden todos keep a consistent total order
// and only the todos between the moved endpoints change Order.
func applyDisplayedOrder(all []Todo, displayed []Todo) []Todo {
	shown := make(map[int64]bool, len(displayed))
	for _, item := range displayed {
		shown[item.ID] = true
	}

	orders := make([]int, len(all))
	for i, item := range all {
		orders[i] = item.Order
	}

	result := make([]Todo, len(all))
	next := 0
	for i, item := range all {
		if shown[item.ID] && next < len(displayed) {
			result[i] = displayed[next]
			next++
		} else {
			result[i] = item
		}
	}

	for i := range result {
		result[i].Order = orders[i]
	}
	return result
}

// changedOrders returns the todos in next whose Order differs from the
// same todo in previous.
func changedOrders(previous, next []Todo) []Todo {
	orderByID := make(map[int64]int, len(previous))
	for _, item := range previous {
		orderByID[item.ID] = item.Order
	}

	var changed []Todo
	for _, item := range next {
		if before, ok := orderByID[item.ID]; !ok || before != item.Order {
			changed = append(changed, item)
		}
	}
	return changed
}
