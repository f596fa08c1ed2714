package spreadsheet

import (
	"fmt"
	"slices"
	"strings"
)

type traversalFrame struct {
	name       string
	dependents []string
	next       int
}

// cellsToRecalculate returns start followed by all of its direct and indirect
// dependents, each listed after every cell it depends on.
//
// It walks dependents depth first with an explicit stack and returns the
// reversed post-order. Reaching a cell that is still on the current path
// means the graph has a cycle.
func (s *Spreadsheet) cellsToRecalculate(start string) ([]string, error) {
	postOrder := make([]string, 0)
	onPath := map[string]bool{start: true}
	done := map[string]bool{}

	stack := []*traversalFrame{{name: start, dependents: s.graph.GetDependents(start)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next < len(top.dependents) {
			dependent := top.dependents[top.next]
			top.next++

			if onPath[dependent] {
				return nil, fmt.Errorf("%s: %w", cyclePath(stack, dependent), CircularDependencyError)
			}
			if done[dependent] {
				continue
			}

			onPath[dependent] = true
			stack = append(stack, &traversalFrame{name: dependent, dependents: s.graph.GetDependents(dependent)})
			continue
		}

		stack = stack[:len(stack)-1]
		delete(onPath, top.name)
		done[top.name] = true
		postOrder = append(postOrder, top.name)
	}

	slices.Reverse(postOrder)
	return postOrder, nil
}

// cyclePath renders the cycle as "A1 -> B1 -> A1", following dependents.
func cyclePath(stack []*traversalFrame, closing string) string {
	names := make([]string, 0, len(stack)+1)
	for i := len(stack) - 1; i >= 0; i-- {
		names = append(names, stack[i].name)
		if stack[i].name == closing {
			break
		}
	}
	slices.Reverse(names)

	return strings.Join(append(names, closing), " -> ")
}
