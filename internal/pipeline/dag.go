package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Task names a single step of the job.
type Task string

const (
	TaskExtract   Task = "extract"
	TaskTransform Task = "transform"
	TaskLoad      Task = "load"

	// taskAll is accepted by ParseTask as shorthand for every task.
	taskAll = "all"
)

// ErrUnknownTask is returned for a task name outside the DAG.
var ErrUnknownTask = errors.New("unknown task")

// allTasks lists every vertex of the DAG.
var allTasks = []Task{TaskExtract, TaskTransform, TaskLoad}

// taskGraph declares extract >> transform >> load.
func taskGraph() (graph.Graph[Task, Task], error) {
	g := graph.New(func(t Task) Task { return t }, graph.Directed(), graph.PreventCycles())
	for _, t := range allTasks {
		if err := g.AddVertex(t); err != nil {
			return nil, err
		}
	}
	edges := [][2]Task{
		{TaskExtract, TaskTransform},
		{TaskTransform, TaskLoad},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, errors.Wrapf(err, "link %s >> %s", e[0], e[1])
		}
	}
	return g, nil
}

// ParseTask resolves a task name; "all" expands to every task.
func ParseTask(name string) ([]Task, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == taskAll {
		return slices.Clone(allTasks), nil
	}
	switch t := Task(name); t {
	case TaskExtract, TaskTransform, TaskLoad:
		return []Task{t}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
}

// executionOrder returns the requested tasks in dependency order.
func executionOrder(g graph.Graph[Task, Task], requested []Task) ([]Task, error) {
	order, err := graph.TopologicalSort(g)
	if err != nil {
		return nil, errors.Wrap(err, "order tasks")
	}
	for _, t := range requested {
		if !slices.Contains(order, t) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTask, t)
		}
	}

	out := make([]Task, 0, len(requested))
	for _, t := range order {
		if slices.Contains(requested, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// downstream returns every task reachable from t, excluding t itself.
func downstream(g graph.Graph[Task, Task], t Task) map[Task]bool {
	reached := make(map[Task]bool)
	_ = graph.DFS(g, t, func(v Task) bool {
		if v != t {
			reached[v] = true
		}
		return false
	})
	return reached
}
