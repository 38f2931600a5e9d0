package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTask(t *testing.T) {
	cases := []struct {
		in   string
		want []Task
	}{
		{in: "all", want: []Task{TaskExtract, TaskTransform, TaskLoad}},
		{in: " ALL ", want: []Task{TaskExtract, TaskTransform, TaskLoad}},
		{in: "extract", want: []Task{TaskExtract}},
		{in: "Transform", want: []Task{TaskTransform}},
		{in: "load", want: []Task{TaskLoad}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTask(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTask_Unknown(t *testing.T) {
	_, err := ParseTask("publish")
	require.ErrorIs(t, err, ErrUnknownTask)
	assert.Contains(t, err.Error(), "publish")
}

func TestExecutionOrder(t *testing.T) {
	g, err := taskGraph()
	require.NoError(t, err)

	order, err := executionOrder(g, []Task{TaskLoad, TaskExtract})
	require.NoError(t, err)
	assert.Equal(t, []Task{TaskExtract, TaskLoad}, order)

	order, err = executionOrder(g, []Task{TaskTransform, TaskLoad, TaskExtract})
	require.NoError(t, err)
	assert.Equal(t, []Task{TaskExtract, TaskTransform, TaskLoad}, order)
}

func TestExecutionOrder_Unknown(t *testing.T) {
	g, err := taskGraph()
	require.NoError(t, err)

	_, err = executionOrder(g, []Task{"publish"})
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestTaskGraph_RejectsCycle(t *testing.T) {
	g, err := taskGraph()
	require.NoError(t, err)

	assert.Error(t, g.AddEdge(TaskLoad, TaskExtract))
}

func TestDownstream(t *testing.T) {
	g, err := taskGraph()
	require.NoError(t, err)

	assert.Equal(t, map[Task]bool{TaskTransform: true, TaskLoad: true}, downstream(g, TaskExtract))
	assert.Equal(t, map[Task]bool{TaskLoad: true}, downstream(g, TaskTransform))
	assert.Empty(t, downstream(g, TaskLoad))
}
