package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludosur/parchis-server/internal/model"
)

func TestNextFollowsRing(t *testing.T) {
	b := Standard()

	next, ok := b.Next(model.Red, 10)
	require.True(t, ok)
	assert.Equal(t, model.Cell(11), next)
}

func TestNextWrapsAtRingEnd(t *testing.T) {
	b := Standard()

	// Only yellow's loop point is the literal ring wrap; every other color
	// passes 68 back onto cell 1.
	for _, c := range []model.Color{model.Blue, model.Red, model.Green} {
		next, ok := b.Next(c, 68)
		require.True(t, ok)
		assert.Equal(t, model.Cell(1), next, "color %s", c)
	}

	next, ok := b.Next(model.Yellow, 68)
	require.True(t, ok)
	assert.Equal(t, model.Cell(69), next, "yellow enters its home stretch at 68")
}

func TestNextRedirectsAtEntryCells(t *testing.T) {
	b := Standard()

	cases := []struct {
		color model.Color
		entry model.Cell
		home  model.Cell
	}{
		{model.Yellow, 68, 69},
		{model.Blue, 17, 77},
		{model.Red, 34, 85},
		{model.Green, 51, 93},
	}
	for _, tc := range cases {
		next, ok := b.Next(tc.color, tc.entry)
		require.True(t, ok)
		assert.Equal(t, tc.home, next, "%s entry", tc.color)

		// The same cell is an ordinary track cell for everyone else
		other := tc.color.Next()
		next, ok = b.Next(other, tc.entry)
		require.True(t, ok)
		assert.NotEqual(t, tc.home, next)
	}
}

func TestNextStopsAtGoal(t *testing.T) {
	b := Standard()

	next, ok := b.Next(model.Yellow, 75)
	require.True(t, ok)
	assert.Equal(t, model.Cell(76), next)

	_, ok = b.Next(model.Yellow, 76)
	assert.False(t, ok, "no advance past the goal")
}

func TestDistanceToGoal(t *testing.T) {
	b := Standard()

	// Entry cell -> 7 stretch cells + goal
	assert.Equal(t, 8, b.DistanceToGoal(model.Yellow, 68))
	assert.Equal(t, 1, b.DistanceToGoal(model.Yellow, 75))
	assert.Equal(t, 0, b.DistanceToGoal(model.Yellow, 76))

	// Full lap: blue from its start cell 22 to entry 17 is 63 ring steps,
	// then 8 more into the goal.
	assert.Equal(t, 71, b.DistanceToGoal(model.Blue, b.Start(model.Blue)))
}

func TestEveryColorLapLengthMatches(t *testing.T) {
	b := Standard()
	for c := model.Color(0); c < model.ColorCount; c++ {
		assert.Equal(t, 71, b.DistanceToGoal(c, b.Start(c)), "color %s", c)
	}
}

func TestSafeCells(t *testing.T) {
	b := Standard()
	for c := model.Color(0); c < model.ColorCount; c++ {
		assert.True(t, b.IsSafe(b.Start(c)), "start cells are safe")
		assert.True(t, b.IsSafe(b.Entry(c)), "entry cells are safe")
	}
	assert.False(t, b.IsSafe(6))
	assert.False(t, b.IsSafe(40))
}

func TestResolvePathLengthEqualsSteps(t *testing.T) {
	b := Standard()

	for steps := 1; steps <= 10; steps++ {
		path, err := Resolve(b, model.Green, 3, steps, nil)
		require.NoError(t, err)
		assert.Len(t, path, steps)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	b := Standard()

	first, err := Resolve(b, model.Red, 30, 12, nil)
	require.NoError(t, err)
	second, err := Resolve(b, model.Red, 30, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveEntersHomeStretchAtIndexZero(t *testing.T) {
	b := Standard()

	// A yellow piece sitting on its entry cell advances into home-stretch
	// index 0 on the next step.
	path, err := Resolve(b, model.Yellow, 65, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.Cell{66, 67, 68, 69}, path)
	assert.Equal(t, b.HomeStart(model.Yellow), path[len(path)-1])
}

func TestResolveBouncesOnOvershoot(t *testing.T) {
	b := Standard()

	// From every home-stretch cell, any step count beyond the exact
	// distance to goal is rejected whole.
	for cell := model.Cell(69); cell <= 75; cell++ {
		exact := b.DistanceToGoal(model.Yellow, cell)
		for extra := 1; extra <= HomeStretchLen; extra++ {
			_, err := Resolve(b, model.Yellow, cell, exact+extra, nil)
			assert.ErrorIs(t, err, model.ErrOvershoot, "cell %d steps %d", cell, exact+extra)
		}
		path, err := Resolve(b, model.Yellow, cell, exact, nil)
		require.NoError(t, err)
		assert.Equal(t, b.Goal(model.Yellow), path[len(path)-1])
	}
}

func TestResolveRejectsForeignHomeStretch(t *testing.T) {
	b := Standard()

	_, err := Resolve(b, model.Blue, 70, 2, nil)
	assert.ErrorIs(t, err, model.ErrBadCell)
}

func TestResolveBlockedByIntermediateBlockade(t *testing.T) {
	b := Standard()

	occupied := func(cell model.Cell) int {
		if cell == 12 {
			return 2
		}
		return 0
	}

	_, err := Resolve(b, model.Green, 10, 4, occupied)
	assert.ErrorIs(t, err, model.ErrPathBlocked)

	// Landing exactly on the blockade cell is not the resolver's call
	path, err := Resolve(b, model.Green, 10, 2, occupied)
	require.NoError(t, err)
	assert.Equal(t, model.Cell(12), path[len(path)-1])
}

func TestResolveIgnoresBlockadeCountsInOwnHomeStretch(t *testing.T) {
	b := Standard()

	occupied := func(cell model.Cell) int {
		if cell == 70 {
			return 2 // own pieces stacked in the stretch
		}
		return 0
	}

	path, err := Resolve(b, model.Yellow, 68, 4, occupied)
	require.NoError(t, err)
	assert.Equal(t, model.Cell(72), path[len(path)-1])
}
