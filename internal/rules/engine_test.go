package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludosur/parchis-server/internal/board"
	"github.com/ludosur/parchis-server/internal/model"
)

func newEngine(variant model.Variant) *Engine {
	return New(board.Standard(), Config{
		ExitValue:     DefaultExitValue,
		Variant:       variant,
		ForcedCapture: true,
	})
}

func newGame(pieceCount int) *model.GameState {
	g := &model.GameState{Pieces: make(map[model.Color][]*model.Piece)}
	for c := model.Color(0); c < model.ColorCount; c++ {
		g.Pieces[c] = model.NewPieceSet(c, pieceCount)
	}
	g.Turn.Reset(0)
	return g
}

func place(g *model.GameState, color model.Color, ordinal int, cell model.Cell) *model.Piece {
	p := g.Pieces[color][ordinal]
	p.Enter(cell)
	return p
}

func setDice(g *model.GameState, d1, d2 int) {
	g.Turn.Dice = [2]int{d1, d2}
	g.Turn.Moves = []int{d1, d2}
	g.Turn.CanRoll = false
}

func movesFor(moves []model.Move, pieceID int) []model.Move {
	var out []model.Move
	for _, m := range moves {
		if m.PieceID == pieceID {
			out = append(out, m)
		}
	}
	return out
}

func TestExitOnSingleDie(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	setDice(g, 5, 3)

	moves := e.PossibleMoves(g, model.Yellow)

	var exits []model.Move
	for _, m := range moves {
		if m.IsExit {
			exits = append(exits, m)
		}
	}
	require.Len(t, exits, 1)
	assert.Equal(t, model.Cell(5), exits[0].To)
	assert.Equal(t, 5, exits[0].Die)
	assert.False(t, exits[0].UsesBoth)
}

func TestExitOnDiceSum(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	setDice(g, 2, 3)

	moves := e.PossibleMoves(g, model.Green)

	require.Len(t, moves, 1)
	assert.True(t, moves[0].IsExit)
	assert.True(t, moves[0].UsesBoth)
	assert.Equal(t, model.Cell(56), moves[0].To)
}

func TestExitCapturesSingleOpponentOnStartCell(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	victim := place(g, model.Blue, 0, 5) // sitting on yellow's start
	setDice(g, 5, 1)

	moves := e.PossibleMoves(g, model.Yellow)

	var exit *model.Move
	for i := range moves {
		if moves[i].IsExit {
			exit = &moves[i]
		}
	}
	require.NotNil(t, exit)
	require.NotNil(t, exit.Captures)
	assert.Equal(t, victim.ID, exit.Captures.PieceID)
}

func TestExitBlockedByTwoOccupantsOnStartCell(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	place(g, model.Blue, 0, 5)
	place(g, model.Blue, 1, 5)
	setDice(g, 5, 5)

	moves := e.PossibleMoves(g, model.Yellow)
	for _, m := range moves {
		assert.False(t, m.IsExit, "start cell holds a blockade")
	}
}

func TestNoMoveTargetsBlockadedCell(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	mover := place(g, model.Yellow, 0, 10)
	place(g, model.Blue, 0, 13)
	place(g, model.Blue, 1, 13)
	place(g, model.Yellow, 1, 16) // second active piece avoids larger-die rule
	setDice(g, 3, 6)

	moves := e.PossibleMoves(g, model.Yellow)
	for _, m := range moves {
		assert.NotEqual(t, model.Cell(13), m.To)
	}
	// Landing on 13 and passing through it are both blocked
	assert.Empty(t, movesFor(moves, mover.ID))
}

func TestCaptureOnOrdinaryCell(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	place(g, model.Yellow, 0, 10)
	victim := place(g, model.Red, 0, 13)
	setDice(g, 3, 4)

	moves := e.PossibleMoves(g, model.Yellow)

	var capture *model.Move
	for i := range moves {
		if moves[i].Captures != nil {
			capture = &moves[i]
		}
	}
	require.NotNil(t, capture)
	assert.Equal(t, model.Cell(13), capture.To)
	assert.Equal(t, victim.ID, capture.Captures.PieceID)
}

func TestNoCaptureOnSafeCell(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	place(g, model.Yellow, 0, 9)
	place(g, model.Red, 0, 12) // 12 is safe
	setDice(g, 3, 6)

	moves := e.PossibleMoves(g, model.Yellow)
	for _, m := range moves {
		if m.To == 12 {
			assert.Nil(t, m.Captures, "safe cells never allow capture")
		}
	}
}

func TestSumMoveEnumerated(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	p := place(g, model.Yellow, 0, 10)
	place(g, model.Yellow, 1, 20)
	setDice(g, 2, 3)

	moves := movesFor(e.PossibleMoves(g, model.Yellow), p.ID)

	dests := make(map[model.Cell]bool)
	for _, m := range moves {
		dests[m.To] = true
	}
	assert.True(t, dests[12], "single die 2")
	assert.True(t, dests[13], "single die 3")
	assert.True(t, dests[15], "dice sum")
}

func TestLargerDieForcedForSingleActivePiece(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(2)
	// Only piece is 4 cells from its goal: the sum (7) bounces, the larger
	// die fits, so the smaller die alone is not playable.
	place(g, model.Yellow, 0, 72)
	place(g, model.Yellow, 1, 76) // already home
	setDice(g, 3, 4)

	moves := e.PossibleMoves(g, model.Yellow)

	require.Len(t, moves, 1)
	assert.Equal(t, 4, moves[0].Die)
	assert.False(t, moves[0].UsesBoth)
}

func TestOwnBlockadePiecesMoveOnAnyRoll(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(2)
	// Two pieces seeded on the start cell form a blockade; the opening
	// roll must still be playable.
	place(g, model.Yellow, 0, 5)
	place(g, model.Yellow, 1, 5)
	setDice(g, 3, 4)

	moves := e.PossibleMoves(g, model.Yellow)
	require.NotEmpty(t, moves)

	dests := make(map[model.Cell]bool)
	for _, m := range moves {
		assert.True(t, m.BreaksBlockade)
		dests[m.To] = true
	}
	assert.True(t, dests[8])
	assert.True(t, dests[9])
	assert.True(t, dests[12])
}

func TestBlockadeMovesFlaggedOnDoubles(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	place(g, model.Yellow, 0, 10)
	place(g, model.Yellow, 1, 10)
	setDice(g, 4, 4)

	moves := e.PossibleMoves(g, model.Yellow)
	require.NotEmpty(t, moves)
	for _, m := range moves {
		assert.True(t, m.BreaksBlockade)
	}
}

func TestPrizeDistanceIsOnlySpendableValue(t *testing.T) {
	e := newEngine(model.VariantPrizeDistance)
	g := newGame(4)
	p := place(g, model.Yellow, 0, 10)
	setDice(g, 3, 4)
	g.Turn.PrizeMoves = 20

	moves := e.PossibleMoves(g, model.Yellow)

	require.Len(t, moves, 1)
	assert.True(t, moves[0].IsPrize)
	assert.Equal(t, 20, moves[0].Die)
	assert.Equal(t, p.ID, moves[0].PieceID)
	assert.Equal(t, model.Cell(30), moves[0].To)
}

func TestFindCaptureDue(t *testing.T) {
	moves := []model.Move{
		{PieceID: 1, Die: 3},
		{PieceID: 2, Die: 4, Captures: &model.CaptureInfo{PieceID: 9}},
	}
	due := FindCaptureDue(moves)
	require.NotNil(t, due)
	assert.Equal(t, 2, due.PieceID)

	assert.Nil(t, FindCaptureDue(moves[:1]))
}

func TestOwnBlockades(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(4)
	place(g, model.Yellow, 0, 10)
	place(g, model.Yellow, 1, 10)
	place(g, model.Yellow, 2, 30)
	place(g, model.Blue, 0, 40)
	place(g, model.Yellow, 3, 40) // mixed stack is not an own blockade

	cells := e.OwnBlockades(g, model.Yellow)
	assert.Equal(t, []model.Cell{10}, cells)
}

func TestAllHome(t *testing.T) {
	e := newEngine(model.VariantClassic)
	g := newGame(2)
	assert.False(t, e.AllHome(g, model.Red))

	place(g, model.Red, 0, 92)
	assert.False(t, e.AllHome(g, model.Red))

	place(g, model.Red, 1, 92)
	assert.True(t, e.AllHome(g, model.Red))
}
