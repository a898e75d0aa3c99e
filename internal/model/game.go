package model

import "time"

// GameState is the full mutable state of one game in progress. Owned by its
// room; mutated only by the game controller under the room's lock.
type GameState struct {
	Pot       int64             `json:"pot"`
	Turn      Turn              `json:"turn"`
	Pieces    map[Color][]*Piece `json:"pieces"`
	StartedAt time.Time         `json:"startedAt"`
}

// PieceByID finds a piece across all colors, or nil
func (g *GameState) PieceByID(id int) *Piece {
	for _, set := range g.Pieces {
		for _, p := range set {
			if p.ID == id {
				return p
			}
		}
	}
	return nil
}

// ActivePieces returns the on-board pieces of one color
func (g *GameState) ActivePieces(color Color) []*Piece {
	var active []*Piece
	for _, p := range g.Pieces[color] {
		if !p.InBase() {
			active = append(active, p)
		}
	}
	return active
}

// BasePieces returns the pieces of one color still in their base
func (g *GameState) BasePieces(color Color) []*Piece {
	var base []*Piece
	for _, p := range g.Pieces[color] {
		if p.InBase() {
			base = append(base, p)
		}
	}
	return base
}

// AllPieces returns every piece on the board and in bases
func (g *GameState) AllPieces() []*Piece {
	var all []*Piece
	for c := Color(0); c < ColorCount; c++ {
		all = append(all, g.Pieces[c]...)
	}
	return all
}

// OccupantsAt returns the active pieces sitting on a cell
func (g *GameState) OccupantsAt(cell Cell) []*Piece {
	var occ []*Piece
	for _, p := range g.AllPieces() {
		if !p.InBase() && p.Position == cell {
			occ = append(occ, p)
		}
	}
	return occ
}
