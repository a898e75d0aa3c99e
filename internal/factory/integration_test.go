package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ludosur/parchis-server/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.app.Close()
}

func (s *IntegrationSuite) createPlayer(name string) model.Player {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)
	return session.Player
}

func (s *IntegrationSuite) settings() model.Settings {
	return model.Settings{
		Bet:         100,
		BetCurrency: "USD",
		PieceCount:  2,
		AutoExit:    model.ExitModeAuto,
		Variant:     model.VariantClassic,
		HostColor:   model.Yellow,
	}
}

// Test: room creation through the first full turn
func (s *IntegrationSuite) TestFullTurnFlow() {
	s.app.MockRandom.QueueString("ROOM01")

	host := s.createPlayer("Host Player")
	guest := s.createPlayer("Guest Player")

	rm, err := s.app.RoomController.CreateRoom(s.ctx, host, s.settings())
	s.Require().NoError(err)
	s.Equal(model.RoomID("ROOM01"), rm.ID)

	_, err = s.app.RoomController.JoinRoom(s.ctx, rm.ID, guest)
	s.Require().NoError(err)

	rm, err = s.app.RoomController.StartGame(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatePlaying, rm.State)
	s.Require().NotNil(rm.Game)
	s.Equal(int64(200), rm.Game.Pot)

	// Antes were debited on start
	hostAcct, err := s.app.Storage.GetPlayer(s.ctx, host.ID)
	s.Require().NoError(err)
	s.Equal(int64(900), hostAcct.Credits)

	// Auto-exit seeded both yellow pieces on the start cell
	for _, p := range rm.Game.Pieces[model.Yellow] {
		s.Equal(model.Cell(5), p.Position)
	}

	// Host is yellow and opens; roll 3 and 4
	s.app.MockRandom.QueueDie(3, 4)
	rm, err = s.app.GameController.RollDice(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)
	s.Equal([2]int{3, 4}, rm.Game.Turn.Dice)
	s.NotEmpty(rm.Game.Turn.PossibleMoves)

	// Spend the 3 on piece 0, the 4 on piece 1
	rm, err = s.app.GameController.MovePiece(s.ctx, rm.ID, host.ID, 0, 3, false)
	s.Require().NoError(err)
	s.Equal(model.Cell(8), rm.Game.PieceByID(0).Position)

	rm, err = s.app.GameController.MovePiece(s.ctx, rm.ID, host.ID, 1, 4, false)
	s.Require().NoError(err)
	s.Equal(model.Cell(9), rm.Game.PieceByID(1).Position)

	// Dice exhausted, no bonus: turn passed to the blue seat
	s.Equal(1, rm.Game.Turn.PlayerIndex)
	s.True(rm.Game.Turn.CanRoll)
}

// Test: winning settles the pot and the rematch deals a fresh game
func (s *IntegrationSuite) TestWinSettlementAndRematch() {
	s.app.MockRandom.QueueString("ROOM01")

	host := s.createPlayer("Host Player")
	guest := s.createPlayer("Guest Player")

	rm, err := s.app.RoomController.CreateRoom(s.ctx, host, s.settings())
	s.Require().NoError(err)
	_, err = s.app.RoomController.JoinRoom(s.ctx, rm.ID, guest)
	s.Require().NoError(err)
	rm, err = s.app.RoomController.StartGame(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)

	// Put yellow on the brink: one piece home, the other two short of goal
	rm.Game.Pieces[model.Yellow][0].Enter(76)
	rm.Game.Pieces[model.Yellow][1].Enter(74)
	s.Require().NoError(s.app.Storage.SaveRoom(s.ctx, rm))

	s.app.MockRandom.QueueDie(2, 5)
	rm, err = s.app.GameController.RollDice(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)
	s.Require().Len(rm.Game.Turn.PossibleMoves, 1)

	rm, err = s.app.GameController.MovePiece(s.ctx, rm.ID, host.ID, 1, 2, false)
	s.Require().NoError(err)
	s.Equal(model.RoomStatePostGame, rm.State)
	s.Require().NotNil(rm.Rematch)
	s.Equal([]model.PlayerID{host.ID}, rm.Rematch.WinnerIDs)

	// Pot 200, 10% commission: winner nets 180 on top of the 900 left
	hostAcct, err := s.app.Storage.GetPlayer(s.ctx, host.ID)
	s.Require().NoError(err)
	s.Equal(int64(1080), hostAcct.Credits)

	// Both confirm; the winner deals again
	_, err = s.app.RoomController.ConfirmRematch(s.ctx, rm.ID, guest.ID)
	s.Require().NoError(err)
	rm, err = s.app.RoomController.ConfirmRematch(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)
	s.True(rm.Rematch.CanStart)

	rm, err = s.app.RoomController.StartRematch(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatePlaying, rm.State)
	s.Equal(int64(200), rm.Game.Pot)
	s.Nil(rm.Rematch)

	// Fresh antes collected
	hostAcct, err = s.app.Storage.GetPlayer(s.ctx, host.ID)
	s.Require().NoError(err)
	s.Equal(int64(980), hostAcct.Credits)
}

// Test: leaving mid-game forfeits and pays the remaining player
func (s *IntegrationSuite) TestMidGameLeaveForfeits() {
	s.app.MockRandom.QueueString("ROOM01")

	host := s.createPlayer("Host Player")
	guest := s.createPlayer("Guest Player")

	rm, err := s.app.RoomController.CreateRoom(s.ctx, host, s.settings())
	s.Require().NoError(err)
	_, err = s.app.RoomController.JoinRoom(s.ctx, rm.ID, guest)
	s.Require().NoError(err)
	_, err = s.app.RoomController.StartGame(s.ctx, rm.ID, host.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.app.RoomController.LeaveRoom(s.ctx, rm.ID, host.ID))

	rm, err = s.app.RoomController.GetRoom(s.ctx, rm.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatePostGame, rm.State)

	guestAcct, err := s.app.Storage.GetPlayer(s.ctx, guest.ID)
	s.Require().NoError(err)
	s.Equal(int64(1080), guestAcct.Credits)
}

// Test: the last player leaving deletes the room
func (s *IntegrationSuite) TestLastLeaverDeletesRoom() {
	s.app.MockRandom.QueueString("ROOM01")

	host := s.createPlayer("Host Player")
	rm, err := s.app.RoomController.CreateRoom(s.ctx, host, s.settings())
	s.Require().NoError(err)

	s.Require().NoError(s.app.RoomController.LeaveRoom(s.ctx, rm.ID, host.ID))

	_, err = s.app.RoomController.GetRoom(s.ctx, rm.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}
