package room

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ludosur/parchis-server/internal/dependencies/mocks"
	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/scheduler"
	"github.com/ludosur/parchis-server/internal/services/auth"
	"github.com/ludosur/parchis-server/internal/services/game"
	"github.com/ludosur/parchis-server/internal/services/settlement"
	"github.com/ludosur/parchis-server/internal/storage/memory"
	"github.com/ludosur/parchis-server/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	emitter    *testutil.RecordingEmitter
	scheduler  *scheduler.Scheduler
	wallet     *auth.Service
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.emitter = testutil.NewRecordingEmitter()
	logger := testutil.NopLogger()
	s.scheduler = scheduler.New(logger)
	s.ctx = context.Background()

	s.wallet = auth.New(s.storage, s.clock, auth.DefaultConfig())
	settle := settlement.New(s.wallet, s.storage, logger, settlement.DefaultConfig())
	locks := game.NewLocks()
	gameController := game.NewController(
		s.storage, settle, s.scheduler, locks, s.emitter,
		s.clock, s.random, logger, game.Config{NoMoveDelay: 0},
	)

	s.controller = NewController(
		s.storage, gameController, settle, s.wallet, s.scheduler,
		locks, s.emitter, s.clock, s.random, logger,
	)
}

func (s *ControllerSuite) TearDownTest() {
	s.scheduler.Close()
}

func (s *ControllerSuite) savePlayer(id model.PlayerID, name string, credits int64) model.Player {
	player := model.Player{
		ID:          id,
		DisplayName: name,
		Credits:     credits,
		Currency:    "USD",
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &player))
	return player
}

func defaultSettings() model.Settings {
	return model.Settings{
		Bet:         100,
		BetCurrency: "USD",
		PieceCount:  4,
		AutoExit:    model.ExitModeDouble,
		Variant:     model.VariantClassic,
		HostColor:   model.Yellow,
	}
}

func (s *ControllerSuite) createRoom(settings model.Settings) *model.Room {
	host := s.savePlayer("p-1", "Alice", 1000)
	s.random.QueueString("ROOM01")
	room, err := s.controller.CreateRoom(s.ctx, host, settings)
	s.Require().NoError(err)
	return room
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateRoomSeatsHost() {
	room := s.createRoom(defaultSettings())

	s.Equal(model.RoomID("ROOM01"), room.ID)
	s.Equal(model.RoomStateWaiting, room.State)
	s.Equal(model.PlayerID("p-1"), room.Seats[0].PlayerID)
	s.Equal(model.SeatStatusWaiting, room.Seats[0].Status)
	s.Equal(0, room.HostIndex)
}

func (s *ControllerSuite) TestCreateRoomAssignsColorsFromHostColor() {
	settings := defaultSettings()
	settings.HostColor = model.Blue
	room := s.createRoom(settings)

	s.Equal(model.Blue, room.Seats[0].Color)
	s.Equal(model.Red, room.Seats[1].Color)
	s.Equal(model.Green, room.Seats[2].Color)
	s.Equal(model.Yellow, room.Seats[3].Color)
}

func (s *ControllerSuite) TestCreateRoomRejectsBadSettings() {
	host := s.savePlayer("p-1", "Alice", 1000)
	settings := defaultSettings()
	settings.PieceCount = 3

	_, err := s.controller.CreateRoom(s.ctx, host, settings)
	s.ErrorIs(err, model.ErrInvalidSettings)
}

// JoinRoom tests

func (s *ControllerSuite) TestJoinRoomTakesFirstOpenSeat() {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 1000)

	room, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-2"), room.Seats[1].PlayerID)
	s.Equal(model.SeatStatusWaiting, room.Seats[1].Status)
	s.Len(s.emitter.ByName(model.EventSeatsUpdated), 1)
}

func (s *ControllerSuite) TestJoinRoomRejectsDoubleSeating() {
	s.createRoom(defaultSettings())
	alice := s.savePlayer("p-1", "Alice", 1000)

	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", alice)
	s.ErrorIs(err, model.ErrAlreadySeated)
}

func (s *ControllerSuite) TestJoinRoomRejectsWhenFull() {
	s.createRoom(defaultSettings())
	for i := 2; i <= 4; i++ {
		p := s.savePlayer(model.PlayerID(fmt.Sprintf("p-%d", i)), "x", 1000)
		_, err := s.controller.JoinRoom(s.ctx, "ROOM01", p)
		s.Require().NoError(err)
	}

	late := s.savePlayer("p-9", "Late", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", late)
	s.ErrorIs(err, model.ErrRoomFull)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameRequiresHost() {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, "ROOM01", "p-2")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestStartGameRequiresTwoPlayers() {
	s.createRoom(defaultSettings())

	_, err := s.controller.StartGame(s.ctx, "ROOM01", "p-1")
	s.ErrorIs(err, model.ErrNotEnoughPlayers)
}

func (s *ControllerSuite) TestStartGameCollectsAntesIntoPot() {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)

	room, err := s.controller.StartGame(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)

	s.Equal(model.RoomStatePlaying, room.State)
	s.Require().NotNil(room.Game)
	s.Equal(int64(200), room.Game.Pot)
	s.Len(room.Game.Pieces[model.Yellow], 4)
	s.Len(room.Game.Pieces[model.Blue], 4)

	// Yellow seat opens
	s.Equal(0, room.Game.Turn.PlayerIndex)
	s.True(room.Game.Turn.CanRoll)

	alice, _ := s.storage.GetPlayer(s.ctx, "p-1")
	s.Equal(int64(900), alice.Credits)

	s.Len(s.emitter.ByName(model.EventGameStarted), 1)
}

func (s *ControllerSuite) TestStartGameAutoExitSeedsStartCell() {
	settings := defaultSettings()
	settings.AutoExit = model.ExitModeAuto
	s.createRoom(settings)
	bob := s.savePlayer("p-2", "Bob", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)

	room, err := s.controller.StartGame(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)

	// Yellow starts at 5, blue at 22; two pieces each seeded on board
	yellow := room.Game.Pieces[model.Yellow]
	s.Equal(model.Cell(5), yellow[0].Position)
	s.Equal(model.Cell(5), yellow[1].Position)
	s.True(yellow[2].InBase())

	blue := room.Game.Pieces[model.Blue]
	s.Equal(model.Cell(22), blue[0].Position)
	s.Equal(model.Cell(22), blue[1].Position)
}

func (s *ControllerSuite) TestStartGameRefundsOnInsufficientCredits() {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 40)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, "ROOM01", "p-1")
	s.ErrorIs(err, model.ErrInsufficientCredits)

	alice, _ := s.storage.GetPlayer(s.ctx, "p-1")
	s.Equal(int64(1000), alice.Credits)

	room, _ := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Equal(model.RoomStateWaiting, room.State)
	s.Nil(room.Game)
}

// LeaveRoom tests

func (s *ControllerSuite) TestLeaveWaitingRoomFreesSeat() {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-2"))

	room, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.False(room.Seats[1].Occupied())
	s.Equal(model.SeatStatusOpen, room.Seats[1].Status)
}

func (s *ControllerSuite) TestLastLeaverDeletesRoom() {
	s.createRoom(defaultSettings())

	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-1"))

	_, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestLeaveMidGameForfeits() {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-1"))

	room, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.RoomStatePostGame, room.State)
	s.Equal(model.SeatStatusAbandoned, room.Seats[0].Status)

	events := s.emitter.ByName(model.EventGameOver)
	s.Require().Len(events, 1)
	over := events[0].(model.GameOverEvent)
	s.True(over.Abandonment)
	s.Equal([]model.PlayerID{"p-2"}, over.WinningPlayers)

	// Pot 200 minus 10% commission goes to Bob, who anted 100 from 1000
	bobAfter, _ := s.storage.GetPlayer(s.ctx, "p-2")
	s.Equal(int64(1080), bobAfter.Credits)
}

func (s *ControllerSuite) TestDesertedSeatsDoNotBlockRematchOrRoomCleanup() {
	settings := defaultSettings()
	settings.TeamMode = true
	s.createRoom(settings)
	for i := 2; i <= 4; i++ {
		p := s.savePlayer(model.PlayerID(fmt.Sprintf("p-%d", i)), fmt.Sprintf("Player %d", i), 1000)
		_, err := s.controller.JoinRoom(s.ctx, "ROOM01", p)
		s.Require().NoError(err)
	}
	_, err := s.controller.StartGame(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)

	// One opponent deserts; their seat is vacated and the game goes on
	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-2"))
	room, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.RoomStatePlaying, room.State)
	s.False(room.Seats[1].Occupied())
	s.Equal(model.SeatStatusAbandoned, room.Seats[1].Status)

	// The partner follows, handing the win to the remaining team
	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-4"))
	room, err = s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.RoomStatePostGame, room.State)

	// Only the two remaining players count toward rematch readiness
	room, err = s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)
	s.False(room.Rematch.CanStart)
	room, err = s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-3")
	s.Require().NoError(err)
	s.True(room.Rematch.CanStart)

	// And once they leave, the room empties and is collected
	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-1"))
	s.Require().NoError(s.controller.LeaveRoom(s.ctx, "ROOM01", "p-3"))
	_, err = s.storage.GetRoom(s.ctx, "ROOM01")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Rematch tests

func (s *ControllerSuite) postGameRoom() *model.Room {
	s.createRoom(defaultSettings())
	bob := s.savePlayer("p-2", "Bob", 1000)
	_, err := s.controller.JoinRoom(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)

	room, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	room.State = model.RoomStatePostGame
	room.Game = &model.GameState{Pot: 0}
	room.Rematch = &model.RematchData{
		WinnerIDs:  []model.PlayerID{"p-1"},
		WinnerName: "Alice",
		Confirmed:  make(map[model.PlayerID]bool),
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))
	return room
}

func (s *ControllerSuite) TestConfirmRematchTracksReadiness() {
	s.postGameRoom()

	room, err := s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)
	s.False(room.Rematch.CanStart)

	room, err = s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-2")
	s.Require().NoError(err)
	s.True(room.Rematch.CanStart)

	s.Len(s.emitter.ByName(model.EventRematchUpdate), 2)
}

func (s *ControllerSuite) TestConfirmRematchRequiresPostGame() {
	s.createRoom(defaultSettings())

	_, err := s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-1")
	s.ErrorIs(err, model.ErrNoRematch)
}

func (s *ControllerSuite) TestStartRematchRequiresWinner() {
	s.postGameRoom()
	_, err := s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)
	_, err = s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-2")
	s.Require().NoError(err)

	_, err = s.controller.StartRematch(s.ctx, "ROOM01", "p-2")
	s.ErrorIs(err, model.ErrNotWinner)
}

func (s *ControllerSuite) TestStartRematchRequiresAllConfirmed() {
	s.postGameRoom()
	_, err := s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)

	_, err = s.controller.StartRematch(s.ctx, "ROOM01", "p-1")
	s.ErrorIs(err, model.ErrRematchNotReady)
}

func (s *ControllerSuite) TestStartRematchDealsFreshGame() {
	s.postGameRoom()
	_, err := s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)
	_, err = s.controller.ConfirmRematch(s.ctx, "ROOM01", "p-2")
	s.Require().NoError(err)

	room, err := s.controller.StartRematch(s.ctx, "ROOM01", "p-1")
	s.Require().NoError(err)

	s.Equal(model.RoomStatePlaying, room.State)
	s.Nil(room.Rematch)
	s.Equal(int64(200), room.Game.Pot)
	s.True(room.Game.Turn.CanRoll)

	alice, _ := s.storage.GetPlayer(s.ctx, "p-1")
	s.Equal(int64(900), alice.Credits)

	s.Len(s.emitter.ByName(model.EventRematchStarted), 1)
}
