package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ludosur/parchis-server/internal/model"
)

type RedisStorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestRedisStorageSuite(t *testing.T) {
	suite.Run(t, new(RedisStorageSuite))
}

func (s *RedisStorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *RedisStorageSuite) TearDownTest() {
	_ = s.storage.Close()
	s.mini.Close()
}

func (s *RedisStorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     true,
		Credits:     500,
		Currency:    "USD",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.Equal(player.Credits, retrieved.Credits)
	s.True(retrieved.IsGuest)
}

func (s *RedisStorageSuite) TestGuestPlayerExpires() {
	player := &model.Player{ID: "guest-1", IsGuest: true}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.mini.FastForward(s.storage.cfg.GuestPlayerTTL + time.Minute)

	_, err := s.storage.GetPlayer(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RedisStorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RedisStorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RedisStorageSuite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash",
	}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RedisStorageSuite) TestRoomRoundTrip() {
	pieces := map[model.Color][]*model.Piece{
		model.Yellow: model.NewPieceSet(model.Yellow, 4),
		model.Blue:   model.NewPieceSet(model.Blue, 4),
	}
	pieces[model.Yellow][0].Enter(5)

	room := &model.Room{
		ID:    "room-1",
		State: model.RoomStatePlaying,
		Settings: model.Settings{
			Bet:         250,
			BetCurrency: "EUR",
			PieceCount:  4,
			AutoExit:    model.ExitModeAuto,
			Variant:     model.VariantPrizeDistance,
			HostColor:   model.Blue,
		},
		Game: &model.GameState{
			Pot:    500,
			Pieces: pieces,
		},
	}
	room.Seats[0] = model.Seat{Index: 0, PlayerID: "p-1", PlayerName: "Alice", Color: model.Blue, Status: model.SeatStatusPlaying}
	room.Seats[1] = model.Seat{Index: 1, PlayerID: "p-2", PlayerName: "Bob", Color: model.Red, Status: model.SeatStatusPlaying}
	room.Game.Turn.Reset(0)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatePlaying, retrieved.State)
	s.Equal(model.VariantPrizeDistance, retrieved.Settings.Variant)
	s.Equal(model.Blue, retrieved.Seats[0].Color)
	s.Require().NotNil(retrieved.Game)
	s.Equal(int64(500), retrieved.Game.Pot)
	s.Equal(model.Cell(5), retrieved.Game.Pieces[model.Yellow][0].Position)
	s.Equal(model.PieceStateBase, retrieved.Game.Pieces[model.Blue][0].State)
	s.True(retrieved.Game.Turn.CanRoll)
}

func (s *RedisStorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "room-1")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})

	exists, err = s.storage.RoomExists(s.ctx, "room-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RedisStorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
