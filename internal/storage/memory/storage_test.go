package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ludosur/parchis-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		Credits:     1000,
		Currency:    "EUR",
		CreatedAt:   time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.Equal(int64(1000), retrieved.Credits)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredPlayerByUsername() {
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

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:    "room-1",
		State: model.RoomStateWaiting,
		Settings: model.Settings{
			Bet:        100,
			PieceCount: 4,
			AutoExit:   model.ExitModeDouble,
			Variant:    model.VariantClassic,
		},
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStateWaiting, retrieved.State)
	s.Equal(int64(100), retrieved.Settings.Bet)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "room-1")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})

	exists, err = s.storage.RoomExists(s.ctx, "room-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
