package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ollieshotz/shotz/internal/dependencies/mocks"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store/memory"
	"github.com/ollieshotz/shotz/internal/testutil"
)

type GameServiceSuite struct {
	suite.Suite
	storage *memory.Store
	service *Service
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	ctx     context.Context
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceSuite))
}

func (s *GameServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.New(s.clock, s.random)
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()

	profile := &model.ChildProfile{ID: "child-1", OwnerID: "user-1", Name: "Ollie"}
	s.Require().NoError(s.storage.SaveProfile(s.ctx, profile))
}

func (s *GameServiceSuite) createGame(id string) *model.Game {
	s.random.QueueString(id)
	game, err := s.service.CreateGame(s.ctx, CreateGameParams{
		ChildID:  "child-1",
		Opponent: "Ice Hawks",
	})
	s.Require().NoError(err)
	return game
}

func (s *GameServiceSuite) TestCreateGameDefaults() {
	game := s.createGame("g1")

	s.Equal(model.GameID("game_g1"), game.ID)
	s.Equal(model.GameStatusLive, game.Status)
	s.Equal(model.DefaultPeriods(), game.Periods)
	s.Equal(s.clock.Now(), game.GameDate)
}

func (s *GameServiceSuite) TestCreateGameUpcoming() {
	s.random.QueueString("g1")
	gameDate := s.clock.Now().Add(48 * time.Hour)
	game, err := s.service.CreateGame(s.ctx, CreateGameParams{
		ChildID:  "child-1",
		GameDate: gameDate,
		Opponent: "Polar Bears",
		Location: "North Rink",
		Status:   model.GameStatusUpcoming,
	})
	s.Require().NoError(err)
	s.Equal(model.GameStatusUpcoming, game.Status)
	s.Equal(gameDate, game.GameDate)
}

func (s *GameServiceSuite) TestCreateGameUnknownProfile() {
	_, err := s.service.CreateGame(s.ctx, CreateGameParams{ChildID: "missing"})
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *GameServiceSuite) TestCreateGameInvalidPeriods() {
	_, err := s.service.CreateGame(s.ctx, CreateGameParams{
		ChildID: "child-1",
		Periods: []string{"P1", "P1"},
	})
	s.ErrorIs(err, model.ErrDuplicatePeriod)
}

func (s *GameServiceSuite) TestCreateGameInvalidStatus() {
	_, err := s.service.CreateGame(s.ctx, CreateGameParams{
		ChildID: "child-1",
		Status:  "paused",
	})
	s.ErrorIs(err, model.ErrInvalidGameStatus)
}

func (s *GameServiceSuite) TestGetGameWithEvents() {
	game := s.createGame("g1")
	s.random.QueueString("e1")
	_, err := s.storage.AppendEvent(s.ctx, game.ID, model.EventTypeSave, "P1", "user-1")
	s.Require().NoError(err)

	retrieved, events, err := s.service.GetGameWithEvents(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Len(events, 1)
}

func (s *GameServiceSuite) TestListGamesMostRecentFirst() {
	older := s.createGame("g1")
	s.clock.Advance(24 * time.Hour)
	newer := s.createGame("g2")

	games, err := s.service.ListGames(s.ctx, "child-1")
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(newer.ID, games[0].ID)
	s.Equal(older.ID, games[1].ID)
}

func (s *GameServiceSuite) TestDeleteGame() {
	game := s.createGame("g1")

	s.Require().NoError(s.service.DeleteGame(s.ctx, game.ID))

	_, err := s.service.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *GameServiceSuite) TestUpdateStatus() {
	game := s.createGame("g1")
	s.clock.Advance(2 * time.Hour)

	updated, err := s.service.UpdateStatus(s.ctx, game.ID, model.GameStatusCompleted)
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, updated.Status)
	s.Equal(s.clock.Now(), updated.UpdatedAt)
}

func (s *GameServiceSuite) TestUpdateStatusInvalid() {
	game := s.createGame("g1")
	_, err := s.service.UpdateStatus(s.ctx, game.ID, "paused")
	s.ErrorIs(err, model.ErrInvalidGameStatus)
}

func (s *GameServiceSuite) TestUpdateNotes() {
	game := s.createGame("g1")

	updated, err := s.service.UpdateNotes(s.ctx, game.ID, "strong third period")
	s.Require().NoError(err)
	s.Equal("strong third period", updated.Notes)
}

func (s *GameServiceSuite) TestAddPeriod() {
	game := s.createGame("g1")

	updated, err := s.service.AddPeriod(s.ctx, game.ID, "OT")
	s.Require().NoError(err)
	s.Equal([]string{"P1", "P2", "P3", "OT"}, updated.Periods)
}

func (s *GameServiceSuite) TestAddPeriodDuplicate() {
	game := s.createGame("g1")

	_, err := s.service.AddPeriod(s.ctx, game.ID, "P2")
	s.ErrorIs(err, model.ErrDuplicatePeriod)
}
