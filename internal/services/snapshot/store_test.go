package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
	snapshotRepo "github.com/KirkDiggler/steamwatch/internal/repositories/snapshot"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    snapshotRepo.Repository
	store   *Store
	ctx     context.Context
	testNow time.Time
}

func (s *StoreTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := snapshotRepo.NewRedis(&snapshotRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	store, err := New(&Config{Repository: repo})
	s.Require().NoError(err)
	s.store = store

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
}

func (s *StoreTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func playing(id, game string) *models.PlayerState {
	return &models.PlayerState{
		SteamID:      id,
		Name:         "player-" + id,
		PersonaState: models.PersonaStateOnline,
		Game:         &models.Game{Name: game},
	}
}

func idle(id string) *models.PlayerState {
	return &models.PlayerState{
		SteamID:      id,
		Name:         "player-" + id,
		PersonaState: models.PersonaStateOnline,
	}
}

func (s *StoreTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{})
	s.Equal(ErrNilRepository, err)
}

func (s *StoreTestSuite) TestUpdateStartsSession() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X")}, s.testNow)

	p, ok := s.store.Get("1")
	s.Require().True(ok)
	s.Require().NotNil(p.SessionStart)
	s.Equal(s.testNow, *p.SessionStart)
}

func (s *StoreTestSuite) TestUpdateCarriesSessionForSameGame() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X")}, s.testNow)
	s.store.Update([]*models.PlayerState{playing("1", "Game X")}, s.testNow.Add(10*time.Minute))

	p, _ := s.store.Get("1")
	s.Require().NotNil(p.SessionStart)
	s.Equal(s.testNow, *p.SessionStart)
}

func (s *StoreTestSuite) TestUpdateIsIdempotent() {
	s.store.Update([]*models.PlayerState{idle("1")}, s.testNow)
	later := s.testNow.Add(5 * time.Minute)
	input := []*models.PlayerState{playing("1", "Game X")}

	s.store.Update(input, later)
	first, _ := s.store.Get("1")

	s.store.Update(input, later.Add(time.Minute))
	second, _ := s.store.Get("1")

	s.Require().NotNil(first.SessionStart)
	s.Require().NotNil(second.SessionStart)
	s.Equal(*first.SessionStart, *second.SessionStart)
}

func (s *StoreTestSuite) TestUpdateRestartsSessionOnGameSwitch() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X")}, s.testNow)
	switched := s.testNow.Add(time.Hour)
	s.store.Update([]*models.PlayerState{playing("1", "Game Y")}, switched)

	p, _ := s.store.Get("1")
	s.Equal(switched, *p.SessionStart)
}

func (s *StoreTestSuite) TestUpdateClearsSessionWhenStopped() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X")}, s.testNow)
	s.store.Update([]*models.PlayerState{idle("1")}, s.testNow.Add(time.Hour))

	p, _ := s.store.Get("1")
	s.Nil(p.SessionStart)
	s.Nil(p.Game)
}

func (s *StoreTestSuite) TestUpdateIgnoresIncomingSessionStart() {
	bogus := s.testNow.Add(-24 * time.Hour)
	input := playing("1", "Game X")
	input.SessionStart = &bogus

	s.store.Update([]*models.PlayerState{input}, s.testNow)

	p, _ := s.store.Get("1")
	s.Equal(s.testNow, *p.SessionStart)
}

func (s *StoreTestSuite) TestMissingPlayersKeepState() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X"), idle("2")}, s.testNow)
	s.store.Update([]*models.PlayerState{idle("2")}, s.testNow.Add(time.Minute))

	p, ok := s.store.Get("1")
	s.Require().True(ok)
	s.Equal("Game X", p.GameName())
}

func (s *StoreTestSuite) TestSliceReturnsCopiesInOrder() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X"), idle("2")}, s.testNow)

	slice := s.store.Slice([]string{"2", "unknown", "1"})
	s.Require().Len(slice, 2)
	s.Equal("2", slice[0].SteamID)
	s.Equal("1", slice[1].SteamID)

	slice[1].Game.Name = "mutated"
	p, _ := s.store.Get("1")
	s.Equal("Game X", p.GameName())
}

func (s *StoreTestSuite) TestSaveAndLoad() {
	s.store.Update([]*models.PlayerState{playing("1", "Game X"), idle("2")}, s.testNow)
	s.Require().NoError(s.store.Save(s.ctx))

	reloaded, err := New(&Config{Repository: s.repo})
	s.Require().NoError(err)
	s.Require().NoError(reloaded.Load(s.ctx))

	s.Equal(2, reloaded.Len())
	p, ok := reloaded.Get("1")
	s.Require().True(ok)
	s.Equal("Game X", p.GameName())
	s.Equal(s.testNow.Unix(), p.SessionStart.Unix())
}
