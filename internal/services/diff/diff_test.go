package diff

import (
	"testing"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/stretchr/testify/suite"
)

type DiffTestSuite struct {
	suite.Suite
	testNow time.Time
}

func (s *DiffTestSuite) SetupTest() {
	s.testNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
}

func TestDiffTestSuite(t *testing.T) {
	suite.Run(t, new(DiffTestSuite))
}

func player(id, game string, start *time.Time) *models.PlayerState {
	p := &models.PlayerState{
		SteamID:      id,
		Name:         "player-" + id,
		PersonaState: models.PersonaStateOnline,
		SessionStart: start,
	}
	if game != "" {
		p.Game = &models.Game{ID: "app-" + game, Name: game}
	}
	return p
}

func (s *DiffTestSuite) TestIdenticalStateProducesNoEvent() {
	start := s.testNow.Add(-time.Hour)
	cases := []struct {
		name string
		prev *models.PlayerState
		next *models.PlayerState
	}{
		{"both idle", player("1", "", nil), player("1", "", nil)},
		{"same game", player("1", "Game X", &start), player("1", "Game X", &start)},
		{"persona change only", player("1", "", nil), &models.PlayerState{SteamID: "1", PersonaState: models.PersonaStateAway}},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			events := Diff([]*models.PlayerState{tc.prev}, []*models.PlayerState{tc.next}, s.testNow)
			s.Empty(events)
		})
	}
}

func (s *DiffTestSuite) TestStart() {
	events := Diff(
		[]*models.PlayerState{player("1", "", nil)},
		[]*models.PlayerState{player("1", "Game X", nil)},
		s.testNow,
	)

	s.Require().Len(events, 1)
	s.Equal(models.EventKindStart, events[0].Kind)
	s.Equal("1", events[0].SteamID)
	s.Nil(events[0].OldGame)
	s.Require().NotNil(events[0].NewGame)
	s.Equal("Game X", events[0].NewGame.Name)
}

func (s *DiffTestSuite) TestStopCarriesDuration() {
	start := s.testNow
	now := s.testNow.Add(5400 * time.Second)

	events := Diff(
		[]*models.PlayerState{player("1", "Game X", &start)},
		[]*models.PlayerState{player("1", "", nil)},
		now,
	)

	s.Require().Len(events, 1)
	s.Equal(models.EventKindStop, events[0].Kind)
	s.Equal("Game X", events[0].OldGame.Name)
	s.Nil(events[0].NewGame)
	s.True(events[0].DurationKnown)
	s.Equal(90*time.Minute, events[0].Duration)
}

func (s *DiffTestSuite) TestStopWithoutSessionStart() {
	events := Diff(
		[]*models.PlayerState{player("1", "Game X", nil)},
		[]*models.PlayerState{player("1", "", nil)},
		s.testNow,
	)

	s.Require().Len(events, 1)
	s.Equal(models.EventKindStop, events[0].Kind)
	s.False(events[0].DurationKnown)
	s.Zero(events[0].Duration)
}

func (s *DiffTestSuite) TestStopDurationNeverNegative() {
	future := s.testNow.Add(time.Hour)

	events := Diff(
		[]*models.PlayerState{player("1", "Game X", &future)},
		[]*models.PlayerState{player("1", "", nil)},
		s.testNow,
	)

	s.Require().Len(events, 1)
	s.GreaterOrEqual(events[0].Duration, time.Duration(0))
}

func (s *DiffTestSuite) TestChange() {
	start := s.testNow.Add(-time.Hour)

	events := Diff(
		[]*models.PlayerState{player("1", "Game X", &start)},
		[]*models.PlayerState{player("1", "Game Y", nil)},
		s.testNow,
	)

	s.Require().Len(events, 1)
	s.Equal(models.EventKindChange, events[0].Kind)
	s.Equal("Game X", events[0].OldGame.Name)
	s.Equal("Game Y", events[0].NewGame.Name)
}

func (s *DiffTestSuite) TestFirstObservationProducesNoEvent() {
	events := Diff(
		nil,
		[]*models.PlayerState{player("1", "Game X", nil)},
		s.testNow,
	)
	s.Empty(events)
}

func (s *DiffTestSuite) TestPlayersMissingFromNextAreIgnored() {
	events := Diff(
		[]*models.PlayerState{player("1", "Game X", nil)},
		nil,
		s.testNow,
	)
	s.Empty(events)
}

func (s *DiffTestSuite) TestOrderFollowsNext() {
	prev := []*models.PlayerState{
		player("1", "", nil),
		player("2", "", nil),
		player("3", "", nil),
	}
	next := []*models.PlayerState{
		player("3", "C", nil),
		player("1", "A", nil),
		player("2", "", nil),
	}

	events := Diff(prev, next, s.testNow)

	s.Require().Len(events, 2)
	s.Equal("3", events[0].SteamID)
	s.Equal("1", events[1].SteamID)
}

func (s *DiffTestSuite) TestEventsDoNotAliasInput() {
	prev := []*models.PlayerState{player("1", "", nil)}
	next := []*models.PlayerState{player("1", "Game X", nil)}

	events := Diff(prev, next, s.testNow)
	s.Require().Len(events, 1)

	events[0].NewGame.Name = "mutated"
	s.Equal("Game X", next[0].Game.Name)
}
