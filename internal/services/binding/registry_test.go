package binding

import (
	"context"
	"errors"
	"testing"

	bindingRepo "github.com/KirkDiggler/steamwatch/internal/repositories/binding"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	mr       *miniredis.Miniredis
	client   *redis.Client
	repo     bindingRepo.Repository
	registry *Registry
	ctx      context.Context
}

func (s *RegistryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := bindingRepo.NewRedis(&bindingRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	registry, err := New(&Config{Repository: repo})
	s.Require().NoError(err)
	s.registry = registry

	s.ctx = context.Background()
}

func (s *RegistryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) bind(groupID, memberID, steamID string) {
	_, err := s.registry.Add(&AddInput{GroupID: groupID, MemberID: memberID, SteamID: steamID})
	s.Require().NoError(err)
}

func (s *RegistryTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{})
	s.Equal(ErrNilRepository, err)
}

func (s *RegistryTestSuite) TestAddAndGet() {
	output, err := s.registry.Add(&AddInput{GroupID: "g1", MemberID: "m1", SteamID: "p1"})
	s.Require().NoError(err)
	s.False(output.Rebound)
	s.Equal("p1", output.Binding.SteamID)

	b, err := s.registry.Get("g1", "m1")
	s.Require().NoError(err)
	s.Equal("p1", b.SteamID)
	s.Nil(b.Nickname)
}

func (s *RegistryTestSuite) TestAddRejectsMissingFields() {
	_, err := s.registry.Add(&AddInput{GroupID: "g1", MemberID: "m1"})
	s.Equal(ErrInvalidInput, err)
}

func (s *RegistryTestSuite) TestRebindUpdatesInPlace() {
	s.bind("g1", "m1", "p1")
	s.bind("g1", "m2", "p2")

	output, err := s.registry.Add(&AddInput{GroupID: "g1", MemberID: "m1", SteamID: "p3"})
	s.Require().NoError(err)
	s.True(output.Rebound)

	s.Equal([]string{"p3", "p2"}, s.registry.PlayerIDs("g1"))
}

func (s *RegistryTestSuite) TestAddConflictNamesOwner() {
	s.bind("g1", "m1", "p1")

	_, err := s.registry.Add(&AddInput{GroupID: "g1", MemberID: "m2", SteamID: "p1"})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrAlreadyBound))

	var conflict *ConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Equal("m1", conflict.OwnerMemberID)

	b, err := s.registry.Get("g1", "m1")
	s.Require().NoError(err)
	s.Equal("p1", b.SteamID)

	_, err = s.registry.Get("g1", "m2")
	s.Equal(ErrNotBound, err)
}

func (s *RegistryTestSuite) TestRebindOntoAnotherMembersAccountConflicts() {
	s.bind("g1", "m1", "p1")
	s.bind("g1", "m2", "p2")

	_, err := s.registry.Add(&AddInput{GroupID: "g1", MemberID: "m2", SteamID: "p1"})
	s.True(errors.Is(err, ErrAlreadyBound))

	b, _ := s.registry.Get("g1", "m2")
	s.Equal("p2", b.SteamID)
}

func (s *RegistryTestSuite) TestSameAccountInDifferentGroups() {
	s.bind("g1", "m1", "p1")
	s.bind("g2", "m2", "p1")

	s.Equal([]string{"p1"}, s.registry.AllPlayerIDs())
}

func (s *RegistryTestSuite) TestRemove() {
	s.bind("g1", "m1", "p1")

	s.Require().NoError(s.registry.Remove("g1", "m1"))
	s.Equal(ErrNotBound, s.registry.Remove("g1", "m1"))
	s.Empty(s.registry.Groups())
}

func (s *RegistryTestSuite) TestRemoveMemberCascades() {
	s.bind("g1", "m1", "p1")
	s.bind("g2", "m1", "p1")
	s.bind("g3", "m1", "p1")
	s.bind("g3", "m2", "p2")

	removed := s.registry.RemoveMember("m1", []string{"g1", "g3", "unknown"})
	s.Equal([]string{"g1", "g3"}, removed)
	s.Equal([]string{"g2", "g3"}, s.registry.Groups())

	removed = s.registry.RemoveMember("m1", nil)
	s.Equal([]string{"g2"}, removed)
	s.Equal([]string{"p2"}, s.registry.AllPlayerIDs())
}

func (s *RegistryTestSuite) TestGetBySteamID() {
	s.bind("g1", "m1", "p1")

	b, err := s.registry.GetBySteamID("g1", "p1")
	s.Require().NoError(err)
	s.Equal("m1", b.MemberID)

	_, err = s.registry.GetBySteamID("g2", "p1")
	s.Equal(ErrNotBound, err)
}

func (s *RegistryTestSuite) TestSetNickname() {
	s.bind("g1", "m1", "p1")

	b, err := s.registry.SetNickname(&SetNicknameInput{GroupID: "g1", MemberID: "m1", Nickname: "  Boss "})
	s.Require().NoError(err)
	s.Require().NotNil(b.Nickname)
	s.Equal("Boss", *b.Nickname)

	b, err = s.registry.SetNickname(&SetNicknameInput{GroupID: "g1", MemberID: "m1", Nickname: ""})
	s.Require().NoError(err)
	s.Nil(b.Nickname)

	_, err = s.registry.SetNickname(&SetNicknameInput{GroupID: "g1", MemberID: "m9", Nickname: "x"})
	s.Equal(ErrNotBound, err)
}

func (s *RegistryTestSuite) TestReturnedBindingsAreCopies() {
	s.bind("g1", "m1", "p1")

	b, _ := s.registry.Get("g1", "m1")
	b.SteamID = "mutated"

	again, _ := s.registry.Get("g1", "m1")
	s.Equal("p1", again.SteamID)
}

func (s *RegistryTestSuite) TestPlayerIDsAreDistinct() {
	s.bind("g1", "m1", "p1")
	s.bind("g1", "m2", "p2")

	s.Equal([]string{"p1", "p2"}, s.registry.PlayerIDs("g1"))
	s.Empty(s.registry.PlayerIDs("unknown"))
}

func (s *RegistryTestSuite) TestSaveAndReload() {
	s.bind("g1", "m1", "p1")
	s.bind("g1", "m2", "p2")
	s.bind("g2", "m3", "p3")
	_, err := s.registry.SetNickname(&SetNicknameInput{GroupID: "g1", MemberID: "m2", Nickname: "Ace"})
	s.Require().NoError(err)

	s.Require().NoError(s.registry.Save(s.ctx))

	reloaded, err := New(&Config{Repository: s.repo})
	s.Require().NoError(err)
	s.Require().NoError(reloaded.Load(s.ctx))

	s.Equal(s.registry.Bindings("g1"), reloaded.Bindings("g1"))
	s.Equal(s.registry.Bindings("g2"), reloaded.Bindings("g2"))

	m1, err := reloaded.Get("g1", "m1")
	s.Require().NoError(err)
	s.Nil(m1.Nickname)

	m2, err := reloaded.Get("g1", "m2")
	s.Require().NoError(err)
	s.Require().NotNil(m2.Nickname)
	s.Equal("Ace", *m2.Nickname)
}
