package binding

import (
	"context"
	"testing"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndLoadBindings() {
	nickname := "Boss"
	groups := map[string][]*models.Binding{
		"channel-1": {
			{GroupID: "channel-1", MemberID: "user-1", SteamID: "76561197960265729", Nickname: &nickname},
			{GroupID: "channel-1", MemberID: "user-2", SteamID: "76561197960265730"},
		},
		"channel-2": {
			{GroupID: "channel-2", MemberID: "user-1", SteamID: "76561197960265729"},
		},
	}

	err := s.repo.SaveBindings(context.Background(), &SaveBindingsInput{
		Groups: groups,
	})
	s.Require().NoError(err)

	output, err := s.repo.LoadBindings(context.Background())
	s.Require().NoError(err)
	s.Require().Len(output.Groups, 2)
	s.Require().Len(output.Groups["channel-1"], 2)

	first := output.Groups["channel-1"][0]
	s.Equal("user-1", first.MemberID)
	s.Require().NotNil(first.Nickname)
	s.Equal("Boss", *first.Nickname)

	second := output.Groups["channel-1"][1]
	s.Equal("user-2", second.MemberID)
	s.Nil(second.Nickname)

	s.Equal("channel-2", output.Groups["channel-2"][0].GroupID)
}

func (s *RedisRepositoryTestSuite) TestSaveDropsRemovedGroups() {
	err := s.repo.SaveBindings(context.Background(), &SaveBindingsInput{
		Groups: map[string][]*models.Binding{
			"channel-1": {{MemberID: "user-1", SteamID: "1"}},
			"channel-2": {{MemberID: "user-2", SteamID: "2"}},
		},
	})
	s.Require().NoError(err)

	err = s.repo.SaveBindings(context.Background(), &SaveBindingsInput{
		Groups: map[string][]*models.Binding{
			"channel-2": {{MemberID: "user-2", SteamID: "2"}},
			"channel-3": {},
		},
	})
	s.Require().NoError(err)

	output, err := s.repo.LoadBindings(context.Background())
	s.Require().NoError(err)
	s.Require().Len(output.Groups, 1)
	s.Contains(output.Groups, "channel-2")
}

func (s *RedisRepositoryTestSuite) TestLoadEmpty() {
	output, err := s.repo.LoadBindings(context.Background())
	s.Require().NoError(err)
	s.Empty(output.Groups)
}
