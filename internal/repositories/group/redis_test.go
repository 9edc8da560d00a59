package group

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

func (s *RedisRepositoryTestSuite) TestSaveAndGetProfile() {
	err := s.repo.SaveProfile(context.Background(), &SaveProfileInput{
		Profile: &models.GroupProfile{
			GroupID: "channel-1",
			Name:    "Night Owls",
			Avatar:  []byte{0x89, 'P', 'N', 'G'},
		},
	})
	s.Require().NoError(err)

	profile, err := s.repo.GetProfile(context.Background(), &GetProfileInput{
		GroupID: "channel-1",
	})
	s.Require().NoError(err)
	s.Equal("channel-1", profile.GroupID)
	s.Equal("Night Owls", profile.Name)
	s.Equal([]byte{0x89, 'P', 'N', 'G'}, profile.Avatar)
}

func (s *RedisRepositoryTestSuite) TestSaveWithoutAvatarClearsOld() {
	err := s.repo.SaveProfile(context.Background(), &SaveProfileInput{
		Profile: &models.GroupProfile{GroupID: "channel-1", Name: "Old", Avatar: []byte("img")},
	})
	s.Require().NoError(err)

	err = s.repo.SaveProfile(context.Background(), &SaveProfileInput{
		Profile: &models.GroupProfile{GroupID: "channel-1", Name: "New"},
	})
	s.Require().NoError(err)

	profile, err := s.repo.GetProfile(context.Background(), &GetProfileInput{GroupID: "channel-1"})
	s.Require().NoError(err)
	s.Equal("New", profile.Name)
	s.Empty(profile.Avatar)
}

func (s *RedisRepositoryTestSuite) TestGetUnknownProfile() {
	_, err := s.repo.GetProfile(context.Background(), &GetProfileInput{
		GroupID: "missing",
	})
	s.Require().Error(err)
	s.Equal(ErrGroupNotFound, err)
}
