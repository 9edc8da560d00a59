package mute

import (
	"context"
	"testing"

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

func (s *RedisRepositoryTestSuite) TestSaveAndLoadMuted() {
	err := s.repo.SaveMuted(context.Background(), []string{"channel-2", "channel-1"})
	s.Require().NoError(err)

	muted, err := s.repo.LoadMuted(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{"channel-1", "channel-2"}, muted)
}

func (s *RedisRepositoryTestSuite) TestSaveEmptyClears() {
	s.Require().NoError(s.repo.SaveMuted(context.Background(), []string{"channel-1"}))
	s.Require().NoError(s.repo.SaveMuted(context.Background(), nil))

	muted, err := s.repo.LoadMuted(context.Background())
	s.Require().NoError(err)
	s.Empty(muted)
}
