package avatar

import (
	"context"
	"testing"
	"time"

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
		TTL:         time.Hour,
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

func (s *RedisRepositoryTestSuite) TestSaveAndGetAvatar() {
	err := s.repo.SaveAvatar(context.Background(), &SaveAvatarInput{
		SteamID:    "76561197960265729",
		AvatarHash: "abc",
		Data:       []byte("jpeg"),
	})
	s.Require().NoError(err)

	data, err := s.repo.GetAvatar(context.Background(), &GetAvatarInput{
		SteamID:    "76561197960265729",
		AvatarHash: "abc",
	})
	s.Require().NoError(err)
	s.Equal([]byte("jpeg"), data)
}

func (s *RedisRepositoryTestSuite) TestNewHashMisses() {
	err := s.repo.SaveAvatar(context.Background(), &SaveAvatarInput{
		SteamID:    "76561197960265729",
		AvatarHash: "abc",
		Data:       []byte("jpeg"),
	})
	s.Require().NoError(err)

	_, err = s.repo.GetAvatar(context.Background(), &GetAvatarInput{
		SteamID:    "76561197960265729",
		AvatarHash: "def",
	})
	s.Equal(ErrAvatarNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestAvatarExpires() {
	err := s.repo.SaveAvatar(context.Background(), &SaveAvatarInput{
		SteamID:    "76561197960265729",
		AvatarHash: "abc",
		Data:       []byte("jpeg"),
	})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Hour)

	_, err = s.repo.GetAvatar(context.Background(), &GetAvatarInput{
		SteamID:    "76561197960265729",
		AvatarHash: "abc",
	})
	s.Equal(ErrAvatarNotFound, err)
}
