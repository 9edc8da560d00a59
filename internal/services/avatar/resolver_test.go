package avatar

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/KirkDiggler/steamwatch/internal/models"
	avatarRepo "github.com/KirkDiggler/steamwatch/internal/repositories/avatar"
	"github.com/KirkDiggler/steamwatch/internal/services/avatar/mocks"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ResolverTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockFetcher *mocks.MockFetcher
	mr          *miniredis.Miniredis
	client      *redis.Client
	repo        avatarRepo.Repository
	resolver    *Resolver
	ctx         context.Context
	pngBytes    []byte
	player      *models.PlayerState
}

func (s *ResolverTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockFetcher = mocks.NewMockFetcher(s.mockCtrl)

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	repo, err := avatarRepo.NewRedis(&avatarRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.repo = repo

	resolver, err := New(&Config{
		Repository: repo,
		Fetcher:    s.mockFetcher,
	})
	s.Require().NoError(err)
	s.resolver = resolver

	s.ctx = context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))
	s.pngBytes = buf.Bytes()

	s.player = &models.PlayerState{
		SteamID:    "76561197960265729",
		AvatarURL:  "https://avatars.example/a.jpg",
		AvatarHash: "abc",
	}
}

func (s *ResolverTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.client.Close()
	s.mr.Close()
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) TestResolveFetchesOnceThenCaches() {
	s.mockFetcher.EXPECT().
		FetchAvatar(gomock.Any(), s.player.AvatarURL).
		Return(s.pngBytes, nil).
		Times(1)

	img, err := s.resolver.Resolve(s.ctx, s.player)
	s.Require().NoError(err)
	s.Equal(image.Rect(0, 0, 4, 4), img.Bounds())

	img, err = s.resolver.Resolve(s.ctx, s.player)
	s.Require().NoError(err)
	s.Equal(image.Rect(0, 0, 4, 4), img.Bounds())
}

func (s *ResolverTestSuite) TestResolveNewHashRefetches() {
	s.mockFetcher.EXPECT().
		FetchAvatar(gomock.Any(), gomock.Any()).
		Return(s.pngBytes, nil).
		Times(2)

	_, err := s.resolver.Resolve(s.ctx, s.player)
	s.Require().NoError(err)

	changed := s.player.Clone()
	changed.AvatarHash = "def"
	_, err = s.resolver.Resolve(s.ctx, changed)
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TestResolveFetchError() {
	s.mockFetcher.EXPECT().
		FetchAvatar(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("boom"))

	_, err := s.resolver.Resolve(s.ctx, s.player)
	s.Error(err)
}

func (s *ResolverTestSuite) TestResolveUndecodableIsNotCached() {
	s.mockFetcher.EXPECT().
		FetchAvatar(gomock.Any(), gomock.Any()).
		Return([]byte("not an image"), nil)

	_, err := s.resolver.Resolve(s.ctx, s.player)
	s.Error(err)

	_, err = s.repo.GetAvatar(s.ctx, &avatarRepo.GetAvatarInput{
		SteamID:    s.player.SteamID,
		AvatarHash: s.player.AvatarHash,
	})
	s.ErrorIs(err, avatarRepo.ErrAvatarNotFound)
}

func (s *ResolverTestSuite) TestResolveCorruptCacheRefetches() {
	s.Require().NoError(s.repo.SaveAvatar(s.ctx, &avatarRepo.SaveAvatarInput{
		SteamID:    s.player.SteamID,
		AvatarHash: s.player.AvatarHash,
		Data:       []byte("garbage"),
	}))
	s.mockFetcher.EXPECT().
		FetchAvatar(gomock.Any(), gomock.Any()).
		Return(s.pngBytes, nil)

	_, err := s.resolver.Resolve(s.ctx, s.player)
	s.NoError(err)
}

func (s *ResolverTestSuite) TestResolveWithoutURL() {
	_, err := s.resolver.Resolve(s.ctx, &models.PlayerState{SteamID: "1"})
	s.Equal(ErrNoAvatarURL, err)

	_, err = s.resolver.Resolve(s.ctx, nil)
	s.Equal(ErrNilPlayer, err)
}

func (s *ResolverTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{Fetcher: s.mockFetcher})
	s.Equal(ErrNilRepository, err)

	_, err = New(&Config{Repository: s.repo})
	s.Equal(ErrNilFetcher, err)
}
