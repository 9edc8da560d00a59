package steam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
	ctx    context.Context

	mu       sync.Mutex
	requests []*http.Request
	badKeys  map[string]bool
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.requests = nil
	s.badKeys = map[string]bool{}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r)
		bad := s.badKeys[r.URL.Query().Get("key")]
		s.mu.Unlock()

		if r.URL.Path == "/avatar.jpg" {
			_, _ = w.Write([]byte("avatar-bytes"))
			return
		}
		if r.URL.Path != summariesPath {
			http.NotFound(w, r)
			return
		}
		if bad {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var dto playerSummariesDTO
		for _, id := range strings.Split(r.URL.Query().Get("steamids"), ",") {
			p := playerDTO{
				SteamID:      id,
				PersonaName:  "name-" + id,
				PersonaState: 1,
				AvatarFull:   "https://avatars.example/" + id + ".jpg",
				AvatarHash:   "hash-" + id,
				LastLogoff:   1713528000,
			}
			if strings.HasSuffix(id, "1") {
				p.GameID = "440"
				p.GameExtraInfo = "Team Fortress 2"
			}
			dto.Response.Players = append(dto.Response.Players, p)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto)
	}))
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(keys ...string) *Client {
	c, err := New(keys, WithBaseURL(s.server.URL))
	s.Require().NoError(err)
	return c
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.FormatUint(FriendCodeOffset+uint64(i)+1, 10)
	}
	return out
}

func (s *ClientTestSuite) TestNewRequiresKey() {
	_, err := New(nil)
	s.Equal(ErrNoAPIKeys, err)

	_, err = New([]string{" ", ""})
	s.Equal(ErrNoAPIKeys, err)
}

func (s *ClientTestSuite) TestFetchPlayersParsesSummaries() {
	c := s.newClient("k1")

	players, err := c.FetchPlayers(s.ctx, []string{"76561197960265729", "76561197960265730"})
	s.Require().NoError(err)
	s.Require().Len(players, 2)

	p := players[0]
	s.Equal("76561197960265729", p.SteamID)
	s.Equal("name-76561197960265729", p.Name)
	s.Equal(models.PersonaStateOnline, p.PersonaState)
	s.Require().NotNil(p.Game)
	s.Equal(&models.Game{ID: "440", Name: "Team Fortress 2"}, p.Game)
	s.Equal("hash-76561197960265729", p.AvatarHash)
	s.Require().NotNil(p.LastLogoff)
	s.Equal(time.Unix(1713528000, 0).UTC(), *p.LastLogoff)
	s.Nil(p.SessionStart)

	s.Nil(players[1].Game)
}

func (s *ClientTestSuite) TestFetchPlayersEmpty() {
	c := s.newClient("k1")

	players, err := c.FetchPlayers(s.ctx, nil)
	s.NoError(err)
	s.Empty(players)
	s.Empty(s.requests)
}

func (s *ClientTestSuite) TestFetchPlayersBatchesRequests() {
	c := s.newClient("k1")

	players, err := c.FetchPlayers(s.ctx, ids(150))
	s.Require().NoError(err)
	s.Len(players, 150)
	s.Require().Len(s.requests, 2)
	s.Len(strings.Split(s.requests[0].URL.Query().Get("steamids"), ","), 100)
	s.Len(strings.Split(s.requests[1].URL.Query().Get("steamids"), ","), 50)
}

func (s *ClientTestSuite) TestFetchPlayersFailsOverToNextKey() {
	s.badKeys["k1"] = true
	c := s.newClient("k1", "k2")

	players, err := c.FetchPlayers(s.ctx, ids(2))
	s.Require().NoError(err)
	s.Len(players, 2)
	s.Require().Len(s.requests, 2)
	s.Equal("k1", s.requests[0].URL.Query().Get("key"))
	s.Equal("k2", s.requests[1].URL.Query().Get("key"))

	// the working key sticks for later calls
	_, err = c.FetchPlayers(s.ctx, ids(1))
	s.Require().NoError(err)
	s.Equal("k2", s.requests[2].URL.Query().Get("key"))
}

func (s *ClientTestSuite) TestFetchPlayersAllKeysFail() {
	s.badKeys["k1"] = true
	s.badKeys["k2"] = true
	c := s.newClient("k1", "k2")

	players, err := c.FetchPlayers(s.ctx, ids(3))
	s.Require().Error(err)
	s.ErrorIs(err, ErrUpstreamUnavailable)
	s.Empty(players)

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusForbidden, apiErr.Status)
}

func (s *ClientTestSuite) TestFetchAvatar() {
	c := s.newClient("k1")

	data, err := c.FetchAvatar(s.ctx, s.server.URL+"/avatar.jpg")
	s.Require().NoError(err)
	s.Equal([]byte("avatar-bytes"), data)

	_, err = c.FetchAvatar(s.ctx, s.server.URL+"/missing.jpg")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusNotFound, apiErr.Status)
}

func (s *ClientTestSuite) TestResolveSteamID() {
	id, err := ResolveSteamID("76561197960265729")
	s.Require().NoError(err)
	s.Equal("76561197960265729", id)

	id, err = ResolveSteamID(" 1 ")
	s.Require().NoError(err)
	s.Equal("76561197960265729", id)

	for _, bad := range []string{"", "abc", "0", "-5"} {
		_, err = ResolveSteamID(bad)
		s.Equal(ErrInvalidSteamID, err, bad)
	}
}

func (s *ClientTestSuite) TestFriendCode() {
	code, err := FriendCode("76561197960265729")
	s.Require().NoError(err)
	s.Equal("1", code)

	_, err = FriendCode("nope")
	s.Equal(ErrInvalidSteamID, err)
}
