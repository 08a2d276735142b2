package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	rand "math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/randutil"
	"github.com/Flowwrian/blackjack-simulator/internal/session"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// newTestServer builds a server whose every session deals the given cards
// first (see game.NewTestGame).
func newTestServer(t *testing.T, cards string) *Server {
	t.Helper()
	store := session.NewStore(
		func(*rand.Rand) *game.Game { return game.NewTestGame(cards) },
		session.WithClock(quartz.NewMock(t)),
		session.WithRand(randutil.New(1)),
		session.WithLogger(testLogger()),
	)
	return NewServer("127.0.0.1:0", store, testLogger())
}

type call struct {
	method  string
	path    string
	body    string
	session string
}

func do(t *testing.T, s *Server, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeGame(t *testing.T, rec *httptest.ResponseRecorder) GameData {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data GameData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	return data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorData {
	t.Helper()
	var data ErrorData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data), rec.Body.String())
	return data
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := do(t, s, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(t, s, call{method: http.MethodGet, path: "/"})
	assert.Equal(t, "Hello, world!", rec.Body.String())
}

func TestFullRoundOverHTTP(t *testing.T) {
	t.Parallel()
	// dealer 6h 5s, player Kc, hit Qd for 20, dealer draws 7c for 18
	s := newTestServer(t, "6h 5s Kc Qd 7c")

	data := decodeGame(t, do(t, s, call{method: http.MethodGet, path: "/init"}))
	assert.Equal(t, game.Initialized, data.GameStatus)
	assert.Equal(t, game.DefaultBankroll, data.Player.Balance)
	assert.Equal(t, session.DefaultID, data.Session)

	data = decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/startGame", body: `{"amount": 50}`}))
	assert.Equal(t, game.Ongoing, data.GameStatus)
	assert.Equal(t, 50, data.Bets)
	assert.Equal(t, game.DefaultBankroll-50, data.Player.Balance)
	require.Len(t, data.Dealer.Hand, 1, "hole card must stay hidden")
	assert.True(t, data.Dealer.HoleHidden)
	assert.Equal(t, CardData{Color: "Hearts", Value: "Six", NumericValue: 6}, data.Dealer.Hand[0])
	assert.Equal(t, []CardData{{Color: "Clubs", Value: "King", NumericValue: 10}}, data.Player.Hand)

	data = decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/action", body: `{"action": "Hit"}`}))
	assert.Equal(t, game.Ongoing, data.GameStatus)
	assert.Equal(t, 20, data.Player.Value)
	assert.Len(t, data.Dealer.Hand, 1)

	data = decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/action", body: `{"action": "Stand"}`}))
	assert.Equal(t, game.PlayerFinished, data.GameStatus)

	data = decodeGame(t, do(t, s, call{method: http.MethodGet, path: "/simulateDealer"}))
	assert.Equal(t, game.PlayerWon, data.GameStatus)
	assert.Len(t, data.Dealer.Hand, 3)
	assert.Equal(t, 18, data.Dealer.Value)
	assert.False(t, data.Dealer.HoleHidden)

	data = decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/end", body: `{"action": "PlayerWon"}`}))
	assert.Equal(t, game.Initialized, data.GameStatus)
	assert.Equal(t, game.DefaultBankroll+50, data.Player.Balance)
	assert.Empty(t, data.Player.Hand)
	assert.Empty(t, data.Dealer.Hand)
	assert.Equal(t, []int{50}, data.Player.Stats.AllWins)

	rec := do(t, s, call{method: http.MethodGet, path: "/stats"})
	require.Equal(t, http.StatusOK, rec.Code)
	var stats StatsData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Stats.MatchesPlayed)
	assert.Equal(t, 1, stats.Sessions)
}

func TestDealerNaturalRevealsHoleCard(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "As Kh 5c")

	data := decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/startGame", body: `{"amount": 100}`}))
	assert.Equal(t, game.DealerWon, data.GameStatus)
	assert.Len(t, data.Dealer.Hand, 2)
	assert.Empty(t, data.Player.Hand)

	rec := do(t, s, call{method: http.MethodGet, path: "/simulateDealer"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	data = decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/end", body: `{"action": "DealerWon"}`}))
	assert.Equal(t, game.DefaultBankroll-100, data.Player.Balance)
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  []call
		call   call
		status int
		code   string
	}{
		{
			name:   "action before start",
			call:   call{method: http.MethodPost, path: "/action", body: `{"action": "Hit"}`},
			status: http.StatusConflict,
			code:   "out_of_sequence",
		},
		{
			name:   "split before start",
			call:   call{method: http.MethodPost, path: "/action", body: `{"action": "Split"}`},
			status: http.StatusNotImplemented,
			code:   "split_unsupported",
		},
		{
			name:   "split mid round",
			setup:  []call{{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`}},
			call:   call{method: http.MethodPost, path: "/action", body: `{"action": "Split"}`},
			status: http.StatusNotImplemented,
			code:   "split_unsupported",
		},
		{
			name:   "unknown action",
			call:   call{method: http.MethodPost, path: "/action", body: `{"action": "Fold"}`},
			status: http.StatusBadRequest,
			code:   "unknown_action",
		},
		{
			name:   "unknown outcome",
			call:   call{method: http.MethodPost, path: "/end", body: `{"action": "Surrender"}`},
			status: http.StatusBadRequest,
			code:   "unknown_action",
		},
		{
			name:   "non-outcome status mid round",
			setup:  []call{{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`}},
			call:   call{method: http.MethodPost, path: "/end", body: `{"action": "Ongoing"}`},
			status: http.StatusBadRequest,
			code:   "unknown_action",
		},
		{
			name:   "initialized is not an outcome",
			call:   call{method: http.MethodPost, path: "/end", body: `{"action": "Initialized"}`},
			status: http.StatusBadRequest,
			code:   "unknown_action",
		},
		{
			name:   "zero bet",
			call:   call{method: http.MethodPost, path: "/startGame", body: `{"amount": 0}`},
			status: http.StatusBadRequest,
			code:   "invalid_bet",
		},
		{
			name:   "malformed body",
			call:   call{method: http.MethodPost, path: "/startGame", body: `{"amount": `},
			status: http.StatusBadRequest,
			code:   "invalid_message",
		},
		{
			name:   "double start",
			setup:  []call{{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`}},
			call:   call{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`},
			status: http.StatusConflict,
			code:   "out_of_sequence",
		},
		{
			name: "settle wrong outcome",
			setup: []call{
				{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`},
				{method: http.MethodPost, path: "/action", body: `{"action": "Stand"}`},
				{method: http.MethodGet, path: "/simulateDealer"},
			},
			call:   call{method: http.MethodPost, path: "/end", body: `{"action": "Draw"}`},
			status: http.StatusConflict,
			code:   "status_mismatch",
		},
		{
			name:   "unknown session",
			call:   call{method: http.MethodGet, path: "/init", session: "nope"},
			status: http.StatusNotFound,
			code:   "session_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// dealer 6h 5s, player Kc; stand gives dealer 11 + 7c = 18 vs 10
			s := newTestServer(t, "6h 5s Kc 7c")
			for _, c := range tt.setup {
				require.Equal(t, http.StatusOK, do(t, s, c).Code)
			}

			rec := do(t, s, tt.call)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestEndRejectsNonOutcomeWithoutForfeit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "6h 5s Kc")

	before := decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/startGame", body: `{"amount": 100}`}))
	for _, token := range []string{"Ongoing", "PlayerFinished", "Initialized"} {
		rec := do(t, s, call{method: http.MethodPost, path: "/end", body: `{"action": "` + token + `"}`})
		require.Equal(t, http.StatusBadRequest, rec.Code, token)
	}

	after := decodeGame(t, do(t, s, call{method: http.MethodGet, path: "/init"}))
	assert.Equal(t, before, after)
	assert.Equal(t, game.Ongoing, after.GameStatus)
	assert.Equal(t, game.DefaultBankroll-100, after.Player.Balance)
	assert.Empty(t, after.Player.Stats.AllWins)
}

func TestSplitLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "6h 5s Kc")

	before := decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`}))
	rec := do(t, s, call{method: http.MethodPost, path: "/action", body: `{"action": "Split"}`})
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	after := decodeGame(t, do(t, s, call{method: http.MethodGet, path: "/init"}))

	assert.Equal(t, before, after)
}

func TestSessions(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "6h 5s Kc")

	rec := do(t, s, call{method: http.MethodPost, path: "/sessions"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created SessionCreatedData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	data := decodeGame(t, do(t, s, call{method: http.MethodPost, path: "/startGame", body: `{"amount": 25}`, session: created.ID}))
	assert.Equal(t, created.ID, data.Session)
	assert.Equal(t, 25, data.Bets)

	// The default table is untouched by the other session.
	data = decodeGame(t, do(t, s, call{method: http.MethodGet, path: "/init"}))
	assert.Equal(t, game.Initialized, data.GameStatus)
	assert.Equal(t, game.DefaultBankroll, data.Player.Balance)

	// Query parameter works as well as the header.
	data = decodeGame(t, do(t, s, call{method: http.MethodGet, path: "/init?session=" + created.ID}))
	assert.Equal(t, game.Ongoing, data.GameStatus)

	rec = do(t, s, call{method: http.MethodGet, path: "/sessions"})
	var list SessionListData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Sessions, 2)

	rec = do(t, s, call{method: http.MethodDelete, path: "/sessions/" + created.ID})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, call{method: http.MethodDelete, path: "/sessions/" + created.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, call{method: http.MethodGet, path: "/init", session: created.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/startGame", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"), "wildcard origins must not allow credentials")
}

func TestCORSCredentialsForExplicitOrigins(t *testing.T) {
	t.Parallel()
	store := session.NewStore(func(rng *rand.Rand) *game.Game { return game.New(rng) })
	s := NewServer("127.0.0.1:0", store, testLogger(), WithAllowedOrigins([]string{"http://good.example"}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/startGame", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("http://good.example")
	assert.Equal(t, "http://good.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = preflight("http://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCheckOrigin(t *testing.T) {
	t.Parallel()
	store := session.NewStore(func(rng *rand.Rand) *game.Game { return game.New(rng) })
	s := NewServer("127.0.0.1:0", store, testLogger(), WithAllowedOrigins([]string{"http://good.example"}))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, s.checkOrigin(req), "no origin header")

	req.Header.Set("Origin", "http://good.example")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, s.checkOrigin(req))
}

func TestStartAndShutdown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	// Shutdown may race Start; either way Start must return nil.
	time.Sleep(20 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestGameDataJSONShape(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "6h 5s Kc")

	rec := do(t, s, call{method: http.MethodPost, path: "/startGame", body: `{"amount": 10}`})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&raw))
	for _, key := range []string{"dealer", "player", "bets", "cards_remaining", "game_status"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "Ongoing", raw["game_status"])
	player := raw["player"].(map[string]any)
	assert.Contains(t, player, "balance")
	assert.Contains(t, player["stats"], "card_count")
}
