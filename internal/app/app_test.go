package app

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/mines"
)

type cellUpdate struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Status int `json:"status"`
}

type gameResponse struct {
	GameSessionId  string        `json:"game_session_id"`
	Seed           string        `json:"seed"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	Grid           []int         `json:"grid"`
	MinesRemaining int           `json:"mines_remaining"`
	Status         string        `json:"status"`
	Dead           bool          `json:"dead"`
	Won            bool          `json:"won"`
	EndedAt        *int64        `json:"ended_at"`
	Update         []cellUpdate  `json:"update"`
	Token          string        `json:"token"`
	Line           int           `json:"line"`
	Error          string        `json:"error"`
	Game           *gameResponse `json:"game"`
}

func TestMain(m *testing.M) {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	m.Run()
}

func newTestApp(t *testing.T, mutate func(c *config.Config)) *App {
	t.Helper()
	c := config.Default()
	c.Jwt.Secret = "secret"
	if mutate != nil {
		mutate(c)
	}
	a, err := New(logging.Discard(), c, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return a
}

func do(t *testing.T, h http.Handler, method, target, token, body string) (int, gameResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp gameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func newGame(t *testing.T, h http.Handler, query string) gameResponse {
	t.Helper()
	code, resp := do(t, h, http.MethodPost, "/v1/game?"+query, "", "")
	require.Equal(t, http.StatusCreated, code, resp.Error)
	require.NotEmpty(t, resp.Token)
	return resp
}

// findCell returns the first mine, or the first numbered safe cell.
func findCell(t *testing.T, a *App, id string, mine bool) (int, int) {
	t.Helper()
	entry, err := a.registry.Get(id)
	require.NoError(t, err)
	row, col := -1, -1
	entry.Do(func(g *mines.Game) error {
		f := g.Minefield()
		for i := range f.Len() {
			c, err := f.At(i)
			if err != nil {
				return err
			}
			if c.Mine() == mine && (mine || c.AdjacentMines() > 0) {
				row, col = i/f.Width(), i%f.Width()
				return nil
			}
		}
		return nil
	})
	require.GreaterOrEqual(t, row, 0)
	return row, col
}

func TestStatus(t *testing.T) {
	a := newTestApp(t, nil)
	h := a.Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sessions":0`)

	newGame(t, h, "preset=beginner")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"sessions":1`)
}

func TestNewGame(t *testing.T) {
	h := newTestApp(t, nil).Handler()

	resp := newGame(t, h, "preset=beginner")
	assert.NotEmpty(t, resp.GameSessionId)
	assert.Equal(t, "9:9:10", resp.Seed)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, 10, resp.MinesRemaining)
	assert.Len(t, resp.Grid, 81)
	for _, s := range resp.Grid {
		assert.Equal(t, int(mines.Unknown), s)
	}

	resp = newGame(t, h, "width=5&height=4&mine_count=3&cycle=2")
	assert.Equal(t, "5:4:3:2", resp.Seed)
}

func TestNewGameRejects(t *testing.T) {
	h := newTestApp(t, func(c *config.Config) {
		c.Sessions.MaxCells = 100
	}).Handler()

	for _, query := range []string{
		"",
		"width=3&height=3&mine_count=9",
		"width=x&height=3&mine_count=1",
		"preset=nightmare",
		"width=11&height=10&mine_count=1",
		"width=9&height=9&mine_count=10&cycle=5",
	} {
		code, resp := do(t, h, http.MethodPost, "/v1/game?"+query, "", "")
		assert.Equal(t, http.StatusBadRequest, code, query)
		assert.NotEmpty(t, resp.Error, query)
	}
}

func TestTooManySessions(t *testing.T) {
	h := newTestApp(t, func(c *config.Config) {
		c.Sessions.MaxSessions = 1
	}).Handler()

	newGame(t, h, "preset=beginner")
	code, resp := do(t, h, http.MethodPost, "/v1/game?preset=beginner", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "too many sessions", resp.Error)
}

func TestAuth(t *testing.T) {
	h := newTestApp(t, nil).Handler()
	first := newGame(t, h, "preset=beginner")
	second := newGame(t, h, "preset=beginner")
	target := "/v1/game/" + first.GameSessionId

	code, _ := do(t, h, http.MethodGet, target, "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, h, http.MethodGet, target, second.Token, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, h, http.MethodPost, target+"/reveal?row=0&col=0", second.Token, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp := do(t, h, http.MethodGet, target, first.Token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, first.GameSessionId, resp.GameSessionId)
}

func TestUnknownGame(t *testing.T) {
	a := newTestApp(t, nil)
	token, err := a.jwt.Sign("missing")
	require.NoError(t, err)

	code, resp := do(t, a.Handler(), http.MethodGet, "/v1/game/missing", token, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "session not found", resp.Error)
}

func TestRevealAndFlag(t *testing.T) {
	a := newTestApp(t, nil)
	h := a.Handler()
	game := newGame(t, h, "preset=beginner")
	target := "/v1/game/" + game.GameSessionId

	row, col := findCell(t, a, game.GameSessionId, false)
	code, resp := do(t, h, http.MethodPost,
		fmt.Sprintf("%s/reveal?row=%d&col=%d", target, row, col), game.Token, "")
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "in_progress", resp.Status)
	require.Len(t, resp.Update, 1)
	assert.Equal(t, row, resp.Update[0].Row)
	assert.Equal(t, col, resp.Update[0].Col)
	assert.Positive(t, resp.Update[0].Status)
	assert.Equal(t, resp.Update[0].Status, resp.Grid[row*9+col])

	row, col = findCell(t, a, game.GameSessionId, true)
	code, resp = do(t, h, http.MethodPost,
		fmt.Sprintf("%s/flag?row=%d&col=%d", target, row, col), game.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []cellUpdate{{row, col, int(mines.Flag)}}, resp.Update)
	assert.Equal(t, 9, resp.MinesRemaining)

	code, resp = do(t, h, http.MethodPost, target+"/reveal?row=9&col=0", game.Token, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Error, "outside")

	code, _ = do(t, h, http.MethodPost, target+"/flag?row=1", game.Token, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRevealMineLoses(t *testing.T) {
	a := newTestApp(t, nil)
	h := a.Handler()
	game := newGame(t, h, "preset=beginner")
	target := "/v1/game/" + game.GameSessionId

	row, col := findCell(t, a, game.GameSessionId, true)
	code, resp := do(t, h, http.MethodPost,
		fmt.Sprintf("%s/reveal?row=%d&col=%d", target, row, col), game.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "lost", resp.Status)
	assert.True(t, resp.Dead)
	require.NotNil(t, resp.EndedAt)
	assert.Equal(t, cellUpdate{row, col, int(mines.ExplodedMine)}, resp.Update[0])
	assert.Len(t, resp.Update, 10)

	// the game is frozen
	code, resp = do(t, h, http.MethodPost, target+"/reveal?row=0&col=0", game.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Update)
	assert.Equal(t, "lost", resp.Status)
}

func TestForfeit(t *testing.T) {
	h := newTestApp(t, nil).Handler()
	game := newGame(t, h, "preset=beginner")

	code, resp := do(t, h, http.MethodPost,
		"/v1/game/"+game.GameSessionId+"/forfeit", game.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "lost", resp.Status)
	assert.Len(t, resp.Update, 10)
	for _, u := range resp.Update {
		assert.Equal(t, int(mines.UnflaggedMine), u.Status)
	}
}

func TestBatch(t *testing.T) {
	a := newTestApp(t, nil)
	h := a.Handler()
	game := newGame(t, h, "preset=beginner")
	target := "/v1/game/" + game.GameSessionId + "/batch"

	mr, mc := findCell(t, a, game.GameSessionId, true)
	sr, sc := findCell(t, a, game.GameSessionId, false)

	code, resp := do(t, h, http.MethodPost, target, game.Token,
		fmt.Sprintf("f %d %d\n\no %d %d\ng\n", mr, mc, sr, sc))
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Len(t, resp.Update, 2)
	assert.Equal(t, 9, resp.MinesRemaining)

	// nothing runs when a line is malformed
	code, resp = do(t, h, http.MethodPost, target, game.Token,
		fmt.Sprintf("f %d %d\nboom\n", mr, mc))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 1, resp.Line)
	assert.Equal(t, commands.ErrUnknownCommand.Error(), resp.Error)

	_, resp = do(t, h, http.MethodGet, "/v1/game/"+game.GameSessionId, game.Token, "")
	assert.Equal(t, 9, resp.MinesRemaining)

	// lines before a failing one keep their effect and are reported
	code, resp = do(t, h, http.MethodPost, target, game.Token,
		fmt.Sprintf("f %d %d\no 42 0\n", mr, mc))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 1, resp.Line)
	assert.Contains(t, resp.Error, "outside")
	require.NotNil(t, resp.Game)
	assert.Equal(t, 10, resp.Game.MinesRemaining)
	assert.Equal(t, []cellUpdate{{mr, mc, int(mines.Question)}}, resp.Game.Update)
	assert.Equal(t, int(mines.Question), resp.Game.Grid[mr*9+mc])
}

func TestWebSocket(t *testing.T) {
	a := newTestApp(t, nil)
	server := httptest.NewServer(a.Handler())
	defer server.Close()

	game := newGame(t, a.Handler(), "preset=beginner")
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/v1/game/" + game.GameSessionId + "/connect"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+game.Token, nil)
	require.NoError(t, err)
	defer c.Close()

	var state gameResponse
	require.NoError(t, c.ReadJSON(&state))
	assert.Equal(t, game.GameSessionId, state.GameSessionId)
	assert.Empty(t, state.Update)

	mr, mc := findCell(t, a, game.GameSessionId, true)
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("f %d %d", mr, mc))))
	require.NoError(t, c.ReadJSON(&state))
	assert.Equal(t, []cellUpdate{{mr, mc, int(mines.Flag)}}, state.Update)

	// line numbers count leading blank lines, as the batch endpoint does
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("\ng\nz 1")))
	var failed gameResponse
	require.NoError(t, c.ReadJSON(&failed))
	assert.Equal(t, 2, failed.Line)
	assert.Equal(t, commands.ErrUnknownCommand.Error(), failed.Error)
	require.NotNil(t, failed.Game)
	assert.Equal(t, 9, failed.Game.MinesRemaining)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("q")))
	require.NoError(t, c.ReadJSON(&state))
	assert.Equal(t, "lost", state.Status)
	assert.Len(t, state.Update, 10)
}
