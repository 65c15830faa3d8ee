package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/mines"
)

// ConnectWS plays a game over a WebSocket. The current state is sent right
// after the upgrade; afterwards every text frame is executed as a batch and
// answered with the new state, or with the failing line of the batch and the
// state left by the lines before it.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	entry, err := g.registry.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithField("error", err).Warn("upgrade failed")
		return
	}
	defer c.Close()

	log := g.log.WithField("session", entry.ID)
	log.Debug("ws connected")

	if err := c.WriteJSON(NewGameSessionDTO(entry.Snapshot(), nil)); err != nil {
		log.WithField("error", err).Warn("write failed")
		return
	}

	for {
		if g.ws.ReadTimeout > 0 {
			c.SetReadDeadline(time.Now().Add(g.ws.ReadTimeout))
		}
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithField("error", err).Warn("read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
				websocket.CloseUnsupportedData, "text frames only"))
			return
		}
		text := string(message)
		log.WithField("batch", strings.TrimSpace(text)).Debug("ws >")

		var update mines.Update
		snapshot, err := entry.Do(func(game *mines.Game) (err error) {
			update, err = commands.ExecuteBatch(game, text)
			return err
		})

		var reply any = NewGameSessionDTO(snapshot, update.Cells)
		var batchErr *commands.BatchError
		if errors.As(err, &batchErr) {
			reply = newBatchErrorDTO(batchErr, snapshot, update.Cells)
		} else if err != nil {
			log.WithField("error", err).Error("batch failed")
			return
		}
		if err := c.WriteJSON(reply); err != nil {
			log.WithField("error", err).Warn("write failed")
			return
		}
		if update.Status != mines.InProgress && len(update.Cells) > 0 {
			log.WithFields(logrus.Fields{
				"params": snapshot.Params.Seed(),
				"status": snapshot.Status,
			}).Info("game over")
		}
	}
}
