package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/reedfamily/a2sbot/internal/plugin"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHandler is a websocket chat gateway: each inbound {"text": "/ipt host"}
// runs one command and every result is written back as its own message.
type ChatHandler struct {
	plugin *plugin.Plugin
}

func NewChatHandler(p *plugin.Plugin) *ChatHandler {
	return &ChatHandler{plugin: p}
}

type chatMessage struct {
	Text string `json:"text"`
}

type chatError struct {
	Error string `json:"error"`
}

func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("chat websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	emit := plugin.EmitterFunc(func(res plugin.Result) error {
		return conn.WriteJSON(viewOf(res))
	})

	for {
		var msg chatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("chat read error: %v", err)
			}
			return
		}

		name, args, ok := plugin.ParseMessage(msg.Text)
		if !ok {
			if err := conn.WriteJSON(chatError{Error: "empty message"}); err != nil {
				return
			}
			continue
		}

		err := h.plugin.Dispatch(r.Context(), name, args, emit)
		if errors.Is(err, plugin.ErrUnknownCommand) {
			if err := conn.WriteJSON(chatError{Error: "unknown command: " + name}); err != nil {
				return
			}
			continue
		}
		if err != nil {
			log.Printf("chat write error: %v", err)
			return
		}
	}
}
