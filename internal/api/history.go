package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/reedfamily/a2sbot/internal/history"
)

type HistoryHandler struct {
	store *history.Store
	feed  *history.Feed
}

func NewHistoryHandler(store *history.Store, feed *history.Feed) *HistoryHandler {
	return &HistoryHandler{store: store, feed: feed}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.store.List(r.Context(), limit)
	if err != nil {
		log.Printf("ERROR list history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to query history")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Live pushes each invocation over a websocket as soon as it is recorded.
func (h *HistoryHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("history websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := h.feed.Subscribe()
	defer h.feed.Unsubscribe(ch)

	if latest := h.feed.Latest(); latest != nil {
		if err := conn.WriteJSON(latest); err != nil {
			return
		}
	}

	// Read from client to detect disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case inv, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(inv); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
