package api

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"stockdeck/internal/board"
)

// streamBufSize is the per-client event buffer. A client that cannot drain
// this many events starts losing updates; the next snapshot resyncs it.
const streamBufSize = 64

// handleStream upgrades to a WebSocket, sends a full board snapshot, then
// relays board events until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	// Subscribe before the snapshot so no event between the two is lost;
	// clients must tolerate an event older than the snapshot.
	subID, events := s.board.Subscribe(streamBufSize)
	defer s.board.Unsubscribe(subID)

	snap := s.board.Snapshot()
	if err := wsjson.Write(ctx, conn, board.Event{Type: board.EventSnapshot, Snapshot: &snap}); err != nil {
		return
	}

	// Reads are discarded; the socket is one-way. The read loop only exists
	// to notice the client closing.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				return
			}
		case <-readDone:
			return
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
	}
}
