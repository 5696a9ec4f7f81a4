package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Local relay for exercising the client by hand: answers ping with pong and
// broadcasts every other message to all connected peers.

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type hub struct {
	mu    sync.Mutex
	peers map[*websocket.Conn]struct{}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.peers[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.peers, conn)
	h.mu.Unlock()
	conn.Close()
}

// write serializes writes per hub; gorilla allows one concurrent writer.
func (h *hub) write(conn *websocket.Conn, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *hub) broadcast(sender *websocket.Conn, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for peer := range h.peers {
		if peer == sender {
			continue
		}
		if err := peer.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("broadcast: %v", err)
		}
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade: %v", err)
		return
	}
	log.Printf("peer joined: %s", conn.RemoteAddr())
	h.add(conn)
	defer func() {
		h.remove(conn)
		log.Printf("peer left: %s", conn.RemoteAddr())
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("drop malformed frame from %s: %v", conn.RemoteAddr(), err)
			continue
		}
		if msg.Type == "ping" {
			if err := h.write(conn, []byte(`{"type":"pong"}`)); err != nil {
				return
			}
			continue
		}
		h.broadcast(conn, data)
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	h := &hub{peers: make(map[*websocket.Conn]struct{})}
	http.HandleFunc("/sync", h.serve)

	log.Printf("relay listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal(err)
	}
}
