package main

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

// ListingEventManager fans listing events out to connected clients so the
// home feed can react without polling.
type ListingEventManager struct {
	clients    map[int]*websocket.Conn
	broadcast  chan models.ListingEvent
	register   chan wsClient
	unregister chan int
}

type wsClient struct {
	ID     int
	Socket *websocket.Conn
}

func NewListingEventManager() *ListingEventManager {
	return &ListingEventManager{
		clients:    make(map[int]*websocket.Conn),
		broadcast:  make(chan models.ListingEvent, 32),
		register:   make(chan wsClient),
		unregister: make(chan int),
	}
}

func (m *ListingEventManager) Run() {
	for {
		select {
		case client := <-m.register:
			m.clients[client.ID] = client.Socket
		case clientID := <-m.unregister:
			if conn, ok := m.clients[clientID]; ok {
				conn.Close()
				delete(m.clients, clientID)
			}
		case ev := <-m.broadcast:
			for id, conn := range m.clients {
				if err := conn.WriteJSON(ev); err != nil {
					log.Println("Error sending event:", err)
					conn.Close()
					delete(m.clients, id)
				}
			}
		}
	}
}

func (app *application) ListingEventsHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	var clientData struct {
		UserID int `json:"user_id"`
	}
	if err := conn.ReadJSON(&clientData); err != nil {
		log.Println("Failed to read client data:", err)
		conn.Close()
		return
	}

	app.eventManager.register <- wsClient{ID: clientData.UserID, Socket: conn}

	go func() {
		defer func() {
			app.eventManager.unregister <- clientData.UserID
		}()
		for {
			// Clients only listen; drain until the connection drops.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
