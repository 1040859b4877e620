package network

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Server gerencia o Hub e o upgrade das conexões HTTP para WebSocket.
type Server struct {
	hub *Hub
}

var upgrader = websocket.Upgrader{
	// Em desenvolvimento aceitamos qualquer origem.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer aceita um EventHandler e o injeta no Hub.
// Este é o ponto de injeção da lógica do jogo.
func NewServer(handler EventHandler) *Server {
	return &Server{
		hub: NewHub(handler),
	}
}

// wsHandler promove a requisição HTTP para uma conexão WebSocket
// persistente e registra o novo cliente no Hub.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Network] WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// Listen inicia o Hub e o servidor HTTP com a rota WebSocket em /ws.
// mux extra (health check, por exemplo) pode ser registrado pelo chamador.
func (s *Server) Listen(address string, mux *http.ServeMux) error {
	go s.hub.Run()

	if mux == nil {
		mux = http.NewServeMux()
	}
	mux.HandleFunc("/ws", s.wsHandler)

	// Os deadlines de leitura das conexões já promovidas são do próprio
	// protocolo ws (pong); aqui os timeouts cobrem o handshake HTTP.
	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("[Network] WebSocket server listening on ws://%s/ws", address)
	return srv.ListenAndServe()
}
