package network

import (
	"log"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por um pong do cliente.
	pongWait = 60 * time.Second

	// Frequência dos pings. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um participante conectado do ponto de vista
// do servidor: a conexão WebSocket mais os canais de comunicação.
type Client struct {
	conn *websocket.Conn
	hub  *Hub

	// Canal bufferizado de saída. O buffer evita que quem notifica
	// bloqueie se o cliente estiver lento para consumir.
	send chan Message
}

// Conn retorna a conexão subjacente, útil para logar o endereço remoto.
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// TrySend empurra a mensagem sem bloquear. Retorna false se o buffer do
// cliente está cheio — a entrega é at-least-once na camada de cima, então
// descartar aqui é aceitável: o cliente se ressincroniza pela view.
// Todo envio passa por aqui; escrever direto na conexão não é seguro
// para concorrência, e um envio bloqueante seguraria a goroutine do Hub.
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Network] Unexpected close from client %s: %v", c.conn.RemoteAddr(), err)
			}
			break
		}

		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop bombeia mensagens do canal 'send' para a conexão WebSocket.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// O canal foi fechado pelo Hub: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("[Network] Write to client %s failed: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // conexão morta
			}
		}
	}
}
