package network

// clientMessage empacota uma mensagem junto com o cliente que a enviou.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
// O mapa de clientes é acessado SOMENTE pela goroutine do Hub.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// As goroutines readLoop dos clientes enviam mensagens para cá.
	incoming chan clientMessage

	handler EventHandler
}

// NewHub cria, inicializa e retorna um novo Hub.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Fechar 'send' é o sinal para a writeLoop daquele cliente parar.
				close(client.send)
				h.handler.OnDisconnect(client)
			}

		case clientMsg := <-h.incoming:
			// O Hub não se importa com o conteúdo; delega para o handler.
			h.handler.OnMessage(clientMsg.client, clientMsg.msg)
		}
	}
}
