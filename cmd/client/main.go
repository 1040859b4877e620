package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"cardclash/internal/network"
)

// Cliente interativo de terminal para jogar manualmente contra o servidor.
// Não é a interface final: é a ferramenta de teste de mão para o protocolo.
func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addr := "localhost:8080"
	if envAddr := os.Getenv("SERVER_ADDR"); envAddr != "" {
		addr = envAddr
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Could not connect: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go readLoop(conn, done)

	go func() {
		printHelp()
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			handleUserInput(conn, scanner.Text())
		}
	}()

	select {
	case <-done:
		log.Println("Disconnected from server.")
	case <-interrupt:
		log.Println("Interrupt received, closing connection.")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		// Pretty-print do payload; o tipo da mensagem já diz o que é.
		var pretty map[string]any
		if err := json.Unmarshal(msg.Payload, &pretty); err == nil {
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Printf("\n<< %s\n%s\n> ", msg.Type, out)
		} else {
			fmt.Printf("\n<< %s %s\n> ", msg.Type, string(msg.Payload))
		}
	}
}

func handleUserInput(conn *websocket.Conn, input string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		fmt.Print("> ")
		return
	}

	var msgType string
	var payload any

	switch strings.ToLower(fields[0]) {
	case "create":
		stake := int64(0)
		if len(fields) > 1 {
			stake, _ = strconv.ParseInt(fields[1], 10, 64)
		}
		msgType = "CREATE_BATTLE"
		payload = map[string]any{"stake": stake}
	case "join":
		if len(fields) < 2 {
			fmt.Println("usage: join <code> [stake]")
			fmt.Print("> ")
			return
		}
		stake := int64(0)
		if len(fields) > 2 {
			stake, _ = strconv.ParseInt(fields[2], 10, 64)
		}
		msgType = "JOIN_BATTLE"
		payload = map[string]any{"battleCode": fields[1], "stake": stake}
	case "play":
		if len(fields) < 2 {
			fmt.Println("usage: play <cardId>")
			fmt.Print("> ")
			return
		}
		cardID, _ := strconv.Atoi(fields[1])
		msgType = "SUBMIT_CARD"
		payload = map[string]any{"cardId": cardID}
	case "view":
		msgType = "BATTLE_VIEW"
	case "cancel":
		msgType = "CANCEL_BATTLE"
	case "leave":
		msgType = "LEAVE_BATTLE"
	case "reattach":
		if len(fields) < 3 {
			fmt.Println("usage: reattach <code> <participantId>")
			fmt.Print("> ")
			return
		}
		msgType = "REATTACH"
		payload = map[string]any{"battleCode": fields[1], "participantId": fields[2]}
	case "help":
		printHelp()
		fmt.Print("> ")
		return
	case "quit", "exit":
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return
	default:
		fmt.Printf("unknown command %q (try 'help')\n> ", fields[0])
		return
	}

	msg := network.NewMessage(msgType, payload)
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("send failed: %v", err)
	}
}

func printHelp() {
	fmt.Println(`Commands:
  create [stake]              create a battle
  join <code> [stake]         join a battle by code
  play <cardId>               submit a card for the current round
  view                        show your view of the battle
  cancel                      cancel a battle you created (while waiting)
  leave                       leave a finished battle
  reattach <code> <id>        reclaim a seat after a disconnect
  quit                        close the connection`)
}
