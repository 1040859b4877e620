package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"cardclash/internal/battle"
	"cardclash/internal/config"
	"cardclash/internal/settlement"
)

// O worker de payout é o único consumidor dos pedidos de settlement.
// Ele roda separado do coordenador de propósito: a gravação on-chain é
// lenta e pode reiniciar sem derrubar nenhuma batalha em andamento.
func main() {
	log.Println("Starting CardClash payout worker...")
	cfg := config.Load()

	if cfg.NatsURL == "" || cfg.LedgerNodeURL == "" || cfg.LedgerKey == "" || cfg.LedgerContract == "" {
		log.Fatal("Fatal: NATS_URL, LEDGER_NODE_URL, LEDGER_PRIVATE_KEY and LEDGER_CONTRACT_ADDR are required.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger, err := settlement.DialLedger(ctx, cfg.LedgerNodeURL, cfg.LedgerKey, cfg.LedgerContract)
	if err != nil {
		log.Fatalf("Fatal: ledger: %v", err)
	}
	defer ledger.Close()

	nc, err := nats.Connect(cfg.NatsURL,
		nats.Name("cardclash-payout"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		log.Fatalf("Fatal: NATS: %v", err)
	}
	defer nc.Drain()

	// Uma queue subscription: múltiplas réplicas do worker dividem a
	// carga sem processar o mesmo pedido duas vezes.
	sub, err := nc.QueueSubscribe(settlement.Subject, "payout-workers", func(msg *nats.Msg) {
		var req battle.SettlementRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("[Payout] WARN: dropping malformed settlement message: %v", err)
			return
		}

		recordCtx, recordCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer recordCancel()

		if err := ledger.RecordSettlement(recordCtx, req); err != nil {
			log.Printf("[Payout] ERROR: settlement for battle %s failed: %v", req.BattleCode, err)
			return
		}
	})
	if err != nil {
		log.Fatalf("Fatal: subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	log.Printf("[Payout] Listening on %q.", settlement.Subject)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[Payout] Shutting down.")
}
