package settlement

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"cardclash/internal/battle"
)

// Subject é onde os pedidos de settlement são publicados. O worker de
// payout consome daqui; qualquer outro interessado (auditoria, métricas)
// pode assinar também.
const Subject = "cardclash.settlement.requested"

// Publisher emite SettlementRequest via NATS. A deduplicação por batalha
// é do Coordinator; aqui a preocupação é só entregar o evento, com
// re-tentativa e backoff porque a falha é soft e nunca pode travar o jogo.
type Publisher struct {
	nc       *nats.Conn
	subject  string
	attempts int
}

// NewPublisher conecta ao NATS na URL dada.
func NewPublisher(natsURL string) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("cardclash-coordinator"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", natsURL, err)
	}
	return &Publisher{nc: nc, subject: Subject, attempts: 3}, nil
}

// RequestSettlement publica o pedido. Implementa battle.Settler.
func (p *Publisher) RequestSettlement(req battle.SettlementRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement request: %w", err)
	}

	var lastErr error
	backoff := 200 * time.Millisecond

	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err := p.nc.Publish(p.subject, data); err != nil {
			lastErr = err
			log.Printf("[Settlement] WARN: attempt %d/%d to publish settlement for battle %s failed: %v",
				attempt, p.attempts, req.BattleCode, err)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}
		log.Printf("[Settlement] Settlement requested for battle %s (outcome %q).", req.BattleCode, req.Outcome)
		return nil
	}

	return fmt.Errorf("failed to publish settlement for battle %s after %d attempts: %w",
		req.BattleCode, p.attempts, lastErr)
}

// Close drena e fecha a conexão NATS.
func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
