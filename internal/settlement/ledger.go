package settlement

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"cardclash/internal/battle"
)

// O contrato de payout é de terceiros: este cliente só conhece a interface
// estreita recordSettlement. Nada aqui redesenha a liquidação on-chain.
const ledgerABI = `[
	{
		"inputs": [
			{"internalType": "string", "name": "battleCode", "type": "string"},
			{"internalType": "string", "name": "outcome", "type": "string"},
			{"internalType": "uint256", "name": "stake", "type": "uint256"}
		],
		"name": "recordSettlement",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// LedgerClient grava desfechos de batalha no contrato externo de payout.
type LedgerClient struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	auth     *bind.TransactOpts
	address  common.Address
}

// DialLedger conecta ao nó, com re-tentativa, e faz o bind no endereço
// do contrato já publicado.
func DialLedger(ctx context.Context, nodeURL, privateKeyHex, contractAddr string) (*LedgerClient, error) {
	var client *ethclient.Client
	var err error

	log.Println("[Ledger] Connecting to payout node...")
	for i := 0; i < 10; i++ {
		client, err = ethclient.Dial(nodeURL)
		if err == nil {
			if _, err = client.ChainID(ctx); err == nil {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("timeout connecting to payout node at %s: %w", nodeURL, err)
	}

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger private key: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}
	auth.GasLimit = 3000000 // margem alta para dev, evita erro de estimativa

	parsed, err := abi.JSON(strings.NewReader(ledgerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger ABI: %w", err)
	}

	address := common.HexToAddress(contractAddr)
	contract := bind.NewBoundContract(address, parsed, client, client, client)

	log.Printf("[Ledger] Bound to payout contract at %s.", address.Hex())
	return &LedgerClient{
		client:   client,
		contract: contract,
		auth:     auth,
		address:  address,
	}, nil
}

// RecordSettlement envia a transação e espera a mineração. A idempotência
// por battleCode é garantida antes daqui (o coordenador emite no máximo um
// pedido por batalha); o contrato ainda pode rejeitar duplicatas por conta
// própria, e um REVERT é reportado como erro.
func (lc *LedgerClient) RecordSettlement(ctx context.Context, req battle.SettlementRequest) error {
	nonce, err := lc.client.PendingNonceAt(ctx, lc.auth.From)
	if err != nil {
		return fmt.Errorf("failed to fetch nonce: %w", err)
	}
	lc.auth.Nonce = big.NewInt(int64(nonce))

	tx, err := lc.contract.Transact(lc.auth, "recordSettlement",
		req.BattleCode, req.Outcome, big.NewInt(req.StakePerParticipant))
	if err != nil {
		return fmt.Errorf("recordSettlement transaction failed: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, lc.client, tx)
	if err != nil {
		return fmt.Errorf("waiting for settlement to be mined: %w", err)
	}
	if receipt.Status == 0 {
		return fmt.Errorf("settlement for battle %s reverted on chain", req.BattleCode)
	}

	log.Printf("[Ledger] Settlement for battle %s recorded in block %d.", req.BattleCode, receipt.BlockNumber)
	return nil
}

// Close libera a conexão com o nó.
func (lc *LedgerClient) Close() {
	lc.client.Close()
}
