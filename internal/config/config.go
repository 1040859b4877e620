package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne tudo que os binários leem do ambiente. Um .env local é
// carregado se existir; em produção as variáveis vêm do orquestrador.
type Config struct {
	// Coordenador
	ListenAddr     string
	DwellTime      time.Duration
	ForfeitTimeout time.Duration
	WaitingExpiry  time.Duration

	// Catálogo de espécies
	SpeciesAPIURL string

	// Colaboradores externos (vazio desliga a integração)
	NatsURL     string
	ConsulAddrs string
	DatabaseURL string

	// Worker de payout
	LedgerNodeURL  string
	LedgerKey      string
	LedgerContract string
}

// Load lê o ambiente com defaults de desenvolvimento.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[Config] Loaded .env file.")
	}

	return Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DwellTime:      getDuration("DWELL_TIME", 4*time.Second),
		ForfeitTimeout: getDuration("FORFEIT_TIMEOUT", 45*time.Second),
		WaitingExpiry:  getDuration("WAITING_EXPIRY", 15*time.Minute),

		SpeciesAPIURL: getEnv("SPECIES_API_URL", "https://pokeapi.co/api/v2"),

		NatsURL:     os.Getenv("NATS_URL"),
		ConsulAddrs: os.Getenv("CONSUL_HTTP_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		LedgerNodeURL:  getEnv("LEDGER_NODE_URL", "http://localhost:8545"),
		LedgerKey:      os.Getenv("LEDGER_PRIVATE_KEY"),
		LedgerContract: os.Getenv("LEDGER_CONTRACT_ADDR"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("[Config] WARN: cannot parse %s=%q, using default %s.", key, v, fallback)
	return fallback
}
