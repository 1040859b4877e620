package cluster

import (
	"fmt"
	"log"
	"strings"

	consul "github.com/hashicorp/consul/api"
)

// NewConsulClient cria um cliente Consul tentando uma lista de endereços
// (separados por vírgula) até encontrar um agente saudável com líder.
func NewConsulClient(addrs string) (*consul.Client, error) {
	nodes := strings.Split(addrs, ",")
	for _, node := range nodes {
		node = strings.TrimSpace(node)
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			log.Printf("[Cluster] Failed to build client for %s: %v", node, err)
			continue
		}

		// Teste rápido de saúde
		if _, err := client.Status().Leader(); err != nil {
			log.Printf("[Cluster] %s did not answer the health probe: %v", node, err)
			continue
		}

		log.Printf("[Cluster] Connected to Consul node %s.", node)
		return client, nil
	}

	return nil, fmt.Errorf("no Consul node available among: %s", addrs)
}
