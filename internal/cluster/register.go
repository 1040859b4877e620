package cluster

import (
	"fmt"
	"log"
	"os"

	consul "github.com/hashicorp/consul/api"
)

// RegisterService registra o coordenador no Consul com um health check
// HTTP. O agente do Consul usa o IP do contêiner que faz o registro; o
// hostname entra só no ID e na URL do check, resolvível por DNS na rede.
func RegisterService(client *consul.Client, serviceName string, servicePort, healthPort int) error {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,

		Check: &consul.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", hostname, healthPort),
			Timeout:  "5s",
			Interval: "10s",
			// Desregistra sozinho se ficar crítico por mais de 1 minuto.
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register %s in Consul: %w", serviceName, err)
	}

	log.Printf("[Cluster] Service %q registered in Consul with ID %s.", serviceName, serviceID)
	return nil
}
