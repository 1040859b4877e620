package cluster

import (
	"fmt"
	"net/http"
)

// NewBasicHealthHandler retorna um liveness check genérico: confirma que o
// processo está de pé e o servidor HTTP responde.
func NewBasicHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Service is alive.")
	}
}
