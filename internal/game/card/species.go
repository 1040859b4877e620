package card

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SpeciesClient consulta o banco público de espécies via HTTP e o adapta
// para a interface Catalog. O formato segue a API de espécies usada pelo
// jogo original: os stats vêm como uma lista nomeada.
//
// Mapeamento de stats para atributos de comparação:
//   attack  -> power
//   defense -> resilience
//   hp      -> vitality
type SpeciesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpeciesClient cria o cliente para a URL base dada (sem barra final).
func NewSpeciesClient(baseURL string) *SpeciesClient {
	return &SpeciesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// speciesResponse é o subconjunto da resposta que nos interessa.
type speciesResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

func (sc *SpeciesClient) Lookup(ctx context.Context, id int) (*Card, error) {
	url := fmt.Sprintf("%s/pokemon/%d", sc.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build species request: %w", err)
	}

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		// Falha de transporte: o catálogo está fora do ar, não é um ID ruim.
		return nil, fmt.Errorf("species lookup for id %d: %w: %v", id, ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("species lookup for id %d returned %s: %w", id, resp.Status, ErrCatalogUnavailable)
	}

	var body speciesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("species lookup for id %d: bad payload: %w", id, ErrCatalogUnavailable)
	}

	var power, resilience, vitality int
	for _, s := range body.Stats {
		switch s.Stat.Name {
		case "attack":
			power = s.BaseStat
		case "defense":
			resilience = s.BaseStat
		case "hp":
			vitality = s.BaseStat
		}
	}

	return newCard(id, body.Name, power, resilience, vitality)
}
