// Package geo proxies the public Brazilian geographic registries,
// resolving a municipality name to its region metadata with sequential
// fallback across sources.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CelDarley/membro-api/internal/db"
)

const (
	ibgeByNameURL = "https://servicodados.ibge.gov.br/api/v1/localidades/municipios?nome=%s"
	ibgeByUFURL   = "https://servicodados.ibge.gov.br/api/v1/localidades/estados/%s/municipios?orderBy=nome"
	brasilAPIURL  = "https://brasilapi.com.br/api/ibge/municipios/v1/%s"

	cacheTTL = 24 * time.Hour
)

type UF struct {
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

type Regiao struct {
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

type Links struct {
	IBGECidades string `json:"ibge_cidades"`
}

// Municipio is the resolved municipality record returned to clients.
type Municipio struct {
	ID           *int64 `json:"id"`
	Nome         string `json:"nome"`
	UF           UF     `json:"uf"`
	Regiao       Regiao `json:"regiao"`
	Mesorregiao  string `json:"mesorregiao"`
	Microrregiao string `json:"microrregiao"`
	Links        Links  `json:"links"`
}

// ibgeMunicipio mirrors the IBGE localidades payload.
type ibgeMunicipio struct {
	ID           int64  `json:"id"`
	Nome         string `json:"nome"`
	Microrregiao *struct {
		Nome        string `json:"nome"`
		Mesorregiao *struct {
			Nome string `json:"nome"`
			UF   *struct {
				Sigla  string `json:"sigla"`
				Nome   string `json:"nome"`
				Regiao *struct {
					Sigla string `json:"sigla"`
					Nome  string `json:"nome"`
				} `json:"regiao"`
			} `json:"UF"`
		} `json:"mesorregiao"`
	} `json:"microrregiao"`
}

type brasilAPIMunicipio struct {
	Nome string `json:"nome"`
}

type Client struct {
	httpClient *http.Client
	cache      *db.RedisDB
}

// NewClient builds a lookup client. cache may be nil; lookups then
// always go to the network.
func NewClient(cache *db.RedisDB) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

// Lookup resolves a municipality by name, preferring matches in the
// given state. Sources are tried in order: IBGE by name, the IBGE
// per-state list, BrasilAPI, and finally a minimal record pointing at
// the IBGE Cidades site.
func (c *Client) Lookup(ctx context.Context, nome, uf string) (*Municipio, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, fmt.Errorf("nome is required")
	}
	uf = strings.ToUpper(strings.TrimSpace(uf))
	if uf == "" {
		uf = "MG"
	}

	cacheKey := "municipio:" + uf + ":" + strings.ToLower(Normalize(nome))
	if c.cache != nil {
		var cached Municipio
		if err := c.cache.GetCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	m := c.lookupSources(ctx, nome, uf)

	if c.cache != nil {
		if err := c.cache.SetCache(ctx, cacheKey, m, cacheTTL); err != nil {
			log.Printf("[Geo] failed to cache %s: %v", cacheKey, err)
		}
	}
	return m, nil
}

func (c *Client) lookupSources(ctx context.Context, nome, uf string) *Municipio {
	needle := strings.ToLower(Normalize(nome))

	if item := c.ibgeByName(ctx, nome, uf); item != nil {
		return c.fromIBGE(item, uf)
	}
	if item := c.ibgeByUF(ctx, needle, uf); item != nil {
		return c.fromIBGE(item, uf)
	}
	if name := c.brasilAPI(ctx, needle, uf); name != "" {
		return c.minimal(name, uf)
	}
	return c.minimal(nome, uf)
}

func (c *Client) ibgeByName(ctx context.Context, nome, uf string) *ibgeMunicipio {
	var items []ibgeMunicipio
	if err := c.getJSON(ctx, fmt.Sprintf(ibgeByNameURL, url.QueryEscape(nome)), &items); err != nil {
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	// Prefer the candidate in the requested state.
	for i := range items {
		if ufSigla(&items[i]) == uf {
			return &items[i]
		}
	}
	return &items[0]
}

func (c *Client) ibgeByUF(ctx context.Context, needle, uf string) *ibgeMunicipio {
	var items []ibgeMunicipio
	if err := c.getJSON(ctx, fmt.Sprintf(ibgeByUFURL, url.PathEscape(uf)), &items); err != nil {
		return nil
	}
	// Exact normalized match first, then contains.
	for i := range items {
		if strings.ToLower(Normalize(items[i].Nome)) == needle {
			return &items[i]
		}
	}
	for i := range items {
		if strings.Contains(strings.ToLower(Normalize(items[i].Nome)), needle) {
			return &items[i]
		}
	}
	return nil
}

func (c *Client) brasilAPI(ctx context.Context, needle, uf string) string {
	var items []brasilAPIMunicipio
	if err := c.getJSON(ctx, fmt.Sprintf(brasilAPIURL, url.PathEscape(uf)), &items); err != nil {
		return ""
	}
	for _, it := range items {
		norm := strings.ToLower(Normalize(it.Nome))
		if norm == needle || strings.Contains(norm, needle) {
			return it.Nome
		}
	}
	return ""
}

func (c *Client) fromIBGE(item *ibgeMunicipio, requestedUF string) *Municipio {
	m := &Municipio{Nome: item.Nome}
	if item.ID != 0 {
		id := item.ID
		m.ID = &id
	}
	m.UF = UF{Sigla: requestedUF, Nome: requestedUF}
	if item.Microrregiao != nil {
		m.Microrregiao = item.Microrregiao.Nome
		if meso := item.Microrregiao.Mesorregiao; meso != nil {
			m.Mesorregiao = meso.Nome
			if meso.UF != nil {
				m.UF = UF{Sigla: meso.UF.Sigla, Nome: meso.UF.Nome}
				if meso.UF.Regiao != nil {
					m.Regiao = Regiao{Sigla: meso.UF.Regiao.Sigla, Nome: meso.UF.Regiao.Nome}
				}
			}
		}
	}
	m.Links = Links{IBGECidades: cidadesLink(m.UF.Sigla, m.Nome)}
	return m
}

// minimal is the last-resort record when no source matched.
func (c *Client) minimal(nome, uf string) *Municipio {
	return &Municipio{
		Nome:  nome,
		UF:    UF{Sigla: uf, Nome: uf},
		Links: Links{IBGECidades: cidadesLink(uf, nome)},
	}
}

func cidadesLink(uf, nome string) string {
	return "https://cidades.ibge.gov.br/brasil/" + strings.ToLower(uf) + "/" + Slug(nome)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "membro-api/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

func ufSigla(item *ibgeMunicipio) string {
	if item.Microrregiao != nil && item.Microrregiao.Mesorregiao != nil && item.Microrregiao.Mesorregiao.UF != nil {
		return item.Microrregiao.Mesorregiao.UF.Sigla
	}
	return ""
}
