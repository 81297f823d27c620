package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 8
	pageLimit          = 250
	syncTag            = "guest_sync"
)

type Config struct {
	BaseURL     string
	Token       string
	PipelineID  int
	StatusID    int
	Concurrency int
	Timeout     time.Duration
}

// Client é o CRM (Kommo): contatos são identidades e leads do funil de hóspedes são estadias.
type Client struct {
	apiToken    string
	baseURL     string
	pipelineID  int
	statusID    int
	concurrency int
	http        *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiToken:    cfg.Token,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		pipelineID:  cfg.PipelineID,
		statusID:    cfg.StatusID,
		concurrency: cfg.Concurrency,
		http:        &http.Client{Timeout: cfg.Timeout},
	}
}

// FindIdentitiesByEmail busca os contatos de cada email do lote. A busca do Kommo é
// textual, então só contam contatos com o email exatamente igual.
func (c *Client) FindIdentitiesByEmail(ctx context.Context, emails []string) (map[string][]entity.IdentityRecord, error) {
	if c.apiToken == "" {
		return nil, fmt.Errorf("kommo não configurado")
	}

	out := make(map[string][]entity.IdentityRecord, len(emails))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, email := range emails {
		email := strings.ToLower(strings.TrimSpace(email))
		g.Go(func() error {
			contacts, err := c.searchContacts(gctx, email)
			if err != nil {
				return fmt.Errorf("erro ao buscar contato %s: %w", email, err)
			}

			var matched []entity.IdentityRecord
			for _, ct := range contacts {
				if !hasEmail(ct, email) {
					continue
				}
				matched = append(matched, identityFrom(ct, email))
			}

			mu.Lock()
			out[email] = matched
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) searchContacts(ctx context.Context, query string) ([]ContactResponse, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(pageLimit))

	var env contactsEnvelope
	if err := c.do(ctx, http.MethodGet, "/contacts?"+q.Encode(), nil, &env); err != nil {
		return nil, err
	}
	return env.Embedded.Contacts, nil
}

// FindStaysByIdentity devolve as estadias (leads do funil) das identidades informadas.
// Dois leads com a mesma (identidade, check-in) quebram o endereçamento: erro fatal.
func (c *Client) FindStaysByIdentity(ctx context.Context, identityIDs []string) (map[entity.StayKey]entity.TargetStayRecord, error) {
	if c.apiToken == "" {
		return nil, fmt.Errorf("kommo não configurado")
	}
	out := make(map[entity.StayKey]entity.TargetStayRecord)
	if len(identityIDs) == 0 {
		return out, nil
	}

	q := url.Values{}
	for _, id := range identityIDs {
		q.Add("filter[id][]", id)
	}
	q.Set("with", "leads")
	q.Set("limit", strconv.Itoa(pageLimit))

	var contacts contactsEnvelope
	if err := c.do(ctx, http.MethodGet, "/contacts?"+q.Encode(), nil, &contacts); err != nil {
		return nil, fmt.Errorf("erro ao buscar leads dos contatos: %w", err)
	}

	ownerByLead := make(map[int]string)
	var leadIDs []int
	for _, ct := range contacts.Embedded.Contacts {
		for _, l := range ct.Embedded.Leads {
			if _, seen := ownerByLead[l.ID]; seen {
				continue
			}
			ownerByLead[l.ID] = strconv.Itoa(ct.ID)
			leadIDs = append(leadIDs, l.ID)
		}
	}
	if len(leadIDs) == 0 {
		return out, nil
	}
	sort.Ints(leadIDs)

	for start := 0; start < len(leadIDs); start += pageLimit {
		end := start + pageLimit
		if end > len(leadIDs) {
			end = len(leadIDs)
		}

		lq := url.Values{}
		for _, id := range leadIDs[start:end] {
			lq.Add("filter[id][]", strconv.Itoa(id))
		}
		if c.pipelineID > 0 {
			lq.Set("filter[pipeline_id]", strconv.Itoa(c.pipelineID))
		}
		lq.Set("limit", strconv.Itoa(pageLimit))

		var leads leadsEnvelope
		if err := c.do(ctx, http.MethodGet, "/leads?"+lq.Encode(), nil, &leads); err != nil {
			return nil, fmt.Errorf("erro ao buscar leads: %w", err)
		}

		for _, l := range leads.Embedded.Leads {
			if c.pipelineID > 0 && l.PipelineID != 0 && l.PipelineID != c.pipelineID {
				continue
			}
			stay, ok := stayFrom(l, ownerByLead[l.ID])
			if !ok {
				continue
			}
			key := stay.Key()
			if prev, dup := out[key]; dup {
				return nil, fmt.Errorf("%w: leads %s e %s endereçam a mesma estadia %v",
					entity.ErrInvariantViolation, prev.ID, stay.ID, key)
			}
			out[key] = stay
		}
	}

	return out, nil
}

func (c *Client) CreateIdentity(ctx context.Context, in entity.IdentityCreate) (string, error) {
	req := []createContactRequest{{
		Name:      strings.TrimSpace(in.FirstName + " " + in.LastName),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CustomFieldsValues: compactFields(
			multitext(FieldEmail, in.Email),
			multitext(FieldPhone, in.Phone),
			text(FieldStayLanguage, in.Language),
		),
	}}

	var env contactsEnvelope
	if err := c.do(ctx, http.MethodPost, "/contacts", req, &env); err != nil {
		return "", fmt.Errorf("erro ao criar contato: %w", err)
	}
	if len(env.Embedded.Contacts) == 0 {
		return "", fmt.Errorf("erro ao obter ID do contato criado")
	}

	id := strconv.Itoa(env.Embedded.Contacts[0].ID)
	log.Printf("✅ Kommo: Novo contato criado: %s (%s)", id, in.Email)
	return id, nil
}

func (c *Client) CreateStay(ctx context.Context, stay entity.ProposedStayRecord) (string, error) {
	contactID, err := strconv.Atoi(stay.IdentityID)
	if err != nil {
		return "", fmt.Errorf("id de contato inválido %q: %w", stay.IdentityID, err)
	}

	fields := stayFields(stay.StayRecord)
	fields = append(fields, text(FieldStaySourceID, stay.SourceID))

	req := []createLeadRequest{{
		Name:               fmt.Sprintf("%s - %s", strings.TrimSpace(stay.FirstName+" "+stay.LastName), stay.CheckIn.Format(entity.DateLayout)),
		PipelineID:         c.pipelineID,
		StatusID:           c.statusID,
		CustomFieldsValues: compactFields(fields...),
		Embedded: leadEmbedded{
			Tags:     []tagRef{{Name: syncTag}},
			Contacts: []idRef{{ID: contactID}},
		},
	}}

	var env leadsEnvelope
	if err := c.do(ctx, http.MethodPost, "/leads", req, &env); err != nil {
		return "", fmt.Errorf("erro ao criar lead: %w", err)
	}
	if len(env.Embedded.Leads) == 0 {
		return "", fmt.Errorf("lead não criado")
	}

	id := strconv.Itoa(env.Embedded.Leads[0].ID)
	log.Printf("✅ Kommo: Estadia criada #%s para %s (%s)", id, stay.Email, stay.CheckIn.Format(entity.DateLayout))
	return id, nil
}

// UpdateStay envia só os campos que mudaram.
func (c *Client) UpdateStay(ctx context.Context, update entity.StayUpdate) error {
	if len(update.Changes) == 0 {
		return nil
	}

	var fields []CustomFieldValue
	for _, ch := range update.Changes {
		code, ok := changeFieldCodes[ch.Field]
		if ch.IsBooleanFlag {
			code, ok = flagFieldCode(entity.EngagementFlag(ch.Field)), true
		}
		if !ok {
			return fmt.Errorf("campo %q sem mapeamento no Kommo", ch.Field)
		}
		if ch.IsBooleanFlag {
			fields = append(fields, CustomFieldValue{FieldCode: code, Values: []CustomFieldEntry{{Value: ch.ToValue == "true"}}})
			continue
		}
		fields = append(fields, text(code, ch.ToValue))
	}

	path := "/leads/" + url.PathEscape(update.Existing.ID)
	if err := c.do(ctx, http.MethodPatch, path, updateLeadRequest{CustomFieldsValues: fields}, nil); err != nil {
		return fmt.Errorf("erro ao atualizar lead %s: %w", update.Existing.ID, err)
	}

	log.Printf("📝 Kommo: Estadia #%s atualizada (%d campos)", update.Existing.ID, len(fields))
	return nil
}

// Ping é usado pelo /health.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/account", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	// Kommo responde 204 para busca sem resultado.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kommo respondeu %d - %s", e.StatusCode, e.Body)
}
