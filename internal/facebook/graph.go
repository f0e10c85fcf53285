package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/leadflow-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
)

// GraphLead is one lead form submission pulled from the Graph API.
type GraphLead struct {
	ID          string
	CreatedTime time.Time
	Fields      map[string]string
}

// GraphClient pulls lead form submissions for a connected page.
type GraphClient interface {
	FetchLeads(ctx context.Context, formID, accessToken string) ([]GraphLead, error)
}

type httpGraphClient struct {
	baseURL string
	client  *http.Client
}

// NewGraphClient builds the HTTP Graph API client.
func NewGraphClient(cfg config.FacebookConfig) GraphClient {
	return &httpGraphClient{
		baseURL: strings.TrimRight(cfg.GraphBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.SyncTimeout},
	}
}

type graphLeadsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		CreatedTime string `json:"created_time"`
		FieldData   []struct {
			Name   string   `json:"name"`
			Values []string `json:"values"`
		} `json:"field_data"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *httpGraphClient) FetchLeads(ctx context.Context, formID, accessToken string) ([]GraphLead, error) {
	endpoint := fmt.Sprintf("%s/%s/leads?%s", c.baseURL, url.PathEscape(formID), url.Values{
		"access_token": {accessToken},
		"fields":       {"id,created_time,field_data"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "facebook graph request failed")
	}
	defer resp.Body.Close()

	var payload graphLeadsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding facebook graph response")
	}
	if payload.Error != nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("facebook graph error %d: %s", payload.Error.Code, payload.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("facebook graph returned status %d", resp.StatusCode))
	}

	leads := make([]GraphLead, 0, len(payload.Data))
	for _, row := range payload.Data {
		lead := GraphLead{ID: row.ID, Fields: make(map[string]string, len(row.FieldData))}
		if ts, err := time.Parse("2006-01-02T15:04:05-0700", row.CreatedTime); err == nil {
			lead.CreatedTime = ts
		} else if ts, err := time.Parse(time.RFC3339, row.CreatedTime); err == nil {
			lead.CreatedTime = ts
		}
		for _, field := range row.FieldData {
			if len(field.Values) > 0 {
				lead.Fields[strings.ToLower(field.Name)] = field.Values[0]
			}
		}
		leads = append(leads, lead)
	}
	return leads, nil
}
