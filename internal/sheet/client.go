// internal/sheet/client.go
// Package sheet is the sole external I/O boundary of the system: a
// client for the Apps Script action endpoint fronting the spreadsheet,
// plus the positional row mapping.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/botuai88-lab/Sohaco-KOC/internal/config"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

// Gateway is the storage boundary the service layer talks to.
type Gateway interface {
	FetchAll(ctx context.Context) ([]domain.KOC, error)
	Create(ctx context.Context, k domain.KOC) (domain.KOC, error)
	BatchCreate(ctx context.Context, ks []domain.KOC) ([]domain.KOC, error)
	Update(ctx context.Context, k domain.KOC) (domain.KOC, error)
	Delete(ctx context.Context, rowIDs []int) error
}

// TransportError is a non-success HTTP status from the endpoint.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sheet endpoint returned status %d", e.StatusCode)
}

// AppError is an error embedded in an otherwise-delivered response
// payload. It is a failure regardless of the transport status code.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return "sheet endpoint error: " + e.Message
}

// Client talks to the Apps Script web app. All requests go to one URL;
// reads use GET with an action query parameter, writes POST a JSON
// envelope.
type Client struct {
	cfg  config.SheetConfig
	http *http.Client
}

func NewClient(cfg config.SheetConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

type postEnvelope struct {
	Action string `json:"action"`
	RowID  int    `json:"rowId,omitempty"`
	RowIDs []int  `json:"rowIds,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type writeResponse struct {
	Success  bool            `json:"success"`
	RowID    int             `json:"rowId"`
	StartRow int             `json:"startRow"`
	Data     json.RawMessage `json:"data"`
	Deleted  []int           `json:"deleted"`
	Error    string          `json:"error"`
}

// FetchAll retrieves every stored row. The server strips the header;
// the client additionally drops rows with an empty name cell. Storage
// positions start at 2 because row 1 is the sheet header.
func (c *Client) FetchAll(ctx context.Context) ([]domain.KOC, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ScriptURL+"?action=GET_ALL", nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		// The endpoint reports failures as {"error": ...} even on GET.
		if appErr := decodeAppError(body); appErr != nil {
			return nil, appErr
		}
		return nil, fmt.Errorf("decode sheet rows: %w", err)
	}

	kocs := make([]domain.KOC, 0, len(rows))
	for i, row := range rows {
		if !HasName(row) {
			continue
		}
		kocs = append(kocs, RowToKOC(row, i+2))
	}
	return kocs, nil
}

// Create appends one row. Sequence and identifier are assigned by the
// server (sequence = prior row count, identifier = KOC + zero-padded
// sequence); the returned record carries the server-normalized values
// and the new storage position.
func (c *Client) Create(ctx context.Context, k domain.KOC) (domain.KOC, error) {
	resp, err := c.post(ctx, postEnvelope{Action: "CREATE", Data: KOCToRow(k)})
	if err != nil {
		return domain.KOC{}, err
	}

	var row Row
	if err := json.Unmarshal(resp.Data, &row); err != nil {
		return domain.KOC{}, fmt.Errorf("decode created row: %w", err)
	}
	return RowToKOC(row, resp.RowID), nil
}

// BatchCreate appends N rows in one all-or-nothing request. Assigned
// storage positions are contiguous from the returned start row.
func (c *Client) BatchCreate(ctx context.Context, ks []domain.KOC) ([]domain.KOC, error) {
	if len(ks) == 0 {
		return nil, nil
	}

	rows := make([]Row, len(ks))
	for i, k := range ks {
		rows[i] = KOCToRow(k)
	}

	resp, err := c.post(ctx, postEnvelope{Action: "BATCH_CREATE", Data: rows})
	if err != nil {
		return nil, err
	}

	var created []Row
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		return nil, fmt.Errorf("decode created rows: %w", err)
	}

	out := make([]domain.KOC, 0, len(created))
	for i, row := range created {
		out = append(out, RowToKOC(row, resp.StartRow+i))
	}
	return out, nil
}

// Update rewrites the full row at the record's storage position.
// The client-held sequence and identifier are re-sent as-is; the
// deployed script treats the row as authoritative, so a stale client
// can overwrite server-assigned identifiers. That contract predates
// this service and is preserved deliberately.
func (c *Client) Update(ctx context.Context, k domain.KOC) (domain.KOC, error) {
	row := KOCToRow(k)
	row[colSeq] = k.Seq
	row[colID] = k.ID

	resp, err := c.post(ctx, postEnvelope{Action: "UPDATE", RowID: k.RowID, Data: row})
	if err != nil {
		return domain.KOC{}, err
	}

	var echoed Row
	if err := json.Unmarshal(resp.Data, &echoed); err != nil {
		return domain.KOC{}, fmt.Errorf("decode updated row: %w", err)
	}
	return RowToKOC(echoed, resp.RowID), nil
}

// Delete removes the rows at the given storage positions. Positions
// are sent descending so the server removes later rows first and the
// remaining addresses stay valid.
func (c *Client) Delete(ctx context.Context, rowIDs []int) error {
	if len(rowIDs) == 0 {
		return nil
	}

	ordered := make([]int, len(rowIDs))
	copy(ordered, rowIDs)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	_, err := c.post(ctx, postEnvelope{Action: "DELETE", RowIDs: ordered})
	return err
}

func (c *Client) post(ctx context.Context, payload postEnvelope) (*writeResponse, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", payload.Action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ScriptURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", payload.Action, err)
	}
	// Apps Script web apps reject preflighted content types.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp writeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", payload.Action, err)
	}
	if resp.Error != "" {
		return nil, &AppError{Message: resp.Error}
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheet response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("sheet endpoint error response")
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func decodeAppError(body []byte) *AppError {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &AppError{Message: envelope.Error}
	}
	return nil
}
