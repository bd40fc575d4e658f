package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botuai88-lab/Sohaco-KOC/internal/config"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SheetConfig{ScriptURL: srv.URL}, srv.Client())
}

func decodeEnvelope(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	return payload
}

func TestFetchAllDropsRowsWithoutName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "GET_ALL", r.URL.Query().Get("action"))
		rows := [][]any{
			{1, "KOC001", "Ngọc Anh", "Nữ"},
			{2, "KOC002", "", "Nam"}, // blank name, dropped
			{3, "KOC003", "Minh", "Nam"},
		}
		json.NewEncoder(w).Encode(rows)
	})

	kocs, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, kocs, 2)

	// Storage positions count from 2 (row 1 is the sheet header) and
	// keep the dropped row's slot.
	assert.Equal(t, 2, kocs[0].RowID)
	assert.Equal(t, "Ngọc Anh", kocs[0].Name)
	assert.Equal(t, 4, kocs[1].RowID)
	assert.Equal(t, "Minh", kocs[1].Name)
}

func TestFetchAllSurfacesEmbeddedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "Sheet 'KOCs' not found"})
	})

	_, err := client.FetchAll(context.Background())
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "KOCs")
}

func TestFetchAllSurfacesTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.FetchAll(context.Background())
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
}

func TestConfigErrorBeforeAnyNetworkAttempt(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(config.SheetConfig{ScriptURL: ""}, srv.Client())

	_, err := client.FetchAll(context.Background())
	assert.ErrorIs(t, err, config.ErrScriptURLNotSet)

	_, err = client.Create(context.Background(), domain.KOC{Name: "Minh"})
	assert.ErrorIs(t, err, config.ErrScriptURLNotSet)

	assert.False(t, called)
}

func TestCreateSendsBlankSeqAndAdoptsServerValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeEnvelope(t, r)
		assert.Equal(t, "CREATE", payload["action"])

		row := payload["data"].([]any)
		require.Len(t, row, columnCount)
		assert.Equal(t, "", row[colSeq])
		assert.Equal(t, "", row[colID])

		// Server assigns sequence and identifier.
		row[colSeq] = 12
		row[colID] = "KOC012"
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"rowId":   13,
			"data":    row,
		})
	})

	created, err := client.Create(context.Background(), domain.KOC{
		Name:  "Ngọc Anh",
		Phone: "0912345678",
		Brand: domain.BrandChilly,
	})
	require.NoError(t, err)

	assert.Equal(t, 13, created.RowID)
	assert.Equal(t, 12, created.Seq)
	assert.Equal(t, "KOC012", created.ID)
	assert.Equal(t, "Ngọc Anh", created.Name)
	assert.Equal(t, "0912345678", created.Phone)
}

func TestBatchCreateAssignsContiguousPositions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeEnvelope(t, r)
		assert.Equal(t, "BATCH_CREATE", payload["action"])

		rows := payload["data"].([]any)
		require.Len(t, rows, 2)
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"startRow": 20,
			"data":     rows,
		})
	})

	created, err := client.BatchCreate(context.Background(), []domain.KOC{
		{Name: "A"}, {Name: "B"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, 20, created[0].RowID)
	assert.Equal(t, 21, created[1].RowID)
}

func TestUpdateResendsClientHeldSeqAndID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeEnvelope(t, r)
		assert.Equal(t, "UPDATE", payload["action"])
		assert.Equal(t, float64(9), payload["rowId"])

		row := payload["data"].([]any)
		assert.Equal(t, float64(4), row[colSeq])
		assert.Equal(t, "KOC004", row[colID])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"rowId":   9,
			"data":    row,
		})
	})

	updated, err := client.Update(context.Background(), domain.KOC{
		RowID: 9,
		Seq:   4,
		ID:    "KOC004",
		Name:  "Minh",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.RowID)
	assert.Equal(t, 4, updated.Seq)
	assert.Equal(t, "KOC004", updated.ID)
}

func TestDeleteSendsPositionsDescending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeEnvelope(t, r)
		assert.Equal(t, "DELETE", payload["action"])
		assert.Equal(t, []any{float64(7), float64(5), float64(3)}, payload["rowIds"])
		json.NewEncoder(w).Encode(map[string]any{"success": true, "deleted": []int{7, 5, 3}})
	})

	err := client.Delete(context.Background(), []int{5, 3, 7})
	require.NoError(t, err)
}

func TestDeleteDoesNotMutateCallerSlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	ids := []int{5, 3, 7}
	require.NoError(t, client.Delete(context.Background(), ids))
	assert.Equal(t, []int{5, 3, 7}, ids)
}

func TestWriteSurfacesEmbeddedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid rowId for update operation."})
	})

	_, err := client.Update(context.Background(), domain.KOC{RowID: 1, Name: "Minh"})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
}
