package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pe-insights-go/internal/analyzer"
	"pe-insights-go/internal/config"
	"pe-insights-go/internal/store"
	"pe-insights-go/internal/types"
	"pe-insights-go/internal/view"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	cfg := config.Config{UseMockLLM: true}
	runner := analyzer.NewRunner(st, analyzer.NewClient(cfg))
	srv := httptest.NewServer(New(cfg, st, runner).Routes())
	t.Cleanup(srv.Close)
	return srv, st
}

func seedReport(t *testing.T, st *store.Store, id string) {
	t.Helper()
	duration := 125.0
	require.NoError(t, st.SaveReport(id, types.Report{
		Name: "seeded",
		Records: []types.CompanyRecord{
			{DisplayName: "Acme Corp", OwnershipCategory: "PE-Owned", Jurisdiction: "USA", OwningFirmNames: []string{"KKR"}},
			{DisplayName: "Globex", OwnershipCategory: "Private", Jurisdiction: "USA"},
			{DisplayName: "Initech", OwnershipCategory: "Private", Jurisdiction: "Germany"},
		},
		TotalDurationSeconds: &duration,
	}))
}

func companySheet(t *testing.T, names ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Company Name"))
	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, name))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestUploadRejectsNonExcel(t *testing.T) {
	srv, _ := newTestServer(t)
	body, contentType := multipartUpload(t, "companies.csv", []byte("Company Name\nAcme"))
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRunsBatchToCompletion(t *testing.T) {
	srv, _ := newTestServer(t)
	body, contentType := multipartUpload(t, "companies.xlsx", companySheet(t, "Acme Corp", "Globex"))
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accepted map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	reportID := accepted["report_id"]
	require.NotEmpty(t, reportID)

	// mock analysis runs in the background; wait for the history flip
	require.Eventually(t, func() bool {
		var status map[string]string
		getJSON(t, srv.URL+"/status/"+reportID, &status)
		return status["status"] == types.StatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	var rep types.Report
	assert.Equal(t, http.StatusOK, getJSON(t, fmt.Sprintf("%s/report/%s", srv.URL, reportID), &rep))
	assert.Len(t, rep.Records, 2)
}

func TestStatusUnknownReport(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/status/nope", &body))
	assert.Equal(t, "Unknown", body["status"])
}

func TestViewEndpointDerivesFilteredSubset(t *testing.T) {
	srv, st := newTestServer(t)
	seedReport(t, st, "rid")

	var derived view.DerivedView
	url := srv.URL + "/report/rid/view?filter=jurisdiction:USA&filter=ownershipCategory:Private"
	require.Equal(t, http.StatusOK, getJSON(t, url, &derived))

	require.Len(t, derived.VisibleRecords, 1)
	assert.Equal(t, "Globex", derived.VisibleRecords[0].DisplayName)
	// the summary still reflects the whole report
	assert.Equal(t, 3, derived.Summary.Total)
	assert.Equal(t, "2m 5s", derived.Summary.FormattedDuration)
}

func TestViewEndpointSearch(t *testing.T) {
	srv, st := newTestServer(t)
	seedReport(t, st, "rid")

	var derived view.DerivedView
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/report/rid/view?search=acme", &derived))
	require.Len(t, derived.VisibleRecords, 1)
	assert.Equal(t, "Acme Corp", derived.VisibleRecords[0].DisplayName)
}

func TestViewEndpointRejectsBadFilter(t *testing.T) {
	srv, st := newTestServer(t)
	seedReport(t, st, "rid")

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/report/rid/view?filter=displayName:Acme", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/report/rid/view?filter=nocolon", nil))
}

func TestViewEndpointMissingReport(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/report/ghost/view", nil))
}

func TestDeleteReport(t *testing.T) {
	srv, st := newTestServer(t)
	seedReport(t, st, "rid")
	require.NoError(t, st.PrependHistory(types.HistoryEntry{ID: "rid"}))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/report/rid", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/report/rid", nil))
}

func TestDownloadReturnsSpreadsheet(t *testing.T) {
	srv, st := newTestServer(t)
	seedReport(t, st, "rid")

	resp, err := http.Get(srv.URL + "/download/rid")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Analysis_Report_rid.xlsx")
}

func TestSettingsRoundTripOverAPI(t *testing.T) {
	srv, _ := newTestServer(t)

	payload := bytes.NewBufferString(`{"llm_api_key":"k1","pe_firms":["Firm A","Firm B"]}`)
	resp, err := http.Post(srv.URL+"/settings", "application/json", payload)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		LLMAPIKey string   `json:"llm_api_key"`
		PEFirms   []string `json:"pe_firms"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/settings", &got))
	assert.Equal(t, "k1", got.LLMAPIKey)
	assert.Equal(t, []string{"Firm A", "Firm B"}, got.PEFirms)

	var firms []string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/pe_firms", &firms))
	assert.Equal(t, []string{"Firm A", "Firm B"}, firms)
}
