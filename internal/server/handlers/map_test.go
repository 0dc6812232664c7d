package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"denguecero/internal/domain/evaluation"
	"denguecero/internal/domain/zone"
)

type fakeZoneService struct {
	mapData   *zone.MapData
	mapErr    error
	summary   *zone.PublicSummary
	gotFilter evaluation.Filter
	calls     int
}

func (f *fakeZoneService) MapData(_ context.Context, filter evaluation.Filter) (*zone.MapData, error) {
	f.calls++
	f.gotFilter = filter
	return f.mapData, f.mapErr
}

func (f *fakeZoneService) PublicSummary(_ context.Context) *zone.PublicSummary {
	return f.summary
}

func sampleSummary() *zone.PublicSummary {
	return &zone.PublicSummary{
		Success: true,
		ZoneStats: []zone.Stat{
			{Name: "Av. Tumbes 120", Cases: 4, Risk: evaluation.RiskHigh, Color: "#ef4444"},
		},
		Metadata: zone.PublicMetadata{
			TotalZones:    1,
			TotalCases:    4,
			LastUpdated:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
			PeriodCovered: "Último mes (Top 3)",
		},
	}
}

func TestGetMapData(t *testing.T) {
	service := &fakeZoneService{
		mapData: &zone.MapData{
			Points:    []zone.Cluster{},
			ZoneStats: []zone.Stat{{Name: "Zona 1", Cases: 2, Risk: evaluation.RiskLow}},
		},
	}
	handler := NewMapHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/map-data?dateFilter=lastMonth&riskLevel=high", nil)
	rr := httptest.NewRecorder()
	handler.GetMapData(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, evaluation.DateLastMonth, service.gotFilter.DateFilter)
	assert.Equal(t, "high", service.gotFilter.RiskLevel)

	var body struct {
		Success bool         `json:"success"`
		Data    zone.MapData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.ZoneStats, 1)
	assert.Equal(t, "Zona 1", body.Data.ZoneStats[0].Name)
}

func TestGetMapData_Defaults(t *testing.T) {
	service := &fakeZoneService{mapData: &zone.MapData{}}
	handler := NewMapHandler(service)

	rr := httptest.NewRecorder()
	handler.GetMapData(rr, httptest.NewRequest(http.MethodGet, "/api/v1/map-data", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, evaluation.DateLastWeek, service.gotFilter.DateFilter)
	assert.Equal(t, evaluation.RiskAll, service.gotFilter.RiskLevel)
}

func TestGetMapData_InvalidRisk(t *testing.T) {
	service := &fakeZoneService{}
	handler := NewMapHandler(service)

	rr := httptest.NewRecorder()
	handler.GetMapData(rr, httptest.NewRequest(http.MethodGet, "/api/v1/map-data?riskLevel=critical", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid risk level")
	assert.Zero(t, service.calls)
}

func TestGetMapData_ServiceError(t *testing.T) {
	handler := NewMapHandler(&fakeZoneService{mapErr: errors.New("connection reset")})

	rr := httptest.NewRecorder()
	handler.GetMapData(rr, httptest.NewRequest(http.MethodGet, "/api/v1/map-data", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to get map data")
	assert.NotContains(t, rr.Body.String(), "connection reset")
}

func TestGetPublicMapData(t *testing.T) {
	handler := NewMapHandler(&fakeZoneService{summary: sampleSummary()})

	rr := httptest.NewRecorder()
	handler.GetPublicMapData(rr, httptest.NewRequest(http.MethodGet, "/api/v1/public/map-data", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body zone.PublicSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 4, body.Metadata.TotalCases)
	assert.Equal(t, "Último mes (Top 3)", body.Metadata.PeriodCovered)
}

func TestGetPublicMapData_UnavailableStillOK(t *testing.T) {
	handler := NewMapHandler(&fakeZoneService{summary: &zone.PublicSummary{
		Success:   false,
		ZoneStats: []zone.Stat{},
		Metadata:  zone.PublicMetadata{PeriodCovered: "Sin datos disponibles"},
		Error:     "Error al obtener datos del servidor",
	}})

	rr := httptest.NewRecorder()
	handler.GetPublicMapData(rr, httptest.NewRequest(http.MethodGet, "/api/v1/public/map-data", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
	assert.Contains(t, rr.Body.String(), `"zoneStats":[]`)
}
