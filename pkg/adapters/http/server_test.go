package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/testutils"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
	"github.com/aretw0/findsimulator/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSource struct{}

func (brokenSource) Devices(context.Context) (domain.DeviceCatalog, error) {
	return domain.DeviceCatalog{}, errors.New("xcrun exited with status 72")
}

func (brokenSource) Pairs(context.Context) (domain.PairCatalog, error) {
	return domain.PairCatalog{}, errors.New("xcrun exited with status 72")
}

type stalledSource struct{}

func (stalledSource) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	<-ctx.Done()
	return domain.DeviceCatalog{}, ctx.Err()
}

func (stalledSource) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	<-ctx.Done()
	return domain.PairCatalog{}, ctx.Err()
}

func newTestHandler(t *testing.T, source inventory.Source, opts ...Option) http.Handler {
	t.Helper()
	handler, err := NewHandler(findsimulator.New(source), opts...)
	require.NoError(t, err)
	return handler
}

func fixtureSource() inventory.Static {
	return inventory.Static{
		DeviceCatalog: domain.DeviceCatalog{Groups: testutils.Groups()},
		PairCatalog:   domain.PairCatalog{Pairs: testutils.Pairs()},
	}
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/v1/devices"))
	assert.NotNil(t, doc.Paths.Find("/v1/pairs"))
}

func TestFindDevices(t *testing.T) {
	handler := newTestHandler(t, fixtureSource())

	t.Run("defaults to the best latest match", func(t *testing.T) {
		w := get(t, handler, "/v1/devices")
		require.Equal(t, http.StatusOK, w.Code)

		var resp DevicesResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "17.5", resp.Target)
		require.Len(t, resp.Devices, 1)
		assert.Equal(t, testutils.UDID(16), resp.Devices[0].UDID)
		assert.Equal(t, "platform=iOS Simulator,OS=17.5,id="+testutils.UDID(16), resp.Devices[0].Destination)
	})

	t.Run("all matches with filters", func(t *testing.T) {
		w := get(t, handler, "/v1/devices?major=17&minor=all&name=iPhone+15&all=true")
		require.Equal(t, http.StatusOK, w.Code)

		var resp DevicesResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "17.x", resp.Target)
		assert.Len(t, resp.Devices, 6)
		assert.Equal(t, "17.5", resp.Devices[0].OS)
	})

	t.Run("regex", func(t *testing.T) {
		w := get(t, handler, `/v1/devices?major=all&minor=all&all=true&regex=%5EiPhone%5Cs15%24`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp DevicesResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp.Devices, 2)
	})
}

func TestFindDevices_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source inventory.Source
		target string
		status int
		kind   string
	}{
		{"no match", fixtureSource(), "/v1/devices?major=16", http.StatusNotFound, "no match"},
		{"invalid regex", fixtureSource(), "/v1/devices?regex=%28", http.StatusBadRequest, "invalid pattern"},
		{"invalid bool", fixtureSource(), "/v1/devices?all=maybe", http.StatusBadRequest, "invalid selector"},
		{"broken inventory", brokenSource{}, "/v1/devices", http.StatusBadGateway, "unavailable inventory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newTestHandler(t, tt.source), tt.target)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestFindDevices_LenientPatterns(t *testing.T) {
	handler := newTestHandler(t, fixtureSource(), WithLenientPatterns(true))

	w := get(t, handler, "/v1/devices?regex=%28")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFindPairs(t *testing.T) {
	handler := newTestHandler(t, fixtureSource())

	w := get(t, handler, "/v1/pairs?name=Pro&all=true")
	require.Equal(t, http.StatusOK, w.Code)

	var resp PairsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Phones, 2)
	assert.Equal(t, "iPhone 15 Pro", resp.Phones[0].Name)
	assert.Equal(t, "platform=iOS Simulator,id="+testutils.UDID(2001), resp.Phones[0].Destination)

	w = get(t, handler, "/v1/pairs")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Phones, 1)

	w = get(t, handler, "/v1/pairs?name=Pixel")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthInfoAndSpec(t *testing.T) {
	handler := newTestHandler(t, fixtureSource())

	w := get(t, handler, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, handler, "/v1/info")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, findsimulator.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = get(t, handler, "/openapi.yaml")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "openapi: 3.0.3"))

	w = get(t, handler, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are off unless configured")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	finder := findsimulator.New(fixtureSource(), findsimulator.WithLifecycleHooks(metrics.Hooks()))
	handler, err := NewHandler(finder, WithMetrics(reg))
	require.NoError(t, err)

	get(t, handler, "/v1/devices")
	get(t, handler, "/v1/devices?major=16")

	w := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `findsimulator_lookups_total{lookup="devices",outcome="ok"} 1`)
	assert.Contains(t, body, `findsimulator_lookups_total{lookup="devices",outcome="no_match"} 1`)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
	assert.Equal(t, http.StatusGatewayTimeout, StatusCode(context.DeadlineExceeded))
	assert.Equal(t, http.StatusNotFound, StatusCode(domain.NewError(domain.KindNoMatch, "none")))
	assert.Equal(t, http.StatusGatewayTimeout,
		StatusCode(domain.WrapError(domain.KindUnavailableInventory, context.DeadlineExceeded, "failed to list devices")))
	assert.Equal(t, http.StatusBadGateway,
		StatusCode(domain.WrapError(domain.KindUnavailableInventory, errors.New("exit 72"), "failed to list devices")))
}

func TestFindDevices_InventoryTimeout(t *testing.T) {
	handler := newTestHandler(t, inventory.WithTimeout(stalledSource{}, 10*time.Millisecond))

	for _, target := range []string{"/v1/devices", "/v1/pairs"} {
		w := get(t, handler, target)
		assert.Equal(t, http.StatusGatewayTimeout, w.Code, target)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "unavailable inventory", resp.Kind)
	}
}
