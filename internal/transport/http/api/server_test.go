package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"metabohunter/internal/catalog"
	"metabohunter/internal/gateway/metabohunter"
	"metabohunter/internal/identify"
	"metabohunter/internal/peaks"
	"metabohunter/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdentifier struct {
	mock.Mock
}

func (m *MockIdentifier) IdentifyPeaks(ctx context.Context, list peaks.List, opts ...identify.Option) (identify.Result, error) {
	params := catalog.Defaults()
	for _, opt := range opts {
		opt(&params)
	}
	args := m.Called(list, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(identify.Result), args.Error(1)
}

func newTestServer(t *testing.T, id *MockIdentifier) (*Server, *settings.Panel) {
	t.Helper()
	panel, err := settings.NewPanel(catalog.Defaults())
	require.NoError(t, err)
	srv, err := NewServer(ServerConfig{Identifier: id, Panel: panel})
	require.NoError(t, err)
	return srv, panel
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}

func TestHealthAndParameters(t *testing.T) {
	srv, _ := newTestServer(t, new(MockIdentifier))
	assert.Equal(t, ":9992", srv.Addr())

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/parameters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Fields []settings.Field `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Fields, len(catalog.Dimensions()))
}

func TestSettingsRoutes(t *testing.T) {
	srv, panel := newTestServer(t, new(MockIdentifier))

	rec := do(t, srv, http.MethodPatch, "/api/settings", `{"database":"MMCD","noise":0.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MMCD", panel.Parameters().Database)
	assert.Equal(t, 0.5, panel.Parameters().Noise)

	rec = do(t, srv, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got catalog.Parameters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, panel.Parameters(), got)

	t.Run("invalid value", func(t *testing.T) {
		rec := do(t, srv, http.MethodPatch, "/api/settings", `{"metabotype":"Unknown"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MMCD", panel.Parameters().Database)
	})

	t.Run("unknown field rejected by schema", func(t *testing.T) {
		rec := do(t, srv, http.MethodPatch, "/api/settings", `{"colour":"red"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty patch", func(t *testing.T) {
		rec := do(t, srv, http.MethodPatch, "/api/settings", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not json", func(t *testing.T) {
		rec := do(t, srv, http.MethodPatch, "/api/settings", `database=MMCD`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIdentifyRoute(t *testing.T) {
	t.Run("success with overrides", func(t *testing.T) {
		id := new(MockIdentifier)
		want := catalog.Defaults()
		want.Database = catalog.DatabaseMMCD
		id.On("IdentifyPeaks", peaks.List{{Shift: 3.14, Intensity: 100}, {Shift: 5, Intensity: 50}}, want).
			Return(identify.Result{
				{Shift: 3.14, Intensity: 100, MetaboliteID: "HMDB001", Name: "Glucose", Score: 0.9},
				{Shift: 5, Intensity: 50},
			}, nil).Once()
		srv, _ := newTestServer(t, id)

		rec := do(t, srv, http.MethodPost, "/api/identify",
			`{"shifts":[[3.14],[5.0]],"intensities":[100,50],"parameters":{"database":"MMCD"}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{
			"matched": 1,
			"metabolite_ids": ["HMDB001", null],
			"matches": [
				{"shift":3.14,"intensity":100,"metabolite_id":"HMDB001","name":"Glucose","score":0.9},
				{"shift":5,"intensity":50,"metabolite_id":null}
			]
		}`, rec.Body.String())
		id.AssertExpectations(t)
	})

	t.Run("client errors", func(t *testing.T) {
		id := new(MockIdentifier)
		srv, _ := newTestServer(t, id)
		cases := map[string]string{
			"missing intensities": `{"shifts":[1]}`,
			"length mismatch":     `{"shifts":[1,2,3],"intensities":[1,2]}`,
			"two dimensional":     `{"shifts":[[1,2],[3,4]],"intensities":[1,2,3,4]}`,
			"bad parameter":       `{"shifts":[1],"intensities":[1],"parameters":{"metabotype":"Unknown"}}`,
		}
		for name, body := range cases {
			rec := do(t, srv, http.MethodPost, "/api/identify", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		}
		id.AssertNotCalled(t, "IdentifyPeaks", mock.Anything, mock.Anything)
	})

	t.Run("remote failures", func(t *testing.T) {
		id := new(MockIdentifier)
		id.On("IdentifyPeaks", mock.Anything, mock.Anything).
			Return(nil, &metabohunter.StatusError{Endpoint: metabohunter.SubmitPath, StatusCode: 503, Status: "503 Service Unavailable"}).Once()
		id.On("IdentifyPeaks", mock.Anything, mock.Anything).
			Return(nil, context.DeadlineExceeded).Once()
		srv, _ := newTestServer(t, id)

		rec := do(t, srv, http.MethodPost, "/api/identify", `{"shifts":[1],"intensities":[1]}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		rec = do(t, srv, http.MethodPost, "/api/identify", `{"shifts":[1],"intensities":[1]}`)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("chart", func(t *testing.T) {
		id := new(MockIdentifier)
		id.On("IdentifyPeaks", mock.Anything, mock.Anything).
			Return(identify.Result{{Shift: 1, Intensity: 2, MetaboliteID: "HMDB9"}}, nil).Once()
		srv, _ := newTestServer(t, id)
		rec := do(t, srv, http.MethodPost, "/api/identify/chart", `{"shifts":[1],"intensities":[2]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "HMDB9")
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(catalog.ErrInvalidParameter))
	assert.Equal(t, http.StatusBadRequest, statusFor(peaks.ErrShape))
	assert.Equal(t, http.StatusBadGateway, statusFor(metabohunter.ErrParse))
	assert.Equal(t, http.StatusBadGateway, statusFor(errors.New("connection refused")))
}
