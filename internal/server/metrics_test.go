package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mechcheck/internal/core/model"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetrics_ResetsCategoriesThatStopRunning(t *testing.T) {
	m := NewMetrics()

	m.Observe([]*model.VersionResult{{
		Version: "v3.3.1",
		Conflicts: []model.ConflictReport{
			{Category: model.CategoryRO2Summation, Missing: []string{"D"}, Extra: []string{"A"}},
			{Category: model.CategoryDescriptionSpecies, Missing: []string{"XYZ"}},
		},
	}})
	body := scrape(t, m)
	assert.Contains(t, body, `mechcheck_conflicts{category="description_species",version="v3.3.1"} 1`)
	assert.Contains(t, body, `mechcheck_conflicts{category="ro2_summation",version="v3.3.1"} 2`)

	m.Observe([]*model.VersionResult{{
		Version: "v3.3.1",
		Conflicts: []model.ConflictReport{
			{Category: model.CategoryRO2Summation, Missing: []string{"D"}},
		},
	}})
	body = scrape(t, m)
	assert.Contains(t, body, `mechcheck_conflicts{category="description_species",version="v3.3.1"} 0`)
	assert.Contains(t, body, `mechcheck_conflicts{category="ro2_summation",version="v3.3.1"} 1`)

	m.Observe([]*model.VersionResult{{Version: "v3.3.1", Err: errors.New("boom")}})
	body = scrape(t, m)
	assert.Contains(t, body, `mechcheck_conflicts{category="ro2_summation",version="v3.3.1"} 0`)
	assert.Contains(t, body, `mechcheck_checks_total{status="error",version="v3.3.1"} 1`)
}
