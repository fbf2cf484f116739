package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"GalleryBuildsTotal", GalleryBuildsTotal},
		{"GalleryItems", GalleryItems},
		{"GalleryFallbackTotal", GalleryFallbackTotal},
		{"PurgeRequestsTotal", PurgeRequestsTotal},
		{"PurgedURLsTotal", PurgedURLsTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.metric)
		})
	}
}

func TestPurgeCounterLabels(t *testing.T) {
	before := testutil.ToFloat64(PurgeRequestsTotal.WithLabelValues("files", "success"))
	PurgeRequestsTotal.WithLabelValues("files", "success").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PurgeRequestsTotal.WithLabelValues("files", "success")))
}
