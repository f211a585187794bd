package services

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bondmatch/internal/shared/testutil"
	"bondmatch/pkg/contracts"
)

type mockDatasetStatus struct {
	mock.Mock
}

func (m *mockDatasetStatus) Loaded() bool {
	return m.Called().Bool(0)
}

func TestHealthService_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		loaded     bool
		wantStatus string
	}{
		{"dataset loaded", true, "ready"},
		{"no dataset", false, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			datasets := new(mockDatasetStatus)
			datasets.On("Loaded").Return(tt.loaded)
			logger, _ := testutil.NewTestLogger(t)

			status := NewHealthService(datasets, logger).ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.loaded, status.Ready())
			assert.Equal(t, tt.wantStatus, status.Services["dataset"].Status)
			datasets.AssertExpectations(t)
		})
	}
}

func TestHealthService_NilDatasets(t *testing.T) {
	status := NewHealthService(nil, nil).ReadinessCheck(context.Background())
	assert.False(t, status.Ready())
	assert.Contains(t, status.Services["dataset"].Message, ErrDatasetNotLoaded.Error())
}

func TestHealthService_ReadinessFollowsBondService(t *testing.T) {
	svc := NewBondService(BondServiceOptions{})
	hs := NewHealthService(svc, nil)
	assert.False(t, hs.ReadinessCheck(context.Background()).Ready())

	loaded, _ := newLoadedService(t)
	hs = NewHealthService(loaded, nil)
	assert.True(t, hs.ReadinessCheck(context.Background()).Ready())
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	hs := NewHealthService(nil, nil)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, contracts.Version, health.Version)
	assert.False(t, health.Timestamp.IsZero())

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Equal(t, runtime.Version(), live.Runtime["go_version"])
	assert.Contains(t, live.Runtime, "uptime")
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestHealthService_Version(t *testing.T) {
	v := NewHealthService(nil, nil).Version()

	assert.Equal(t, contracts.Version, v["version"])
	assert.Equal(t, contracts.APIVersion, v["api_version"])
	assert.Equal(t, runtime.GOOS, v["os"])
	for _, key := range []string{"build_time", "git_commit", "uptime", "start_time", "current_time"} {
		assert.Contains(t, v, key)
	}
}
