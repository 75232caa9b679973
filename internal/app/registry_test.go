package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSuperviseLiveConsumer(t *testing.T) {
	tests := []struct {
		name    string
		runErr  error
		wantLog bool
	}{
		{name: "reader failure is logged", runErr: errors.New("reader closed"), wantLog: true},
		{name: "shutdown is silent", runErr: fmt.Errorf("fetch: %w", context.Canceled)},
		{name: "clean stop is silent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)

			superviseLiveConsumer(context.Background(), zap.New(core), func(context.Context) error {
				return tt.runErr
			})

			if !tt.wantLog {
				assert.Zero(t, logs.Len())
				return
			}
			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, "live leave consumer stopped", entries[0].Message)
			assert.Equal(t, "reader closed", entries[0].ContextMap()["error"])
		})
	}
}

func TestLiveGroupID(t *testing.T) {
	got := liveGroupID("dayflow-live")
	assert.Contains(t, got, "dayflow-live")
}
