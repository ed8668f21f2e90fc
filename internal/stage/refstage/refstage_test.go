package refstage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidercore/engine/internal/stage"
)

func TestStageAcknowledgesSuspendAndContinue(t *testing.T) {
	s := New("downloader")
	h, err := s.Start(stage.Options{"spider": "s1"})
	require.NoError(t, err)

	h.Control <- stage.SignalSuspend
	select {
	case ack := <-h.Ack:
		assert.Equal(t, stage.AckOK, ack)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for suspend ack")
	}

	h.Control <- stage.SignalContinue
	select {
	case ack := <-h.Ack:
		assert.Equal(t, stage.AckOK, ack)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for continue ack")
	}
}

func TestStageStopsWhenControlChannelCloses(t *testing.T) {
	s := New("spider")
	h, err := s.Start(stage.Options{})
	require.NoError(t, err)

	close(h.Control)

	select {
	case <-h.Stopped:
	case <-time.After(time.Second):
		t.Fatal("stage did not stop after control channel closed")
	}
}
