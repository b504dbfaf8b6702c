package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Time(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	m := Message{Timestamp: want.UnixMilli()}

	assert.True(t, want.Equal(m.Time()))
}
