package timezone_test

import (
	"testing"
	"time"
	"travelnest/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{name: "empty falls back to UTC", zone: "", want: "UTC"},
		{name: "unknown falls back to UTC", zone: "Mars/Olympus_Mons", want: "UTC"},
		{name: "iana name", zone: "Asia/Jakarta", want: "Asia/Jakarta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Load(tt.zone).String())
		})
	}
}

func TestNowUsesApplicationZone(t *testing.T) {
	assert.Equal(t, timezone.Location(), timezone.Now().Location())
}

func TestFormat(t *testing.T) {
	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, stamp.In(timezone.Location()).Format(time.RFC3339), timezone.Format(stamp, time.RFC3339))
	assert.Empty(t, timezone.Format(time.Time{}, time.RFC3339))
}

func TestParseDateKeepsCalendarDay(t *testing.T) {
	parsed, err := timezone.ParseDate("2025-03-14")
	require.NoError(t, err)

	assert.Equal(t, time.UTC, parsed.Location())
	assert.Equal(t, "2025-03-14", timezone.FormatDate(parsed))
	assert.Empty(t, timezone.FormatDate(time.Time{}))

	_, err = timezone.ParseDate("14/03/2025")
	assert.Error(t, err)
}
