package timezone

import (
	"time"
	"travelnest/config"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var appLocation = time.UTC

func init() {
	appLocation = Load(config.Get().App.Timezone)
}

// Load resolves an IANA zone name. Empty or unknown names fall back to UTC.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("no timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, using " + defaultZone)

		return time.UTC
	}

	log.Debug().Str("timezone", loc.String()).Msg("application timezone loaded")

	return loc
}

// Location returns the application timezone.
func Location() *time.Location {
	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation)
}

// Format renders t in the application timezone. Zero times render empty.
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	return t.In(appLocation).Format(layout)
}

// ParseDate parses a calendar date (YYYY-MM-DD) at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}

// FormatDate formats a calendar date as YYYY-MM-DD without zone conversion.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}
