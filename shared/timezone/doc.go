// Package timezone pins wall-clock timestamps to the zone named by
// APP_TIMEZONE (an IANA name such as "Europe/Paris"), defaulting to UTC.
//
// Two kinds of time flow through the API. Audit stamps (created_at,
// modified_at) come from Now and are rendered with Format. Stay dates
// (check_in, check_out) are calendar days: ParseDate and FormatDate keep
// them at UTC midnight so a booking never drifts by a day when the
// server zone changes.
package timezone
