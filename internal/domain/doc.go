// Package domain models the boss respawn spreadsheet and resolves each boss
// into a countdown status.
//
// # Data Source
//
// The sheet is maintained by hand and published as CSV. The first line is a
// header. Rows may have extra or missing trailing columns, fields may be
// quoted to hold commas, and quoting is not always balanced. Rows shorter
// than the schema's minimum are dropped; everything else is read best-effort.
//
// # Column Layout
//
// Column positions are described by a versioned [Schema]:
//
//	v2 (default, 9 columns):
//	  0 Map | 1 Level | 2 Boss | 3 Killed time | 4 Killed date |
//	  5 Cooldown | 6 Respawn time | 7 Respawn date | 8 Note
//	v1 (10 columns): same as v2 with the note in column 9.
//
// A boss is on a fixed schedule when its killed-time column reads exactly
// "Fixed"; fixed bosses never get a countdown.
//
// # Time Formats
//
//	Timestamps: "HH:MM DD/MM/YYYY", time first, day before month,
//	interpreted in the configured zone. "14:30 05/06/2024" = 5 June 2024.
//	Cooldown:   "HH:MM" hours and minutes, hours may exceed 23.
//
// Out-of-range values such as "25:00" or "31/02/2024" are rejected rather
// than normalized into a neighbouring date.
//
// # Notes
//
// Sheet maintainers often type an estimate into the note column ("23min
// left", "1h48m", "ready"). A note estimate is trusted over any timestamp on
// the row, even when the two disagree.
//
// # Resolution Order
//
//  1. Fixed marker           -> "Fixed Schedule"
//  2. Note estimate          -> "READY NOW" or the matched token
//  3. Respawn timestamp      -> "<h>h <m>m <s>s" or "READY NOW"
//  4. Killed + cooldown      -> same as 3
//  5. Nothing usable         -> "Unknown" ("Invalid Date" if a timestamp was unreadable)
//
// Countdowns under one hour are "soon", the rest "long".
package domain
