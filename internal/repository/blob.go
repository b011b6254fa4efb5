package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

type blobKind int

const (
	blobEmpty blobKind = iota
	blobCurrent
	blobLegacyA // {doneDates, streak, lastDate?}
	blobLegacyB // {lastDate}
	blobMalformed
)

func (k blobKind) String() string {
	switch k {
	case blobCurrent:
		return "current"
	case blobLegacyA:
		return "legacy-a"
	case blobLegacyB:
		return "legacy-b"
	case blobMalformed:
		return "malformed"
	default:
		return "empty"
	}
}

// currentBlob is the persisted shape written by Save.
type currentBlob struct {
	Streaks []models.Streak `json:"streaks"`
}

// legacyBlob covers both single-streak shapes of earlier releases.
type legacyBlob struct {
	DoneDates []string `json:"doneDates"`
	Streak    *int     `json:"streak"`
	LastDate  *string  `json:"lastDate"`
}

type decoded struct {
	kind    blobKind
	streaks []models.Streak
	legacy  legacyBlob
	err     error // set for blobMalformed
}

// decode classifies raw by the fields present at the top level.
func decode(raw []byte) decoded {
	if len(bytes.TrimSpace(raw)) == 0 {
		return decoded{kind: blobEmpty}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return decoded{kind: blobMalformed, err: err}
	}
	if fields == nil {
		return decoded{kind: blobEmpty}
	}

	if _, ok := fields["streaks"]; ok {
		var cb currentBlob
		if err := json.Unmarshal(raw, &cb); err != nil {
			return decoded{kind: blobMalformed, err: err}
		}
		return decoded{kind: blobCurrent, streaks: normalize(cb.Streaks)}
	}

	_, hasDone := fields["doneDates"]
	_, hasLast := fields["lastDate"]
	if !hasDone && !hasLast {
		return decoded{kind: blobMalformed, err: fmt.Errorf("unrecognized blob with %d top-level fields", len(fields))}
	}

	var lb legacyBlob
	if err := json.Unmarshal(raw, &lb); err != nil {
		return decoded{kind: blobMalformed, err: err}
	}
	// A legacy blob is only worth migrating when it carries a date.
	switch {
	case lb.DoneDates != nil:
		return decoded{kind: blobLegacyA, legacy: lb}
	case lb.LastDate != nil && *lb.LastDate != "":
		return decoded{kind: blobLegacyB, legacy: lb}
	default:
		return decoded{kind: blobMalformed, err: fmt.Errorf("legacy blob without done dates")}
	}
}

// migrateLegacy turns a single-streak blob into a one-record collection.
func migrateLegacy(lb legacyBlob, now time.Time) []models.Streak {
	doneDates := []string{}
	switch {
	case lb.DoneDates != nil:
		doneDates = append(doneDates, lb.DoneDates...)
	case lb.LastDate != nil && *lb.LastDate != "":
		doneDates = append(doneDates, *lb.LastDate)
	}

	// A zero count next to dates is a cache that was never filled in.
	streak := 0
	switch {
	case lb.Streak != nil && *lb.Streak != 0:
		streak = *lb.Streak
	case len(doneDates) > 0:
		streak = 1
	}

	return []models.Streak{{
		ID:        constants.LegacyStreakID,
		Name:      constants.LegacyStreakName,
		DoneDates: doneDates,
		Streak:    streak,
		CreatedAt: streakcalc.CreatedAt(now),
	}}
}

func encode(streaks []models.Streak) ([]byte, error) {
	return json.Marshal(currentBlob{Streaks: normalize(streaks)})
}

// normalize returns streaks with non-nil slices so the blob never carries
// nulls. The input is not modified.
func normalize(streaks []models.Streak) []models.Streak {
	out := make([]models.Streak, len(streaks))
	copy(out, streaks)
	for i := range out {
		if out[i].DoneDates == nil {
			out[i].DoneDates = []string{}
		}
	}
	return out
}
