package services

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/adi-nugroho/laundrylink-api/models"
)

const (
	// TrackingCodePrefix is the fixed prefix of every tracking code
	TrackingCodePrefix = "LND"
	// TrackingCodeSuffixLength is the number of random characters after the date stamp
	TrackingCodeSuffixLength = 4
	// MaxTrackingCodeAttempts bounds the regenerate-on-collision loop
	MaxTrackingCodeAttempts = 10
)

// trackingCodeAlphabet is the character set for the random suffix
const trackingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTrackingCode produces a unique, shareable order identifier of the
// form LND + YYYYMMDD + 4 random characters from [A-Z0-9].
//
// Each candidate is checked against existing orders before being returned;
// after MaxTrackingCodeAttempts collisions it gives up with a
// CODE_GENERATION_EXHAUSTED error instead of looping forever. The unique
// index on orders.tracking_code remains the actual correctness guarantee —
// this check only avoids needless constraint-violation retries.
func GenerateTrackingCode(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < MaxTrackingCodeAttempts; attempt++ {
		code, err := randomTrackingCode(time.Now())
		if err != nil {
			return "", err
		}

		var count int64
		if err := db.Model(&models.Order{}).Where("tracking_code = ?", code).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check tracking code uniqueness: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}

	return "", &ServiceError{
		Code:       "CODE_GENERATION_EXHAUSTED",
		Message:    fmt.Sprintf("Could not generate a unique tracking code after %d attempts", MaxTrackingCodeAttempts),
		HTTPStatus: http.StatusConflict,
	}
}

// randomTrackingCode builds one candidate code for the given date
func randomTrackingCode(now time.Time) (string, error) {
	buf := make([]byte, TrackingCodeSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	suffix := make([]byte, TrackingCodeSuffixLength)
	for i, b := range buf {
		suffix[i] = trackingCodeAlphabet[int(b)%len(trackingCodeAlphabet)]
	}

	return fmt.Sprintf("%s%s%s", TrackingCodePrefix, now.Format("20060102"), suffix), nil
}
