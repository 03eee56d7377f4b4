package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
)

// GenerateTrackingNumber returns TRK followed by the last 8 digits of the
// millisecond clock and 4 random digits
func GenerateTrackingNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	stamp := now.UnixMilli() % 100000000
	return fmt.Sprintf("%s%08d%04d", constants.TrackingNumberPrefix, stamp, n.Int64()), nil
}
