// Package blobname encodes and decodes the shared naming convention for sync
// blobs: deals_<user_id>_<YYYYMMDD>_<HHMMSS>.json
//
// The embedded user id lets peers filter out their own uploads, and the
// embedded timestamp drives retention pruning, so the format is load-bearing
// for interoperability between independently-deployed instances. All parsing
// and formatting lives here; nothing else may take the name apart.
package blobname

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	prefix = "deals_"
	suffix = ".json"

	dateLayout     = "20060102"
	dateTimeLayout = "20060102_150405"
)

var ErrNotDealBlob = errors.New("not a deal blob name")

// Encode builds the blob name for an upload by user at time t.
func Encode(userID string, t time.Time) string {
	return fmt.Sprintf("%s%s_%s%s", prefix, userID, t.Format(dateTimeLayout), suffix)
}

// IsDealBlob reports whether name follows the deal blob convention at all.
func IsDealBlob(name string) bool {
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix)
}

// Owner reports whether the blob was uploaded by the given user.
func Owner(name, userID string) bool {
	return strings.HasPrefix(name, prefix+userID+"_")
}

// Parse extracts the user id and upload time from a blob name. The last two
// underscore-separated tokens are the date and time, everything between the
// prefix and those tokens is the user id (which may itself contain
// underscores).
func Parse(name string) (userID string, uploaded time.Time, err error) {
	if !IsDealBlob(name) {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrNotDealBlob, name)
	}

	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	parts := strings.Split(trimmed, "_")
	if len(parts) < 3 {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrNotDealBlob, name)
	}

	datePart := parts[len(parts)-2]
	timePart := parts[len(parts)-1]
	userID = strings.Join(parts[:len(parts)-2], "_")
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrNotDealBlob, name)
	}

	uploaded, err = time.Parse(dateTimeLayout, datePart+"_"+timePart)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrNotDealBlob, name)
	}

	return userID, uploaded, nil
}

// Date extracts only the date token, used for retention decisions where the
// time of day does not matter.
func Date(name string) (time.Time, error) {
	_, uploaded, err := Parse(name)
	if err != nil {
		return time.Time{}, err
	}
	return uploaded.Truncate(24 * time.Hour), nil
}
