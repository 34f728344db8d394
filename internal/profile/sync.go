package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/aipdev/aip/internal/backend"
)

// SyncState describes the relationship between the active credential and the
// profile the marker names.
type SyncState int

const (
	// SyncNoBaseline means no marker is set; there is nothing to protect.
	SyncNoBaseline SyncState = iota
	// SyncMarkerDangling means the marker names a profile that no longer
	// exists. Neither side can be assumed authoritative.
	SyncMarkerDangling
	// SyncInSync means the active credential matches the marked profile.
	SyncInSync
	// SyncDrifted means the active credential no longer matches the marked
	// profile, typically because the user re-logged-in through the tool
	// directly. Not an error; a signal the caller must act on.
	SyncDrifted
)

func (s SyncState) String() string {
	switch s {
	case SyncNoBaseline:
		return "no-baseline"
	case SyncMarkerDangling:
		return "marker-dangling"
	case SyncInSync:
		return "in-sync"
	case SyncDrifted:
		return "drifted"
	default:
		return "unknown"
	}
}

// CheckSync compares the active credential against the credential saved under
// the current marker. It always re-reads both sides; the active credential
// may have changed since any earlier read.
func CheckSync(b backend.Backend) (SyncState, string, error) {
	marker, err := b.ReadMarker()
	if err != nil {
		return 0, "", err
	}
	if marker == "" {
		return SyncNoBaseline, "", nil
	}

	saved, err := b.ReadProfile(marker)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return SyncMarkerDangling, marker, nil
		}
		return 0, marker, err
	}

	active, err := b.ReadActive()
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			// Marker claims a current profile but there is no active
			// credential at all: the tool was logged out externally.
			return SyncDrifted, marker, nil
		}
		return 0, marker, err
	}

	if blobsEqual(active, saved) {
		return SyncInSync, marker, nil
	}
	return SyncDrifted, marker, nil
}

// blobsEqual compares credential blobs structurally so that formatting
// differences (whitespace, key order) introduced by either tool's own writes
// don't register as drift. Non-JSON blobs fall back to byte equality.
func blobsEqual(a, b []byte) bool {
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return bytes.Equal(a, b)
	}
	return reflect.DeepEqual(av, bv)
}
