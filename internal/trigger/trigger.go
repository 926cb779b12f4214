package trigger

import (
	"encoding/json"
	"fmt"

	"github.com/expenseops/receipt-relay/internal/common"
)

// Source identifies the document to process in object storage.
type Source struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// invocation covers both payload shapes: a storage-event batch and a
// manual {bucket, key} invocation.
type invocation struct {
	Records []struct {
		StorageEvent *struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"storage_event"`
	} `json:"records"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ParseInvocation extracts (bucket, key) from an invocation payload.
// Storage-event batches are read from the first record only; anything else
// falls back to top-level bucket/key fields. When neither shape yields
// both values the payload is rejected as an invalid invocation.
func ParseInvocation(raw []byte) (Source, error) {
	var p invocation
	if err := json.Unmarshal(raw, &p); err != nil {
		return Source{}, fmt.Errorf("%w: decode payload: %v", common.ErrInvalidInvocation, err)
	}

	if len(p.Records) > 0 && p.Records[0].StorageEvent != nil {
		ev := p.Records[0].StorageEvent
		if ev.Bucket.Name != "" && ev.Object.Key != "" {
			return Source{Bucket: ev.Bucket.Name, Key: ev.Object.Key}, nil
		}
	}

	if p.Bucket != "" && p.Key != "" {
		return Source{Bucket: p.Bucket, Key: p.Key}, nil
	}

	return Source{}, fmt.Errorf("%w: provide a storage event or {bucket, key}", common.ErrInvalidInvocation)
}
