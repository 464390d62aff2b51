package respcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Params are the request parameters that identify a cached response.
// Values must be JSON-encodable; encoding/json sorts map keys, which makes the key canonical.
type Params map[string]any

// Cache stores upstream responses for a bounded time.
//
// Get reports hit=false for absent or expired entries. Expired entries are not removed by Get.
// Put overwrites unconditionally (last writer wins).
type Cache interface {
	Get(ctx context.Context, endpoint string, params Params) (payload []byte, hit bool, err error)
	Put(ctx context.Context, endpoint string, params Params, payload []byte) error
}

// Key derives the storage key "endpoint:md5hex(canonical params)".
func Key(endpoint string, params Params) (string, error) {
	if params == nil {
		params = Params{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode cache params: %w", err)
	}
	sum := md5.Sum(b)
	return endpoint + ":" + hex.EncodeToString(sum[:]), nil
}
