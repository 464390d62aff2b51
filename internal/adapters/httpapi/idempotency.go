package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/idempotency"
)

const idempotencyHeader = "Idempotency-Key"

// idempotentCall tracks one request that may be replayed. A zero value (no key or no store)
// simply writes the response.
type idempotentCall struct {
	store idempotency.Store
	fp    idempotency.Fingerprint
}

// beginIdempotent applies the Idempotency-Key rules:
// - replay if same subject+key+route+bodyHash
// - reject if same subject+key+route with a different bodyHash (409)
//
// It returns false when the response has already been written.
func (s *Server) beginIdempotent(w http.ResponseWriter, r *http.Request, route string, canonical any) (idempotentCall, bool) {
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	sub, _ := SubjectFromContext(r.Context())
	if key == "" || s.Idem == nil {
		return idempotentCall{}, true
	}
	bodyHash, err := hashBody(canonical)
	if err != nil {
		writeAppError(w, r, err)
		return idempotentCall{}, false
	}
	ctx := r.Context()
	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: domain.SubjectID(sub),
		Method:  r.Method,
		Route:   route,
	}
	if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
		writeAppError(w, r, err)
		return idempotentCall{}, false
	} else if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return idempotentCall{}, false
		}
	} else {
		_ = s.Idem.Put(ctx, metaFP, idempotency.Record{ContentType: "text/plain", Body: []byte(bodyHash)})
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
		writeAppError(w, r, err)
		return idempotentCall{}, false
	} else if ok && rec.StatusCode != 0 {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return idempotentCall{}, false
	}
	return idempotentCall{store: s.Idem, fp: respFP}, true
}

// respond writes a JSON success response and stores it for replay.
func (c idempotentCall) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		writeAppError(w, r, err)
		return
	}
	if c.store != nil {
		_ = c.store.Put(r.Context(), c.fp, idempotency.Record{
			StatusCode:  status,
			ContentType: "application/json",
			Body:        buf.Bytes(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func hashBody(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
