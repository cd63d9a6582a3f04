package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	contentJSON    = "application/json"
	contentMsgpack = "application/msgpack"

	maxBodyBytes = 1 << 20
)

var (
	errEmptyBody    = errors.New("request body is empty")
	errMissingField = errors.New("username and password are required")
)

// wantsMsgpack reports whether the Accept header prefers MessagePack.
func wantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case contentMsgpack, "application/x-msgpack":
			return true
		case contentJSON:
			return false
		}
	}
	return false
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, v any) {
	var (
		data []byte
		err  error
		ct   string
	)
	if wantsMsgpack(r) {
		ct = contentMsgpack
		data, err = msgpack.Marshal(v)
	} else {
		ct = contentJSON
		data, err = json.Marshal(v)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func readBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return errEmptyBody
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case contentMsgpack, "application/x-msgpack":
		if err := msgpack.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode msgpack body: %w", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode json body: %w", err)
		}
	}
	return nil
}
