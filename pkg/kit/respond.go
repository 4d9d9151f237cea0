package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Message is the body of every non-resource response: errors as well as
// confirmations such as a successful delete.
type Message struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

const encodeFailedBody = `{"message":"Внутренняя ошибка сервера"}` + "\n"

// WriteJSON encodes v before touching the response, so a value that cannot be
// encoded turns into a 500 instead of a success status with an empty body.
// The encode error is returned for the caller to log.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailedBody))
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

func WriteText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

// WriteMessage writes {"message": msg} and attaches the request id when the
// RequestID middleware assigned one.
func WriteMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	_ = WriteJSON(w, status, Message{
		Message:   msg,
		RequestID: chimw.GetReqID(r.Context()),
	})
}
