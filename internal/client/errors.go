package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// APIError is any non-2xx answer from the funding API. Message is the most
// human-readable string that could be dug out of the response body; there
// is deliberately no retry machinery behind it.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// extractMessage digs a displayable message out of an error body. The
// backend's envelopes are inconsistent, so this falls through the shapes it
// is known to produce: {"detail": "..."} and {"detail": [{"msg": ...}]}
// from the validation layer, {"message": ...} and {"error": ...} from
// handlers, an HTML error page from the proxy in front of it, and finally
// the bare status text.
func extractMessage(body []byte, contentType string, status int) string {
	if msg := jsonMessage(body); msg != "" {
		return msg
	}
	if strings.Contains(contentType, "text/html") || looksLikeHTML(body) {
		if msg := htmlMessage(body); msg != "" {
			return msg
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) <= 200 && !looksLikeHTML(body) {
		return trimmed
	}
	return http.StatusText(status)
}

func jsonMessage(body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if len(envelope.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail != "" {
			return detail
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func looksLikeHTML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<")
}
