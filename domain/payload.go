package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// QueuedMessage is one normalized inbound message. Exactly one of Request
// and Err is set. BatchID is filled on a best-effort basis even when the
// message is invalid so that a failed status can still be recorded.
type QueuedMessage struct {
	BatchID  string
	Request  *BatchRequest
	QueuedAt time.Time
	Err      error
}

// Valid reports whether the message decoded and validated.
func (m QueuedMessage) Valid() bool {
	return m.Err == nil && m.Request != nil
}

type queueEnvelope struct {
	Messages []json.RawMessage `json:"messages"`
}

type envelopeMessage struct {
	ID        string          `json:"id,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Body      json.RawMessage `json:"body"`
}

// DecodeQueuePayload normalizes either accepted request shape into a list of
// messages: the queue envelope {"messages":[{"body":{...}}]} or a single
// batch request at the top level (detected by "batchId"). Per-message problems
// are reported on the message; only a payload matching neither shape fails.
func DecodeQueuePayload(body []byte, receivedAt time.Time) ([]QueuedMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if _, ok := top["messages"]; ok {
		var envelope queueEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		messages := make([]QueuedMessage, 0, len(envelope.Messages))
		for _, raw := range envelope.Messages {
			messages = append(messages, decodeEnvelopeMessage(raw, receivedAt))
		}
		return messages, nil
	}

	if _, ok := top["batchId"]; ok {
		return []QueuedMessage{DecodeMessage(body, receivedAt)}, nil
	}

	return nil, fmt.Errorf("%w: expected \"messages\" or \"batchId\"", ErrMalformedPayload)
}

// decodeEnvelopeMessage decodes one element of the envelope. A bad element
// becomes an invalid message instead of failing its siblings.
func decodeEnvelopeMessage(raw json.RawMessage, receivedAt time.Time) QueuedMessage {
	var m envelopeMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return QueuedMessage{QueuedAt: receivedAt, Err: fmt.Errorf("%w: %v", ErrInvalidMessage, err)}
	}

	queuedAt := receivedAt
	if len(m.Timestamp) > 0 {
		var ts Timestamp
		if err := json.Unmarshal(m.Timestamp, &ts); err != nil {
			return QueuedMessage{
				BatchID:  bestEffortBatchID(m.Body),
				QueuedAt: receivedAt,
				Err:      fmt.Errorf("%w: %v", ErrInvalidMessage, err),
			}
		}
		if !ts.IsZero() {
			queuedAt = ts.Time
		}
	}
	return DecodeMessage(m.Body, queuedAt)
}

// bestEffortBatchID reads batchId from a body that may not decode as a full
// request, unwrapping a stringified body first.
func bestEffortBatchID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if json.Unmarshal(raw, &inner) != nil {
			return ""
		}
		raw = []byte(inner)
	}
	var head struct {
		BatchID string `json:"batchId"`
	}
	if json.Unmarshal(raw, &head) != nil {
		return ""
	}
	return head.BatchID
}

// DecodeMessage decodes and validates a single batch request body. Bodies
// delivered as a JSON string holding JSON are unwrapped first.
func DecodeMessage(raw json.RawMessage, queuedAt time.Time) QueuedMessage {
	msg := QueuedMessage{QueuedAt: queuedAt}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		msg.Err = fmt.Errorf("%w: missing message body", ErrInvalidMessage)
		return msg
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			msg.Err = fmt.Errorf("%w: %v", ErrInvalidMessage, err)
			return msg
		}
		raw = []byte(inner)
	}

	var req BatchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		msg.BatchID = bestEffortBatchID(raw)
		msg.Err = fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		return msg
	}

	msg.BatchID = req.BatchID
	if err := req.Validate(); err != nil {
		msg.Err = err
		return msg
	}

	msg.Request = &req
	return msg
}
