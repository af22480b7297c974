package ws

import (
	"encoding/json"
)

// Inbound frames are flat JSON objects discriminated by a "type" field.
const (
	eventLogin   = "login"
	eventChat    = "chat"
	eventPrivate = "private"
	eventKick    = "kick"
	eventBan     = "ban"
)

// Outbound discriminants. "chat" and "private" are shared with the inbound
// side; "system" is server-initiated only.
const eventSystem = "system"

// ──────────────────────────── Inbound events ────────────────────────────

// LoginEvent must be the first frame on every connection. Token carries the
// credential for the verifier; when absent, Identity itself is presented as
// the credential (dev mode).
type LoginEvent struct {
	Identity string `json:"identity"`
	Room     string `json:"room"`
	Token    string `json:"token,omitempty"`
}

type ChatEvent struct {
	Text string `json:"text"`
}

type PrivateEvent struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type KickEvent struct {
	Target string `json:"target"`
}

type BanEvent struct {
	Target string `json:"target"`
}

// ──────────────────────────── Outbound payloads ──────────────────────────

type SystemPayload struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Time        int64  `json:"time"`
	OnlineCount int    `json:"onlineCount"`
}

type ChatPayload struct {
	Type     string `json:"type"`
	Identity string `json:"identity"`
	Text     string `json:"text"`
	Time     int64  `json:"time"`
}

type PrivatePayload struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// decodeFrame extracts the discriminant of an inbound frame. The raw bytes
// are returned untouched so the router can bind them to a typed event.
func decodeFrame(data []byte) (string, json.RawMessage, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", nil, ErrProtocolViolation
	}
	if head.Type == "" {
		return "", nil, ErrProtocolViolation
	}
	return head.Type, data, nil
}
