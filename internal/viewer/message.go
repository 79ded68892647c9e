// Package viewer implements the message-driven scene update pipeline: inbound
// messages are decoded, converted into renderables and installed as the
// single active object of the scene.
package viewer

import "encoding/json"

// Envelope discriminator values recognized on the wire.
const (
	kindImage  = "image"
	kindPoints = "points"
)

// Message is one decoded inbound message. Exactly one of the concrete
// variants below is produced per raw message.
type Message interface {
	isMessage()
}

// ImageMessage requests a photosphere built from the image at URL.
type ImageMessage struct {
	URL string
}

// PointsMessage carries a point table as a JSON string. The envelope payload
// is double-encoded: the outer envelope is JSON and the payload field holds
// the table's own JSON text.
type PointsMessage struct {
	TableJSON string
}

// LegacyPointsMessage is the fallback for producers unaware of the envelope
// format. Raw is always the full original message body, never a partially
// decoded substructure; older producers send the bare table as the message.
type LegacyPointsMessage struct {
	Raw string
}

func (ImageMessage) isMessage()        {}
func (PointsMessage) isMessage()       {}
func (LegacyPointsMessage) isMessage() {}

// DecodeMessage classifies a raw inbound message. A well-formed envelope with
// a recognized type yields the matching variant; anything else, including
// malformed JSON, an unknown discriminator or a non-string, null or absent
// payload, falls back to the legacy interpretation of the whole raw message.
func DecodeMessage(raw string) Message {
	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	// Unmarshaling JSON null into a string is a no-op that reports no error,
	// so a null payload must be rejected before the payload is read.
	if err := json.Unmarshal([]byte(raw), &env); err == nil &&
		len(env.Payload) > 0 && string(env.Payload) != "null" {
		switch env.Type {
		case kindImage:
			var url string
			if json.Unmarshal(env.Payload, &url) == nil {
				return ImageMessage{URL: url}
			}

		case kindPoints:
			var table string
			if json.Unmarshal(env.Payload, &table) == nil {
				return PointsMessage{TableJSON: table}
			}
		}
	}

	return LegacyPointsMessage{Raw: raw}
}
