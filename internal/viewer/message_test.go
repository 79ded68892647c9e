package viewer

import (
	"reflect"
	"testing"
)

func TestDecodeMessage(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want Message
	}{
		{
			"image envelope",
			`{"type": "image", "payload": "http://robot.local/pano.jpg"}`,
			ImageMessage{URL: "http://robot.local/pano.jpg"},
		},
		{
			"points envelope with double-encoded table",
			`{"type": "points", "payload": "{\"columns\": [], \"data\": []}"}`,
			PointsMessage{TableJSON: `{"columns": [], "data": []}`},
		},
		{
			"bare table falls back to legacy",
			`{"columns": ["x_cm"], "data": [[1.0]]}`,
			LegacyPointsMessage{Raw: `{"columns": ["x_cm"], "data": [[1.0]]}`},
		},
		{
			"unknown type falls back to legacy",
			`{"type": "video", "payload": "x"}`,
			LegacyPointsMessage{Raw: `{"type": "video", "payload": "x"}`},
		},
		{
			"non-string image payload falls back to legacy",
			`{"type": "image", "payload": 42}`,
			LegacyPointsMessage{Raw: `{"type": "image", "payload": 42}`},
		},
		{
			"non-string points payload falls back to legacy",
			`{"type": "points", "payload": {"columns": []}}`,
			LegacyPointsMessage{Raw: `{"type": "points", "payload": {"columns": []}}`},
		},
		{
			"missing payload falls back to legacy",
			`{"type": "image"}`,
			LegacyPointsMessage{Raw: `{"type": "image"}`},
		},
		{
			"null image payload falls back to legacy",
			`{"type": "image", "payload": null}`,
			LegacyPointsMessage{Raw: `{"type": "image", "payload": null}`},
		},
		{
			"null points payload falls back to legacy",
			`{"type": "points", "payload": null}`,
			LegacyPointsMessage{Raw: `{"type": "points", "payload": null}`},
		},
		{
			"malformed JSON falls back to legacy with the full message",
			`{"type": "points", "payload`,
			LegacyPointsMessage{Raw: `{"type": "points", "payload`},
		},
		{
			"non-object JSON falls back to legacy",
			`[1, 2, 3]`,
			LegacyPointsMessage{Raw: `[1, 2, 3]`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeMessage(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %#v, got %#v", tc.want, got)
			}
		})
	}
}
