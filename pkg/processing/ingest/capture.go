package ingest

import (
	"fmt"

	"github.com/ohler55/ojg/oj"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// Capture files are JSON lines, one envelope per decoded packet:
//
//	{"kind":"sessionHistory","data":{...}}
//
// The same format is written by capturing frontends and read back by the
// ingest and replay commands.

type envelopeKind struct {
	Kind string `json:"kind"`
}

func DecodePacket(line []byte) (model.Packet, error) {
	var env envelopeKind
	if err := oj.Unmarshal(line, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case model.PacketKindSession.String():
		var wrap struct {
			Data model.SessionData `json:"data"`
		}
		if err := oj.Unmarshal(line, &wrap); err != nil {
			return nil, err
		}
		return &wrap.Data, nil
	case model.PacketKindParticipants.String():
		var wrap struct {
			Data model.ParticipantsData `json:"data"`
		}
		if err := oj.Unmarshal(line, &wrap); err != nil {
			return nil, err
		}
		return &wrap.Data, nil
	case model.PacketKindSessionHistory.String():
		var wrap struct {
			Data model.SessionHistoryData `json:"data"`
		}
		if err := oj.Unmarshal(line, &wrap); err != nil {
			return nil, err
		}
		return &wrap.Data, nil
	case model.PacketKindFinalClassification.String():
		var wrap struct {
			Data model.FinalClassificationData `json:"data"`
		}
		if err := oj.Unmarshal(line, &wrap); err != nil {
			return nil, err
		}
		return &wrap.Data, nil
	default:
		return nil, fmt.Errorf("unknown packet kind %q", env.Kind)
	}
}

func EncodePacket(packet model.Packet) ([]byte, error) {
	return oj.Marshal(map[string]any{
		"kind": packet.Kind().String(),
		"data": packet,
	})
}
