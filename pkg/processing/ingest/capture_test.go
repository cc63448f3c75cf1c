package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

func TestDecodePacketSession(t *testing.T) {
	line := []byte(`{"kind":"session","data":{"header":{"sessionUid":42,` +
		`"sessionTime":12.5,"frameId":100},"trackId":4,"trackName":"Spa"}}`)

	packet, err := DecodePacket(line)

	require.NoError(t, err)
	require.Equal(t, model.PacketKindSession, packet.Kind())
	session := packet.(*model.SessionData)
	assert.Equal(t, uint64(42), session.SessionUID)
	assert.Equal(t, "Spa", session.TrackName)
}

func TestDecodePacketUnknownKind(t *testing.T) {
	_, err := DecodePacket([]byte(`{"kind":"carDamage","data":{}}`))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := &model.SessionHistoryData{
		PacketHeader: model.PacketHeader{SessionUID: 42, SessionTime: 77.25},
		CarIdx:       3,
		NumLaps:      1,
		LapHistory: []model.LapHistoryEntry{
			{
				LapTimeMs: 91000, Sector1Ms: 30000, Sector2Ms: 30500,
				Sector3Ms: 30500, LapValidBitFlags: model.LapValid,
			},
		},
	}

	line, err := EncodePacket(orig)
	require.NoError(t, err)

	decoded, err := DecodePacket(line)
	require.NoError(t, err)
	require.Equal(t, model.PacketKindSessionHistory, decoded.Kind())
	history := decoded.(*model.SessionHistoryData)
	assert.Equal(t, orig.CarIdx, history.CarIdx)
	require.Len(t, history.LapHistory, 1)
	assert.Equal(t, orig.LapHistory[0].LapTimeMs, history.LapHistory[0].LapTimeMs)
}
