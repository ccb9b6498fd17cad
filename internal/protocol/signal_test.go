package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSDP = "v=0\r\n" +
	"o=- 4215775240449105457 2 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:0\r\n" +
	"a=sendrecv\r\n" +
	"a=rtpmap:111 opus/48000/2\r\n" +
	"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:1\r\n" +
	"a=recvonly\r\n" +
	"a=rtpmap:96 VP8/90000\r\n"

func TestSignalData_SDPMedia(t *testing.T) {
	desc, _ := json.Marshal(map[string]string{"type": "offer", "sdp": testSDP})
	plain, _ := json.Marshal(testSDP)

	tests := []struct {
		name               string
		sdp                json.RawMessage
		audio, video, isOK bool
	}{
		{"session description object", desc, true, false, true},
		{"bare sdp string", plain, true, false, true},
		{"absent", nil, false, false, false},
		{"null", json.RawMessage(`null`), false, false, false},
		{"garbage", json.RawMessage(`{"type":"offer","sdp":"not sdp"}`), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audio, video, ok := SignalData{SDP: tt.sdp}.SDPMedia()
			assert.Equal(t, tt.isOK, ok)
			assert.Equal(t, tt.audio, audio)
			assert.Equal(t, tt.video, video)
		})
	}
}

func TestSignalType(t *testing.T) {
	assert.True(t, SignalOffer.CarriesStreamState())
	assert.True(t, SignalStreamUpdate.CarriesStreamState())
	assert.False(t, SignalAnswer.CarriesStreamState())
	assert.False(t, SignalICECandidate.CarriesStreamState())
	assert.False(t, SignalType("").Valid())
}
