package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/pion/webrtc/v4"
)

type SignalType string

const (
	SignalOffer        SignalType = "offer"
	SignalAnswer       SignalType = "answer"
	SignalICECandidate SignalType = "ice-candidate"
	SignalStreamUpdate SignalType = "stream-update"
)

func (t SignalType) Valid() bool {
	switch t {
	case SignalOffer, SignalAnswer, SignalICECandidate, SignalStreamUpdate:
		return true
	}
	return false
}

// CarriesStreamState reports whether relaying this type also updates the sender's stream flags.
func (t SignalType) CarriesStreamState() bool {
	return t == SignalOffer || t == SignalStreamUpdate
}

var (
	ErrSignalMissingField = errors.New("signal missing required field")
	ErrSignalBadType      = errors.New("signal type not supported")
)

// SignalData is forwarded verbatim except for SenderID. SDP and Candidate stay opaque.
type SignalData struct {
	Type      SignalType          `json:"type"`
	TargetID  domain.ConnectionID `json:"targetId"`
	SenderID  domain.ConnectionID `json:"senderId"`
	SDP       json.RawMessage     `json:"sdp,omitempty"`
	Candidate json.RawMessage     `json:"candidate,omitempty"`
	HasStream *bool               `json:"hasStream,omitempty"`
	HasAudio  *bool               `json:"hasAudio,omitempty"`
	HasVideo  *bool               `json:"hasVideo,omitempty"`
}

func (d SignalData) Validate() error {
	switch {
	case d.Type == "":
		return fmt.Errorf("%w: type", ErrSignalMissingField)
	case d.TargetID == "":
		return fmt.Errorf("%w: targetId", ErrSignalMissingField)
	case d.SenderID == "":
		return fmt.Errorf("%w: senderId", ErrSignalMissingField)
	case !d.Type.Valid():
		return fmt.Errorf("%w: %q", ErrSignalBadType, d.Type)
	}
	return nil
}

// CandidateInit reads the candidate as a browser RTCIceCandidateInit. ok is false for
// any other shape; such candidates are still relayed untouched.
func (d SignalData) CandidateInit() (webrtc.ICECandidateInit, bool) {
	var ci webrtc.ICECandidateInit
	if len(d.Candidate) == 0 || isNull(d.Candidate) {
		return ci, false
	}
	if err := json.Unmarshal(d.Candidate, &ci); err != nil || ci.Candidate == "" {
		return ci, false
	}
	return ci, true
}

// SDPMedia inspects the session description for sending audio and video sections.
// ok is false when there is no parseable SDP.
func (d SignalData) SDPMedia() (hasAudio, hasVideo, ok bool) {
	if len(d.SDP) == 0 || isNull(d.SDP) {
		return false, false, false
	}
	var desc webrtc.SessionDescription
	if err := json.Unmarshal(d.SDP, &desc); err != nil {
		var raw string
		if json.Unmarshal(d.SDP, &raw) != nil {
			return false, false, false
		}
		desc = webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: raw}
	}
	parsed, err := desc.Unmarshal()
	if err != nil {
		return false, false, false
	}
	for _, md := range parsed.MediaDescriptions {
		if md.MediaName.Port.Value == 0 {
			continue
		}
		if _, inactive := md.Attribute("inactive"); inactive {
			continue
		}
		if _, recvOnly := md.Attribute("recvonly"); recvOnly {
			continue
		}
		switch md.MediaName.Media {
		case "audio":
			hasAudio = true
		case "video":
			hasVideo = true
		}
	}
	return hasAudio, hasVideo, true
}
