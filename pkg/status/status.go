// Package status publishes board status to a broker so boards can be
// watched from a monitor without touching the IR link.
package status

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/link"
)

// BoardStatus is the telemetry published by a board.
type BoardStatus struct {
	BoardId    string `protobuf:"bytes,1,opt,name=board_id,json=boardId,proto3" json:"board_id,omitempty"`
	Role       string `protobuf:"bytes,2,opt,name=role,proto3" json:"role,omitempty"`
	Tick       uint64 `protobuf:"varint,3,opt,name=tick,proto3" json:"tick,omitempty"`
	LocalX     uint32 `protobuf:"varint,4,opt,name=local_x,json=localX,proto3" json:"local_x,omitempty"`
	LocalY     uint32 `protobuf:"varint,5,opt,name=local_y,json=localY,proto3" json:"local_y,omitempty"`
	PeerX      uint32 `protobuf:"varint,6,opt,name=peer_x,json=peerX,proto3" json:"peer_x,omitempty"`
	PeerY      uint32 `protobuf:"varint,7,opt,name=peer_y,json=peerY,proto3" json:"peer_y,omitempty"`
	Ended      bool   `protobuf:"varint,8,opt,name=ended,proto3" json:"ended,omitempty"`
	Rounds     uint32 `protobuf:"varint,9,opt,name=rounds,proto3" json:"rounds,omitempty"`
	Received   uint64 `protobuf:"varint,10,opt,name=received,proto3" json:"received,omitempty"`
	Rejected   uint64 `protobuf:"varint,11,opt,name=rejected,proto3" json:"rejected,omitempty"`
	Sent       uint64 `protobuf:"varint,12,opt,name=sent,proto3" json:"sent,omitempty"`
	SendErrors uint64 `protobuf:"varint,13,opt,name=send_errors,json=sendErrors,proto3" json:"send_errors,omitempty"`
	Drops      uint64 `protobuf:"varint,14,opt,name=drops,proto3" json:"drops,omitempty"`
}

// Reset implements proto.Message.
func (m *BoardStatus) Reset() { *m = BoardStatus{} }

// String implements proto.Message.
func (m *BoardStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*BoardStatus) ProtoMessage() {}

// Snapshot captures the status of a session. The tick is not part
// of the snapshot.
func Snapshot(boardID string, s *game.Session, l link.Transport) *BoardStatus {
	st := s.State
	stats := s.Sync.Stats()
	m := &BoardStatus{
		BoardId:    boardID,
		Role:       st.Role.String(),
		LocalX:     uint32(st.Local.Pos.X),
		LocalY:     uint32(st.Local.Pos.Y),
		PeerX:      uint32(st.Peer.Pos.X),
		PeerY:      uint32(st.Peer.Pos.Y),
		Ended:      !st.Active(),
		Rounds:     uint32(st.Rounds),
		Received:   stats.Received,
		Rejected:   stats.Rejected,
		Sent:       stats.Sent,
		SendErrors: stats.SendErrors,
	}
	if dc, ok := l.(link.DropCounter); ok {
		m.Drops = dc.Drops()
	}
	return m
}

// Encode serializes a status.
func Encode(m *BoardStatus) ([]byte, error) {
	return proto.Marshal(m)
}

// Decode parses a status.
func Decode(payload []byte) (*BoardStatus, error) {
	m := &BoardStatus{}
	if err := proto.Unmarshal(payload, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Topic returns the topic a board publishes its status to.
func Topic(boardID string) string {
	return TopicPrefix + boardID
}

// TopicPrefix is the prefix of status topics.
const TopicPrefix = "status/"
