package domain

import "sort"

// Room is the room-wide state record. Member records are stored separately;
// Room carries only the aggregate fields (host, mute-all, share mirror).
type Room struct {
	AppID        string `json:"app_id"`
	RoomID       string `json:"room_id"`
	RoomName     string `json:"room_name"`
	HostUserID   string `json:"host_user_id"`
	HostUserName string `json:"host_user_name"`

	RoomMicStatus     RoomMicStatus `json:"room_mic_status"`
	SelfMicPermission Permission    `json:"operate_self_mic_permission"`

	ShareStatus   ShareStatus `json:"share_status"`
	ShareType     ShareType   `json:"share_type"`
	ShareUserID   string      `json:"share_user_id"`
	ShareUserName string      `json:"share_user_name"`

	StartTime int64 `json:"start_time"`
	BaseTime  int64 `json:"base_time"`

	RecordStatus    RecordStatus `json:"record_status"`
	RecordStartTime int64        `json:"record_start_time"`

	Status              int    `json:"status"`
	ExperienceTimeLimit int    `json:"experience_time_limit"`
	Ext                 string `json:"ext"`
}

func NewRoom(appID, roomID, roomName, hostUserID, hostUserName string, now int64) *Room {
	if roomName == "" {
		roomName = roomID
	}
	return &Room{
		AppID:               appID,
		RoomID:              roomID,
		RoomName:            roomName,
		HostUserID:          hostUserID,
		HostUserName:        hostUserName,
		RoomMicStatus:       AllowMic,
		StartTime:           now,
		BaseTime:            now,
		ExperienceTimeLimit: 1800,
	}
}

// RoleFor decides the role a joining user gets: the pre-registered host
// keeps HOST, everyone else enters as VISITOR. An empty HostUserID means the
// room is brand new and the first joiner takes HOST.
func (r *Room) RoleFor(userID string) Role {
	if r.HostUserID == "" || userID == r.HostUserID {
		return RoleHost
	}
	return RoleVisitor
}

func (r *Room) SetHost(m *Member) {
	r.HostUserID = m.UserID
	r.HostUserName = m.UserName
}

// MirrorShare records the current sharer on the room. Last writer wins; an
// already-sharing member is silently overwritten.
func (r *Room) MirrorShare(m *Member) {
	r.ShareStatus = Sharing
	r.ShareType = m.ShareType
	r.ShareUserID = m.UserID
	r.ShareUserName = m.UserName
}

// ClearShare resets the share mirror if userID is the recorded sharer.
func (r *Room) ClearShare(userID string) {
	if r.ShareUserID != userID {
		return
	}
	r.ShareStatus = NotSharing
	r.ShareType = ShareScreen
	r.ShareUserID = ""
	r.ShareUserName = ""
}

// SortMembers orders members by insertion order. JoinTime is set exactly
// once per membership, so it serves as the insertion stamp; user id breaks
// ties between same-millisecond joins.
func SortMembers(members []*Member) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].JoinTime != members[j].JoinTime {
			return members[i].JoinTime < members[j].JoinTime
		}
		return members[i].UserID < members[j].UserID
	})
}

// NextHost picks the succession candidate: first remaining member by
// insertion order. Returns nil when no members survive.
func NextHost(survivors []*Member) *Member {
	if len(survivors) == 0 {
		return nil
	}
	SortMembers(survivors)
	return survivors[0]
}
