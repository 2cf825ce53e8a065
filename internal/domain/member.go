package domain

// Member is one user's (or device's) participation state within a room.
// Field names are wire-compatible with the stored records.
type Member struct {
	UserID   string      `json:"user_id"`
	UserName string      `json:"user_name"`
	DeviceID string      `json:"device_id,omitempty"`
	RoomID   string      `json:"room_id"`
	Role     Role        `json:"user_role"`
	Camera   DeviceState `json:"camera"`
	Mic      DeviceState `json:"mic"`
	JoinTime int64       `json:"join_time"`

	SharePermission Permission  `json:"share_permission"`
	ShareStatus     ShareStatus `json:"share_status"`
	ShareType       ShareType   `json:"share_type"`

	CameraPermission Permission `json:"operate_camera_permission"`
	MicPermission    Permission `json:"operate_mic_permission"`

	IsSilence Silence `json:"is_silence"`
}

// JoinRoom stamps membership meta. JoinTime is set exactly once; an
// idempotent re-join must not reset it.
func (m *Member) JoinRoom(roomID string, role Role, now int64) {
	if m.JoinTime == 0 {
		m.JoinTime = now
	}
	m.RoomID = roomID
	m.Role = role
}

func (m *Member) OperateCamera(operate DeviceState) {
	m.Camera = operate
}

func (m *Member) OperateMic(operate DeviceState) {
	m.Mic = operate
}

func (m *Member) UpdateMicPermission(permission Permission) {
	m.MicPermission = permission
}

func (m *Member) UpdateSharePermission(permission Permission) {
	m.SharePermission = permission
}

func (m *Member) StartShare(shareType ShareType) {
	m.ShareStatus = Sharing
	m.ShareType = shareType
}

func (m *Member) FinishShare() {
	m.ShareStatus = NotSharing
	m.ShareType = ShareScreen
}

func (m *Member) IsHuman() bool {
	return IsHumanUserID(m.UserID)
}
