// Package domain contains the meeting entities and their state rules.
// No transport or storage logic here.
package domain

type Role int

const (
	RoleVisitor Role = 0
	RoleHost    Role = 1
)

type DeviceState int

const (
	DeviceClosed DeviceState = 0
	DeviceOpen   DeviceState = 1
)

type Permission int

const (
	NoPermission  Permission = 0
	HasPermission Permission = 1
)

type RoomMicStatus int

const (
	AllMuted RoomMicStatus = 0
	AllowMic RoomMicStatus = 1
)

type RecordStatus int

const (
	NotRecording RecordStatus = 0
	Recording    RecordStatus = 1
)

type ShareType int

const (
	ShareScreen ShareType = 0
	ShareBoard  ShareType = 1
)

type ShareStatus int

const (
	NotSharing ShareStatus = 0
	Sharing    ShareStatus = 1
)

// Silence marks cloud recorder users; they are excluded from notifications.
type Silence int

const (
	NotSilent Silence = 0
	Silent    Silence = 1
)

// HumanUserIDLength is the fixed length of human user ids (uuid hex).
// Device and bot participants carry ids of other lengths.
const HumanUserIDLength = 32

func IsHumanUserID(userID string) bool {
	return len(userID) == HumanUserIDLength
}
