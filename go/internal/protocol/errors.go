package protocol

import "errors"

var (
	ErrInvalidFrame = errors.New("invalid frame")

	ErrFrameLength   = errors.New("wrong frame length")
	ErrFrameMarker   = errors.New("wrong frame marker")
	ErrFrameChecksum = errors.New("frame checksum mismatch")
)
