package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const sessionFormatVersionCurrent = 1

// Encode serializes sess for RedisStore:
//
//	version(1) | len(1) userID | len(1) recordID | createdAt(8) | updatedAt(8)
//
// Timestamps are big-endian Unix nanoseconds. SessionID is the key and is not
// part of the value.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(sessionFormatVersionCurrent)

	if len(s.UserID) > 255 {
		return nil, errors.New("userID too long")
	}
	buf.WriteByte(byte(len(s.UserID)))
	buf.WriteString(s.UserID)

	if len(s.ID) > 255 {
		return nil, errors.New("record ID too long")
	}
	buf.WriteByte(byte(len(s.ID)))
	buf.WriteString(s.ID)

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt.UnixNano()); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.UpdatedAt.UnixNano()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a value written by Encode. The caller sets SessionID.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != sessionFormatVersionCurrent {
		return nil, errors.New("unsupported session format version")
	}

	s := &Session{}

	userID, err := readShortString(reader)
	if err != nil {
		return nil, err
	}
	s.UserID = userID

	recordID, err := readShortString(reader)
	if err != nil {
		return nil, err
	}
	s.ID = recordID

	var createdAt, updatedAt int64
	if err := binary.Read(reader, binary.BigEndian, &createdAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &updatedAt); err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes in session record")
	}

	s.CreatedAt = time.Unix(0, createdAt).UTC()
	s.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return s, nil
}

func readShortString(reader *bytes.Reader) (string, error) {
	n, err := reader.ReadByte()
	if err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
