package kv

import (
	"bytes"
	"encoding/binary"
	"time"
)

// 不支持原生过期的实现（nats、groupcache）在值前附加截止时间:
//
//	magic(4) | deadline unix nano, big endian (8) | value
var envelopeMagic = []byte{'h', 'k', 'v', 0x01}

const envelopeHeader = 4 + 8

// sealValue ttl<=0 时原样返回.
func sealValue(value []byte, ttl time.Duration, now time.Time) []byte {
	if ttl <= 0 {
		return value
	}

	out := make([]byte, envelopeHeader+len(value))
	copy(out, envelopeMagic)
	binary.BigEndian.PutUint64(out[4:envelopeHeader], uint64(now.Add(ttl).UnixNano()))
	copy(out[envelopeHeader:], value)

	return out
}

// openValue 返回值与是否仍有效. 未封装的值视为永不过期.
func openValue(b []byte, now time.Time) ([]byte, bool) {
	if len(b) < envelopeHeader || !bytes.Equal(b[:4], envelopeMagic) {
		return b, true
	}

	deadline := int64(binary.BigEndian.Uint64(b[4:envelopeHeader]))
	if now.UnixNano() >= deadline {
		return nil, false
	}

	return b[envelopeHeader:], true
}
