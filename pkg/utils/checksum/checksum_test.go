package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want [Size]byte
	}{
		{"空输入", nil, [Size]byte{0x00, 0x00, 0x00, 0x00}},
		{"匿名身份", []byte{0x04}, [Size]byte{0xd5, 0x6f, 0x2b, 0x94}},
		{"文本", []byte("hello"), [Size]byte{0x36, 0x10, 0xa6, 0x86}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CRC32(tt.data))
		})
	}
}

func TestCRC32Parts(t *testing.T) {
	assert.Equal(t, CRC32([]byte("hello")), CRC32([]byte("he"), []byte("llo")))
}

func TestEncodeBase32(t *testing.T) {
	assert.Equal(t, "aaaaaaa", EncodeBase32([]byte{0, 0, 0, 0}))
	assert.Equal(t, "2vxsxfae", EncodeBase32(Prefixed([]byte{0x04})))
	assert.Equal(t, "gyiknbtimvwgy3y", EncodeBase32(Prefixed([]byte("hello"))))
}

func TestDecodeBase32(t *testing.T) {
	out, err := DecodeBase32("GYIKNBTIMVWGY3Y")
	require.NoError(t, err)
	assert.Equal(t, Prefixed([]byte("hello")), out)

	for _, text := range []string{"a", "aaa", "aaaaaa", "aaaaaaaaa"} {
		_, err = DecodeBase32(text)
		assert.ErrorIs(t, err, ErrBase32Length, text)
	}
	for _, text := range []string{"", "aa", "aaaa", "aaaaa", "aaaaaaa", "aaaaaaaa"} {
		_, err = DecodeBase32(text)
		assert.NoError(t, err, text)
	}
	_, err = DecodeBase32("01")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	sum := CRC32([]byte("hello"))
	assert.True(t, Verify(sum[:], []byte("hello")))
	assert.False(t, Verify(sum[:], []byte("hellp")))
	assert.False(t, Verify(sum[:3], []byte("hello")))
}
