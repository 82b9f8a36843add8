package extid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		id   uintptr
	}{
		{"TIME", Time},
		{"sPI", IPI},
		{"RFNC", RFence},
		{"HSM", HSM},
		{"SRST", SRST},
		{"BASE", Base},
		{"firmware", Firmware},
	}
	for _, test := range tests {
		id, err := FromName(test.name)
		require.NoError(t, err, test.name)
		assert.Equal(t, test.id, id, test.name)
	}
}

func TestFromNameInvalid(t *testing.T) {
	for _, name := range []string{"", "TOOLONG", "A\x01"} {
		_, err := FromName(name)
		assert.Error(t, err, "%q", name)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "TIME", Name(Time))
	assert.Equal(t, "sPI", Name(IPI))
	assert.Equal(t, "SRST", Name(SRST))
	assert.Equal(t, "FIRMWARE", Name(Firmware))
	assert.Equal(t, "FIRMWARE+0x3", Name(Firmware+3))
	assert.Equal(t, "0x1", Name(LegacyPutchar))
	assert.Equal(t, "0x0", Name(0))
}

func TestKnownRoundTrip(t *testing.T) {
	for _, id := range Known() {
		got, err := FromName(Name(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}
