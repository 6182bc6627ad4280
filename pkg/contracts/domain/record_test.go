package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrderPreserved(t *testing.T) {
	r := NewRecord()
	r.Set("Process", "chrome.exe")
	r.Set("CPU", "3")
	r.Set("Duration", "12.5")

	assert.Equal(t, []string{"Process", "CPU", "Duration"}, r.Columns())
	assert.Equal(t, []string{"chrome.exe", "3", "12.5"}, r.Values())

	// Overwriting must not move the column.
	r.Set("CPU", "5")
	assert.Equal(t, []string{"Process", "CPU", "Duration"}, r.Columns())
	assert.Equal(t, "5", r.Value("CPU"))
}

func TestRecordMarshalJSON(t *testing.T) {
	r := NewRecord()
	r.Set("b", "2")
	r.Set("a", "1")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"2","a":"1"}`, string(data))
}

func TestRecordCloneAndEqual(t *testing.T) {
	r := NewRecord()
	r.Set("Setting", "FreqCap")
	r.Set("Value", "0x000003e8")

	clone := r.Clone()
	assert.True(t, r.Equal(clone))

	clone.Set("Value", "0x0000012c")
	assert.False(t, r.Equal(clone))
	assert.Equal(t, "0x000003e8", r.Value("Value"))
}

func TestRecordGetMissing(t *testing.T) {
	r := NewRecord()
	v, ok := r.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, r.Equal(nil))
}
