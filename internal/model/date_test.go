package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundtrip(t *testing.T) {
	d := NewDate(1990, time.May, 7)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-05-07"`, string(data))

	var got Date
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, d.Equal(got.Time))
}

func TestDateUnmarshalAcceptsRFC3339(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"1990-05-07T00:00:00Z"`), &d))
	assert.Equal(t, 1990, d.Year())
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 7, d.Day())
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"07/05/1990"`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2001, time.September, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2001, d.Year())

	require.NoError(t, d.Scan([]byte("2010-12-31")))
	assert.Equal(t, time.December, d.Month())

	assert.Error(t, d.Scan(12345))
}
