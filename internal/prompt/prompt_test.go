package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
)

func TestPrompterReference(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("40,730610\n-73.935242\n"), &out)

	ref, err := p.Reference()

	require.NoError(t, err)
	assert.Equal(t, geo.GeoPoint{Lon: -73.935242, Lat: 40.730610}, ref)
	assert.Equal(t, "Enter Latitude\nEnter longitude\nWait a sec ...\n", out.String())
}

func TestPrompterReference_Tokens(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"same line", "40.730610 -73.935242\n"},
		{"blank lines and padding", "\n\n  40.730610\n\n\t-73.935242  \n"},
		{"no trailing newline", "40.730610\n-73.935242"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := New(strings.NewReader(tc.input), io.Discard).Reference()
			require.NoError(t, err)
			assert.Equal(t, geo.GeoPoint{Lon: -73.935242, Lat: 40.730610}, ref)
		})
	}
}

func TestPrompterReference_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "bad latitude",
			input: "abc\n10\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
				assert.Contains(t, err.Error(), "latitude")
			},
		},
		{
			name:  "missing longitude",
			input: "10\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
				assert.Contains(t, err.Error(), "longitude")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(strings.NewReader(tc.input), io.Discard).Reference()
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}
