package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kazz187/taskdesk/pkg/cerr"
)

func TestNormalize(t *testing.T) {
	got, err := Normalize("2025-10-02")
	require.NoError(t, err)
	assert.Equal(t, "02 Oct 2025", got)

	got, err = Normalize(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, "29 Feb 2024", got)
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"2025/10/02",
		"02 Oct 2025",
		"2025-13-01",
		"2025-02-30",
		"2023-02-29",
		"2025-1-2",
		"25-10-02",
		"2025-10-02T00:00:00Z",
		"tomorrow",
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := Normalize(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDateFormat)
			assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
			assert.Empty(t, got)
		})
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	start := New(1999, time.December, 25)
	for i := 0; i < 800; i += 7 {
		want := New(start.Time().Year(), start.Time().Month(), start.Time().Day()+i)

		display, err := Normalize(want.ISO())
		require.NoError(t, err)

		back, err := ParseDisplay(display)
		require.NoError(t, err)
		assert.True(t, want.Equal(back), "round trip of %s gave %s", want.ISO(), back.ISO())
		assert.Equal(t, want, back)
	}
}

func TestParseDisplayRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"2025-10-02", "2 Oct", "32 Oct 2025", "02 Foo 2025", "02 oct 2025", "02 OCT 2025", "2 Oct 2025"} {
		_, err := ParseDisplay(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrMalformedStoredDate)
		assert.True(t, cerr.IsCode(err, cerr.DataLoss))
	}
}

func TestTodayDropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2025, time.October, 2, 23, 59, 0, 0, loc)
	assert.Equal(t, New(2025, time.October, 2), Today(now))
}

func TestCompare(t *testing.T) {
	a := New(2025, time.October, 1)
	b := New(2025, time.October, 2)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
	assert.True(t, b.After(a))
}

func TestZeroDate(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
	assert.Equal(t, "", d.ISO())
}

func TestYAMLUsesDisplayForm(t *testing.T) {
	type doc struct {
		Due Date `yaml:"due"`
	}
	out, err := yaml.Marshal(doc{Due: New(2025, time.October, 2)})
	require.NoError(t, err)
	assert.Equal(t, "due: 02 Oct 2025\n", string(out))

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, New(2025, time.October, 2), back.Due)

	err = yaml.Unmarshal([]byte("due: 2025-10-02\n"), &back)
	assert.ErrorIs(t, err, ErrMalformedStoredDate)
}
