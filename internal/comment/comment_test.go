package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		want   Line
		wantOK bool
	}{
		{name: "step", input: `# WAIT;{"duration":1}`, want: Line{Tag: "WAIT", Payload: `{"duration":1}`}, wantOK: true},
		{name: "indented", input: `    # WellPlate96;{"slot":1}`, want: Line{Tag: "WellPlate96", Payload: `{"slot":1}`}, wantOK: true},
		{name: "no space after marker", input: "#meta;a:b:c", want: Line{Tag: "meta", Payload: "a:b:c"}, wantOK: true},
		{name: "payload keeps semicolons", input: "# meta;a;b:c:d", want: Line{Tag: "meta", Payload: "a;b:c:d"}, wantOK: true},
		{name: "no separator", input: "#end", want: Line{Tag: "end"}, wantOK: true},
		{name: "code", input: "pipette.drop_tip()", wantOK: false},
		{name: "blank", input: "   ", wantOK: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLine(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLine_String(t *testing.T) {
	assert.Equal(t, `# MIX;{"times":2}`, Line{Tag: "MIX", Payload: `{"times":2}`}.String())
}

func TestMeta_RoundTrip(t *testing.T) {
	testCases := []Meta{
		{Name: "Plating", Author: "lab", Description: "overnight culture"},
		{Name: "", Author: "", Description: ""},
		{Name: "a:b", Author: "c;d", Description: "100% of\nthe: well\r"},
		{Name: "%3A literal", Author: "x", Description: "y"},
	}
	for _, m := range testCases {
		line := EncodeMeta(m)
		assert.Equal(t, MetaTag, line.Tag)

		parsed, ok := ParseLine(line.String())
		require.True(t, ok)
		got, err := DecodeMeta(parsed.Payload)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestDecodeMeta_LegacyColons(t *testing.T) {
	got, err := DecodeMeta("name:author:ratio 1:2")
	require.NoError(t, err)
	assert.Equal(t, Meta{Name: "name", Author: "author", Description: "ratio 1:2"}, got)
}

func TestDecodeMeta_Malformed(t *testing.T) {
	for _, payload := range []string{"", "only-name", "name:author"} {
		_, err := DecodeMeta(payload)
		require.ErrorIs(t, err, ErrMalformedMeta, "payload %q", payload)
	}
}
