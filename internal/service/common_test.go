package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	const id = "3f0d4c52-0d0c-4f0b-9a40-2d1f4d8f3c11"

	cases := []struct {
		input string
		valid bool
	}{
		{input: id, valid: true},
		{input: " 3F0D4C52-0D0C-4F0B-9A40-2D1F4D8F3C11 ", valid: true},
		{input: "{" + id + "}", valid: true},
		{input: "urn:uuid:" + id, valid: true},
		{input: "3f0d4c520d0c4f0b9a402d1f4d8f3c11", valid: true},
		{input: "not-an-id", valid: false},
		{input: "", valid: false},
	}

	for _, tc := range cases {
		got, ok := CanonicalID(tc.input)
		require.Equal(t, tc.valid, ok, tc.input)
		if tc.valid {
			require.Equal(t, id, got, tc.input)
		} else {
			require.Empty(t, got, tc.input)
		}
	}
}
