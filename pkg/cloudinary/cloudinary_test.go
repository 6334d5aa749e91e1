package cloudinary

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBuildPublicIDSanitizesName(t *testing.T) {
	id := buildPublicID("Asha Photo (1).png")
	require.True(t, strings.HasPrefix(id, "Asha-Photo--1-"), id)
	require.NotContains(t, id, ".")

	require.True(t, strings.HasPrefix(buildPublicID("###.jpg"), "image-"))
	require.NotEqual(t, buildPublicID("logo.png"), buildPublicID("logo.png"))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.Error(t, err)
}
