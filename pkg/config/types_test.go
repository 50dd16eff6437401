package config_test

import (
	"os/user"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojapay.io/mobile-money/pkg/config"
)

func TestToPath(t *testing.T) {
	currentUser, err := user.Current()
	require.NoError(t, err)
	t.Setenv("MOJAPAY_TEST_DIR", "/srv/data")

	for _, tt := range []struct {
		in   string
		want string
	}{
		{in: "/var/lib/mojapay", want: "/var/lib/mojapay"},
		{in: "~", want: currentUser.HomeDir},
		{in: "~/.mojapay", want: filepath.Join(currentUser.HomeDir, ".mojapay")},
		{in: "$MOJAPAY_TEST_DIR/mojapay", want: "/srv/data/mojapay"},
		{in: "relative/~", want: "relative/~"},
	} {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, config.Path(tt.want), config.ToPath(tt.in))
		})
	}
}

func TestDuration(t *testing.T) {
	var d config.Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, config.Duration(1500*time.Millisecond), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Error(t, d.UnmarshalText([]byte("-1s")))
}
