package metrics

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUDPListener(t *testing.T) (net.PacketConn, func() string) {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	readLine := func() string {
		buf := make([]byte, 1024)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}
	return pc, readLine
}

func TestStatsd_CountWithTags(t *testing.T) {
	pc, readLine := newUDPListener(t)

	c, err := NewStatsd(Config{Enabled: true, Addr: pc.LocalAddr().String(), Prefix: "jeton"})
	require.NoError(t, err)
	defer c.Close()

	c.Count("auth.login", 1, map[string]string{"result": "success", "method": "password"})

	assert.Equal(t, "jeton.auth.login:1|c|#method:password,result:success", readLine())
}

func TestStatsd_TimingMilliseconds(t *testing.T) {
	pc, readLine := newUDPListener(t)

	c, err := NewStatsd(Config{Enabled: true, Addr: pc.LocalAddr().String()})
	require.NoError(t, err)
	defer c.Close()

	c.Timing("http.request", 250*time.Millisecond, nil)

	assert.Equal(t, "http.request:250|ms", readLine())
}

func TestStatsd_DisabledIsNoop(t *testing.T) {
	c, err := NewStatsd(Config{Enabled: false, Addr: "127.0.0.1:8125"})
	require.NoError(t, err)

	assert.False(t, c.Enabled())
	c.Count("auth.login", 1, nil)
	assert.NoError(t, c.Close())
}

func TestStatsd_NilReceiverIsSafe(t *testing.T) {
	var c *Statsd
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Close())
}
