package ipxserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/ipx/pkg/config"
)

func TestInstallConfigAutoReload_EmptyPathIsNoop(t *testing.T) {
	closer, err := installConfigAutoReload("", &state{}, 0)
	require.NoError(t, err)
	assert.Nil(t, closer)
}

func TestInstallConfigAutoReload_ReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ipx.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dir: "+dir+"\nmax_age: 60\n"), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	st := newState(cfg, buildRegistry(cfg), &fakeDecoder{}, nil)

	closer, err := installConfigAutoReload(cfgPath, st, 20*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	require.NoError(t, os.WriteFile(cfgPath, []byte("dir: "+dir+"\nmax_age: 900\n"), 0o600))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		gotCfg, _, _, _, _ := st.snapshot()
		if gotCfg.MaxAge == 900 {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("config was not reloaded within deadline")
}
