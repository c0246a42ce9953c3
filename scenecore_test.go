package scenecore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scenecore/cache"
	"github.com/hupe1980/scenecore/config"
	"github.com/hupe1980/scenecore/internal/testutil"
	"github.com/hupe1980/scenecore/logging"
	"github.com/hupe1980/scenecore/scene"
)

type skybox struct {
	cache.Entry[string]
}

func TestNew_Defaults(t *testing.T) {
	s := New()
	require.NotNil(t, s.Root())
	assert.Equal(t, "SceneRoot", s.Root().Name())
	assert.NotNil(t, s.Assets())
	assert.NotNil(t, s.Logger())

	child := s.NewComponent(nil, "Camera")
	assert.Same(t, s.Root(), child.Get().Parent())

	s.Close()
	assert.Nil(t, s.Root())
	assert.True(t, child.Get().Destroyed())
	child.Clear()
}

func TestNew_Options(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	assets := cache.New[string]()
	s := New(WithLogger(rec), WithAssets(assets), func(o *Options) {
		o.SceneConfig = scene.Config{RootName: "Level1", WarnOnMisuse: true}
	})
	defer s.Close()

	assert.Same(t, assets, s.Assets())
	assert.Equal(t, "Level1", s.Root().Name())

	child := s.NewComponent(nil, "Light")
	defer child.Clear()
	s.Root().SetParent(child.Get())
	assert.NotEmpty(t, rec.AtLevel(logging.LogLevelWarn))
	assert.Same(t, s.Root(), child.Get().Parent())
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Level = "debug"
	cfg.Log.Output = &buf
	cfg.Scene.RootName = "Arena"

	s, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Arena", s.Root().Name())

	ref := s.NewComponent(nil, "Player")
	ref.Clear()
	s.Close()
	assert.Contains(t, buf.String(), "Component lifecycle")

	cfg.Log.Backend = "carrier-pigeon"
	_, err = NewFromConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestClose_PurgesPermanentAssets(t *testing.T) {
	s := New()
	ref, err := cache.GetOrCreate(s.Assets(), "sky", true, func() (*skybox, error) {
		return &skybox{}, nil
	})
	require.NoError(t, err)
	sky := ref.Get()
	ref.Clear()
	assert.Equal(t, 1, s.Assets().Len())

	s.Close()
	assert.Zero(t, s.Assets().Len())
	assert.True(t, sky.Reclaimed())
}
