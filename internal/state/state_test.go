package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thobiasn/opendocker/internal/docker"
)

func TestStateDispatch(t *testing.T) {
	s := New()
	assert.Equal(t, KindContainers, s.ActivePane())
	for _, k := range Kinds {
		assert.False(t, s.Loaded(k))
		assert.Equal(t, "", s.ActiveID(k))
	}

	s.SetContainers([]docker.Container{{ID: "c1"}, {ID: "c2"}})
	s.SetImages([]docker.Image{{ID: "sha256:i1"}})
	s.SetVolumes(nil)

	assert.Equal(t, "c1", s.ActiveID(KindContainers))
	assert.Equal(t, "sha256:i1", s.ActiveID(KindImages))
	assert.Equal(t, "", s.ActiveID(KindVolumes))
	assert.True(t, s.Loaded(KindVolumes))
	assert.Equal(t, 2, s.Len(KindContainers))

	assert.True(t, s.SetActive(KindContainers, "c2"))
	assert.False(t, s.SetActive(KindVolumes, "v1"))

	c, ok := s.Containers.Active()
	assert.True(t, ok)
	assert.Equal(t, "c2", c.ID)
}

func TestStateKindsIndependent(t *testing.T) {
	s := New()
	s.SetContainers([]docker.Container{{ID: "c1"}, {ID: "c2"}})
	s.SetActive(KindContainers, "c2")

	s.SetImages([]docker.Image{{ID: "i1"}})
	s.SetVolumes([]docker.Volume{{Name: "v1"}})
	assert.Equal(t, "c2", s.ActiveID(KindContainers))
}

func TestCyclePane(t *testing.T) {
	s := New()
	assert.Equal(t, KindImages, s.CyclePane())
	assert.Equal(t, KindVolumes, s.CyclePane())
	assert.Equal(t, KindContainers, s.CyclePane())

	s.SetActivePane(KindVolumes)
	assert.Equal(t, KindVolumes, s.ActivePane())
	s.SetActivePane(Kind(42))
	assert.Equal(t, KindVolumes, s.ActivePane())
}

func TestMoveUsesActivePane(t *testing.T) {
	s := New()
	s.SetContainers([]docker.Container{{ID: "c1"}, {ID: "c2"}})
	s.SetImages([]docker.Image{{ID: "i1"}, {ID: "i2"}})

	s.SetActivePane(KindImages)
	s.Move(1)
	assert.Equal(t, "i2", s.ActiveID(KindImages))
	assert.Equal(t, "c1", s.ActiveID(KindContainers))
}

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "Containers", KindContainers.Title())
	assert.Equal(t, "volumes", KindVolumes.String())
}
