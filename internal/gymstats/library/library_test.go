package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefault(t *testing.T) {
	lib := Default()
	require.NotNil(t, lib)
	assert.NotEmpty(t, lib.Exercises())

	assert.Equal(t, CategoryUpperBodyPush, lib.ResolveCategory("Bench"))
	assert.Equal(t, CategoryLowerBody, lib.ResolveCategory("squat"))
	assert.Equal(t, CategoryLowerBody, lib.ResolveCategory("  Squat "))
	assert.Equal(t, CategoryFullBody, lib.ResolveCategory("Deadlift"))
	assert.Equal(t, UnknownCategory, lib.ResolveCategory("Underwater Basket Weaving"))
	assert.Equal(t, UnknownCategory, lib.ResolveCategory(""))

	for _, ex := range lib.Exercises() {
		assert.True(t, IsCategory(ex.Category), ex.Name)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Exercise{{Name: "", Category: CategoryCore}})
	assert.Error(t, err)

	_, err = New([]Exercise{{Name: "Plank", Category: "Abs"}})
	assert.Error(t, err)

	_, err = New([]Exercise{
		{Name: "Plank", Category: CategoryCore},
		{Name: "plank", Category: CategoryCore},
	})
	assert.Error(t, err)

	lib, err := New(nil)
	require.NoError(t, err)
	assert.Empty(t, lib.Exercises())
	assert.Equal(t, UnknownCategory, lib.ResolveCategory("Plank"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.toml")
	content := `
[[exercise]]
name = "Sled Push"
category = "Full Body"
fields = ["weight", "distance"]

[[exercise]]
name = "Dead Bug"
category = "Core"
fields = ["reps"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	lib, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, lib.Exercises(), 2)
	assert.Equal(t, CategoryFullBody, lib.ResolveCategory("Sled Push"))
	assert.Equal(t, CategoryCore, lib.ResolveCategory("dead bug"))
	assert.Equal(t, UnknownCategory, lib.ResolveCategory("Squat"))

	ex, ok := lib.Lookup("Sled Push")
	require.True(t, ok)
	assert.Equal(t, []Field{FieldWeight, FieldDistance}, ex.Fields)

	// sorted by category, then name
	assert.Equal(t, "Dead Bug", lib.Exercises()[0].Name)
}

func TestLoadOrDefault(t *testing.T) {
	lib, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, CategoryLowerBody, lib.ResolveCategory("Squat"))

	lib, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, CategoryLowerBody, lib.ResolveCategory("Squat"))

	broken := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[[exercise]\nname ="), 0o600))
	_, err = LoadOrDefault(broken)
	assert.Error(t, err)
}
