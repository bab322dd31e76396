package library

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymprofile/pkg"

	"github.com/BurntSushi/toml"
)

const UnknownCategory = "Unknown"

const (
	CategoryUpperBodyPush = "Upper Body Push"
	CategoryUpperBodyPull = "Upper Body Pull"
	CategoryLowerBody     = "Lower Body"
	CategoryCore          = "Core"
	CategoryCardio        = "Cardio"
	CategoryFullBody      = "Full Body"
)

// Categories is the fixed set of muscle-group categories a log can carry.
var Categories = []string{
	CategoryUpperBodyPush,
	CategoryUpperBodyPull,
	CategoryLowerBody,
	CategoryCore,
	CategoryCardio,
	CategoryFullBody,
}

func IsCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Field string

const (
	FieldWeight   Field = "weight"
	FieldReps     Field = "reps"
	FieldDistance Field = "distance"
	FieldDuration Field = "duration"
)

type Exercise struct {
	Name     string  `toml:"name" json:"name"`
	Category string  `toml:"category" json:"category"`
	Fields   []Field `toml:"fields" json:"fields"`
}

// Library is the read-only exercise catalogue used to stamp categories on new logs.
type Library struct {
	exercises []Exercise
	byName    map[string]Exercise
}

func New(exercises []Exercise) (*Library, error) {
	lib := &Library{
		byName: make(map[string]Exercise, len(exercises)),
	}
	for _, ex := range exercises {
		name := strings.TrimSpace(ex.Name)
		if name == "" {
			return nil, errors.New("exercise with empty name")
		}
		if !IsCategory(ex.Category) {
			return nil, fmt.Errorf("exercise [%s]: unknown category [%s]", name, ex.Category)
		}
		key := normalize(name)
		if _, ok := lib.byName[key]; ok {
			return nil, fmt.Errorf("duplicate exercise [%s]", name)
		}
		ex.Name = name
		lib.byName[key] = ex
		lib.exercises = append(lib.exercises, ex)
	}

	sort.Slice(lib.exercises, func(i, j int) bool {
		if lib.exercises[i].Category != lib.exercises[j].Category {
			return lib.exercises[i].Category < lib.exercises[j].Category
		}
		return lib.exercises[i].Name < lib.exercises[j].Name
	})

	return lib, nil
}

// LoadFile reads a TOML library definition:
//
//	[[exercise]]
//	name = "Bench Press"
//	category = "Upper Body Push"
//	fields = ["weight", "reps"]
func LoadFile(path string) (*Library, error) {
	var doc struct {
		Exercise []Exercise `toml:"exercise"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("decode library file: %w", err)
	}
	return New(doc.Exercise)
}

// LoadOrDefault loads the library file at path, or returns the built-in library when path is empty
// or the file does not exist.
func LoadOrDefault(path string) (*Library, error) {
	if path == "" {
		return Default(), nil
	}
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, err
	}
	if !exists {
		return Default(), nil
	}
	return LoadFile(path)
}

// ResolveCategory returns the category of the named exercise, or UnknownCategory.
func (l *Library) ResolveCategory(exerciseName string) string {
	if ex, ok := l.Lookup(exerciseName); ok {
		return ex.Category
	}
	return UnknownCategory
}

func (l *Library) Lookup(exerciseName string) (Exercise, bool) {
	ex, ok := l.byName[normalize(exerciseName)]
	return ex, ok
}

func (l *Library) Exercises() []Exercise {
	out := make([]Exercise, len(l.exercises))
	copy(out, l.exercises)
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
