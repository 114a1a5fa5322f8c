package exercise

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/repcoach/internal/form"
	"github.com/ayusman/repcoach/internal/pose"
	"github.com/ayusman/repcoach/internal/rep"
)

// Catalog holds the validated exercise configurations available to a host.
// Listing order is the file order; any shuffling is the host's business.
type Catalog struct {
	byID  map[string]*Config
	order []string
}

// NewCatalog builds a catalog from validated configs.
func NewCatalog(configs ...*Config) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Config)}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate exercise id %q", cfg.ID)
		}
		c.byID[cfg.ID] = cfg
		c.order = append(c.order, cfg.ID)
	}
	return c, nil
}

// Get returns the config for the given exercise id.
func (c *Catalog) Get(id string) (*Config, bool) {
	cfg, ok := c.byID[id]
	return cfg, ok
}

// List returns all configs in catalog order.
func (c *Catalog) List() []*Config {
	configs := make([]*Config, 0, len(c.order))
	for _, id := range c.order {
		configs = append(configs, c.byID[id])
	}
	return configs
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// On-disk catalog schema.

type catalogFile struct {
	Exercise []exerciseEntry `toml:"exercise"`
}

type exerciseEntry struct {
	ID            string            `toml:"id"`
	Name          string            `toml:"name"`
	Kind          string            `toml:"kind"`
	MinConfidence float64           `toml:"min_confidence"`
	RepTarget     int               `toml:"rep_target"`
	Rules         []form.Rule       `toml:"rules"`
	Primary       *pose.JointTriple `toml:"primary"`
	Secondary     *pose.JointTriple `toml:"secondary"`
	Phase         *rep.PhaseSpec    `toml:"phase"`
	Pivot         int               `toml:"pivot"`
	Reference     int               `toml:"reference"`
	TargetDegrees float64           `toml:"target_degrees"`
	Seconds       int               `toml:"seconds"`
}

// buildConfig turns a decoded entry into a validated Config. The kind tag
// selects the tracking variant; anything else is rejected here rather than
// surfacing as a runtime lookup failure mid-session.
func buildConfig(e exerciseEntry) (*Config, error) {
	cfg := &Config{
		ID:            e.ID,
		Name:          e.Name,
		MinConfidence: e.MinConfidence,
		RepTarget:     e.RepTarget,
		Rules:         e.Rules,
	}

	switch Kind(e.Kind) {
	case KindAngle:
		if e.Primary == nil {
			return nil, fmt.Errorf("exercise %q: angle tracking requires a primary joint triple", e.ID)
		}
		if e.Phase == nil {
			return nil, fmt.Errorf("exercise %q: angle tracking requires a phase spec", e.ID)
		}
		cfg.Tracking = AngleTracking{Primary: *e.Primary, Secondary: e.Secondary, Phase: *e.Phase}
	case KindRotation:
		cfg.Tracking = RotationTracking{Pivot: e.Pivot, Reference: e.Reference, TargetDegrees: e.TargetDegrees}
	case KindTimer:
		cfg.Tracking = TimerTracking{Seconds: e.Seconds}
	case KindManual:
		cfg.Tracking = ManualTracking{}
	default:
		return nil, fmt.Errorf("exercise %q: unknown tracking kind %q", e.ID, e.Kind)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCatalog reads and validates an exercise catalog from a TOML file.
func LoadCatalog(path string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return catalogFromFile(file)
}

// ParseCatalog validates a catalog from TOML source, used by tests and
// embedded defaults.
func ParseCatalog(data string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return catalogFromFile(file)
}

func catalogFromFile(file catalogFile) (*Catalog, error) {
	configs := make([]*Config, 0, len(file.Exercise))
	for _, entry := range file.Exercise {
		cfg, err := buildConfig(entry)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return NewCatalog(configs...)
}

// DefaultCatalog returns the built-in exercises used when no catalog file is
// supplied.
func DefaultCatalog() *Catalog {
	leftKnee := pose.JointTriple{Point1: pose.LeftHip, Vertex: pose.LeftKnee, Point3: pose.LeftAnkle}
	rightKnee := pose.JointTriple{Point1: pose.RightHip, Vertex: pose.RightKnee, Point3: pose.RightAnkle}
	leftElbow := pose.JointTriple{Point1: pose.LeftShoulder, Vertex: pose.LeftElbow, Point3: pose.LeftWrist}
	rightElbow := pose.JointTriple{Point1: pose.RightShoulder, Vertex: pose.RightElbow, Point3: pose.RightWrist}
	leftShoulderAb := pose.JointTriple{Point1: pose.LeftHip, Vertex: pose.LeftShoulder, Point3: pose.LeftElbow}
	rightShoulderAb := pose.JointTriple{Point1: pose.RightHip, Vertex: pose.RightShoulder, Point3: pose.RightElbow}

	catalog, err := NewCatalog(
		&Config{
			ID:            "squat",
			Name:          "Bodyweight Squat",
			MinConfidence: 0.6,
			RepTarget:     10,
			Rules: []form.Rule{
				{Check: form.CheckKneeOverAnkle, Message: "Keep your knees tracking over your ankles"},
				{Check: form.CheckSpineAlignment, Message: "Keep your chest up and back straight"},
				{Check: form.CheckShoulderLevel},
			},
			Tracking: AngleTracking{
				Primary:   leftKnee,
				Secondary: &rightKnee,
				Phase: rep.PhaseSpec{
					StartAngle:     170,
					StartTolerance: 15,
					PeakAngle:      90,
					PeakTolerance:  20,
					Bilateral:      true,
					MinInterRepMs:  rep.DefaultMinInterRepMs,
				},
			},
		},
		&Config{
			ID:            "bicep-curl",
			Name:          "Bicep Curl",
			MinConfidence: 0.6,
			RepTarget:     12,
			Rules: []form.Rule{
				{Check: form.CheckShoulderLevel},
				{Check: form.CheckSideSymmetry, Message: "Curl both arms together"},
				{Check: form.CheckHeadNeutral},
			},
			Tracking: AngleTracking{
				Primary:   leftElbow,
				Secondary: &rightElbow,
				Phase: rep.PhaseSpec{
					StartAngle:     160,
					StartTolerance: 20,
					PeakAngle:      60,
					PeakTolerance:  25,
					Bilateral:      true,
					MinInterRepMs:  rep.DefaultMinInterRepMs,
				},
			},
		},
		&Config{
			ID:            "lateral-raise",
			Name:          "Lateral Raise",
			MinConfidence: 0.6,
			RepTarget:     10,
			Rules: []form.Rule{
				{Check: form.CheckElbowStraight, Message: "Keep your arms straight as you raise"},
				{Check: form.CheckSideSymmetry},
				{Check: form.CheckSpineAlignment},
			},
			Tracking: AngleTracking{
				Primary:   leftShoulderAb,
				Secondary: &rightShoulderAb,
				Phase: rep.PhaseSpec{
					StartAngle:     20,
					StartTolerance: 15,
					PeakAngle:      85,
					PeakTolerance:  15,
					Bilateral:      true,
					MinInterRepMs:  rep.DefaultMinInterRepMs,
				},
			},
		},
		&Config{
			ID:            "plank",
			Name:          "Plank Hold",
			MinConfidence: 0.5,
			RepTarget:     1,
			Rules: []form.Rule{
				{Check: form.CheckSpineAlignment, Message: "Keep your hips in line with your shoulders"},
				{Check: form.CheckHeadNeutral},
			},
			Tracking: TimerTracking{Seconds: 30},
		},
	)
	if err != nil {
		// The built-in catalog is fixed at compile time; a validation
		// failure here is a programming error.
		panic(err)
	}
	return catalog
}
