package annoviz

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the rendering configuration.
type Config struct {
	Trim      bool          `yaml:"trim"`                 // Clamp converted boxes into the image frame.
	BoxFormat Format        `yaml:"box_format,omitempty"` // Overrides the box format of the input, if set.
	Classes   []string      `yaml:"classes"`              // Class names by class id.
	Boxes     BoxStyle      `yaml:"boxes"`
	Keypoints KeypointStyle `yaml:"keypoints"`
	Skeleton  Skeleton      `yaml:"skeleton,omitempty"` // Nil selects COCOSkeleton.
	Masks     MaskStyle     `yaml:"masks"`
	Output    OutputConfig  `yaml:"output"`
}

// OutputConfig controls how rendered images are written.
type OutputConfig struct {
	Encoding    string  `yaml:"encoding"`     // jpg, png or webp.
	JPEGQuality int     `yaml:"jpeg_quality"` // Also used as WebP quality.
	Resize      float64 `yaml:"resize"`       // Scale factor applied before saving.
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Trim:      true,
		Boxes:     DefaultBoxStyle(),
		Keypoints: DefaultKeypointStyle(),
		Masks:     DefaultMaskStyle(),
		Output: OutputConfig{
			Encoding:    "jpg",
			JPEGQuality: 90,
			Resize:      1,
		},
	}
}

// LoadConfig reads the YAML configuration at path. Fields missing from the file keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Boxes.LineWidth < 1 {
		return fmt.Errorf("boxes.line_width must be positive")
	}
	if c.Boxes.Alpha < 0 || c.Boxes.Alpha > 1 {
		return fmt.Errorf("boxes.alpha must be between 0 and 1")
	}
	if !strings.Contains(c.Boxes.ScoreFormat, "%") {
		return fmt.Errorf("boxes.score_format must contain a formatting verb")
	}
	if c.Keypoints.Radius < 0 {
		return fmt.Errorf("keypoints.radius must not be negative")
	}
	if c.Keypoints.LineThickness < 0 {
		return fmt.Errorf("keypoints.line_thickness must not be negative")
	}
	if c.Masks.Alpha < 0 || c.Masks.Alpha > 1 {
		return fmt.Errorf("masks.alpha must be between 0 and 1")
	}
	if c.Masks.BorderWidth < 0 {
		return fmt.Errorf("masks.border_width must not be negative")
	}
	for _, limb := range c.Skeleton {
		if limb[0] < 0 || limb[1] < 0 {
			return fmt.Errorf("skeleton references negative keypoint index in %v", limb)
		}
	}
	if _, err := outputExt(c.Output.Encoding); err != nil {
		return err
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be between 1 and 100")
	}
	if c.Output.Resize <= 0 {
		return fmt.Errorf("output.resize must be positive")
	}
	return nil
}

// skeleton returns the configured skeleton or COCOSkeleton.
func (c *Config) skeleton() Skeleton {
	if c.Skeleton != nil {
		return c.Skeleton
	}
	return COCOSkeleton
}

// boxStyle returns the box style with the class names attached.
func (c *Config) boxStyle() BoxStyle {
	s := c.Boxes
	s.ClassNames = c.Classes
	return s
}
