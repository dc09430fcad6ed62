package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFixtures reads a Dataset from a .json, .yaml or .yml file. Unknown
// fields are rejected so a typo in a fixture does not silently drop data.
func LoadFixtures(path string) (Dataset, error) {
	var ds Dataset

	b, err := os.ReadFile(path)
	if err != nil {
		return ds, fmt.Errorf("failed to read fixtures: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&ds)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(&ds)
	default:
		return ds, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
	if err != nil {
		return ds, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, c := range ds.Customers {
		if c.ID == "" || c.Name == "" {
			return ds, fmt.Errorf("%s: customer %d needs an id and a name", path, i)
		}
		if c.ConsultantType != "" && !c.ConsultantType.Valid() {
			return ds, fmt.Errorf("%s: customer %s has consultant_type %q", path, c.ID, c.ConsultantType)
		}
		if c.SubscriptionStatus != "" && !c.SubscriptionStatus.Valid() {
			return ds, fmt.Errorf("%s: customer %s has subscription_status %q", path, c.ID, c.SubscriptionStatus)
		}
	}
	for i, c := range ds.Consultants {
		if c.ID == "" || c.Name == "" {
			return ds, fmt.Errorf("%s: consultant %d needs an id and a name", path, i)
		}
	}
	return ds, nil
}
