package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// LoadExamples reads curated few-shot (question, SQL) pairs from a YAML
// file. An empty path or a missing file is not an error — the feature is
// optional and generation works without it. Entries with a blank question
// or SQL are skipped.
func LoadExamples(path string) ([]models.QueryExample, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read examples file %s: %w", path, err)
	}

	var doc struct {
		Examples []models.QueryExample `yaml:"examples"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse examples file %s: %w", path, err)
	}

	examples := make([]models.QueryExample, 0, len(doc.Examples))
	for _, ex := range doc.Examples {
		if strings.TrimSpace(ex.Question) == "" || strings.TrimSpace(ex.SQL) == "" {
			continue
		}
		examples = append(examples, ex)
	}
	return examples, nil
}
