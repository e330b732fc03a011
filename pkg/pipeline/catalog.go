package pipeline

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// PromptData carries every value a prompt template may reference.
type PromptData struct {
	CompanyName  string
	ProductList  string
	USP          string
	KeyStats     string
	AboutUs      string
	ColourScheme string

	BuyerPersona     string
	MissionValues    string
	SEOSummary       string
	TopKeywords      string
	TopicCluster     string
	Keywords         string
	WebsiteStructure string
	BrandVoice       string
	PageStructure    string
	PillarPage       string

	FileName    string
	FileContent string
}

type catalogFile struct {
	Instructions map[string]string `yaml:"instructions"`
	Prompts      map[string]string `yaml:"prompts"`
}

// Catalog holds system instructions and prompt templates by name.
type Catalog struct {
	instructions map[string]string
	prompts      map[string]*template.Template
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	c, err := ParseCatalog(defaultCatalog, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return c, nil
}

// LoadCatalog overlays the file at path on the embedded catalog. An empty
// path returns the embedded catalog.
func LoadCatalog(path string) (*Catalog, error) {
	base, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := ParseCatalog(data, base)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog parses YAML. Entries in data replace those in base.
func ParseCatalog(data []byte, base *Catalog) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	c := &Catalog{
		instructions: make(map[string]string),
		prompts:      make(map[string]*template.Template),
	}
	if base != nil {
		for k, v := range base.instructions {
			c.instructions[k] = v
		}
		for k, v := range base.prompts {
			c.prompts[k] = v
		}
	}

	for name, text := range file.Instructions {
		c.instructions[name] = strings.TrimSpace(text)
	}
	for name, text := range file.Prompts {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", name, err)
		}
		c.prompts[name] = tmpl
	}
	return c, nil
}

// Instruction returns the system message called name.
func (c *Catalog) Instruction(name string) (string, error) {
	text, ok := c.instructions[name]
	if !ok {
		return "", fmt.Errorf("unknown instruction %q", name)
	}
	return text, nil
}

// Render executes the prompt template called name.
func (c *Catalog) Render(name string, data PromptData) (string, error) {
	tmpl, ok := c.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// Validate checks that every task has its instruction and prompt.
func (c *Catalog) Validate(tasks []Task) error {
	var missing []string
	for _, t := range tasks {
		if _, ok := c.instructions[t.Instruction]; !ok {
			missing = append(missing, "instruction "+t.Instruction)
		}
		if _, ok := c.prompts[t.Prompt]; !ok {
			missing = append(missing, "prompt "+t.Prompt)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("catalog is incomplete: %s", strings.Join(missing, ", "))
	}
	return nil
}
