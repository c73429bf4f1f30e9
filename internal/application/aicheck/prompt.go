package aicheck

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// DefaultYenPerUSD is the rough exchange rate the model is told to use.
const DefaultYenPerUSD = 150

// PromptConfig holds the receipt-check prompt loaded from YAML.
type PromptConfig struct {
	ReceiptCheck struct {
		System       string `yaml:"system"`
		UserTemplate string `yaml:"user_template"`
	} `yaml:"receipt_check"`
}

// Prompts renders receipt-check prompts for a claim.
type Prompts struct {
	system    string
	user      *template.Template
	yenPerUSD int
}

// LoadPrompts reads prompts from path, or the built-in set when path is empty.
func LoadPrompts(path string, yenPerUSD int) (*Prompts, error) {
	data := defaultPrompts
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompts file: %w", err)
		}
	}
	return ParsePrompts(data, yenPerUSD)
}

// ParsePrompts builds Prompts from YAML content.
func ParsePrompts(data []byte, yenPerUSD int) (*Prompts, error) {
	var cfg PromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	if cfg.ReceiptCheck.UserTemplate == "" {
		return nil, fmt.Errorf("prompts: receipt_check.user_template is empty")
	}

	tmpl, err := template.New("receipt_check").Option("missingkey=error").Parse(cfg.ReceiptCheck.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	if yenPerUSD <= 0 {
		yenPerUSD = DefaultYenPerUSD
	}

	return &Prompts{
		system:    cfg.ReceiptCheck.System,
		user:      tmpl,
		yenPerUSD: yenPerUSD,
	}, nil
}

type promptData struct {
	Tool          string
	AmountDisplay string
	TargetMonth   string
	Purpose       string
	YenPerUSD     int
}

// System returns the system instruction shared by both models.
func (p *Prompts) System() string {
	return p.system
}

// Render fills the user prompt for claim.
func (p *Prompts) Render(claim entity.Claim) (string, error) {
	var buf bytes.Buffer
	err := p.user.Execute(&buf, promptData{
		Tool:          claim.Tool,
		AmountDisplay: FormatYen(claim.Amount),
		TargetMonth:   claim.TargetMonth,
		Purpose:       claim.Purpose,
		YenPerUSD:     p.yenPerUSD,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// FormatYen groups digits by thousands, e.g. 12345 -> "12,345".
func FormatYen(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	sign := ""
	if amount < 0 {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var buf bytes.Buffer
	head := len(digits) % 3
	if head > 0 {
		buf.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if buf.Len() > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(digits[i : i+3])
	}
	return sign + buf.String()
}
