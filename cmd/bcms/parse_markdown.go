package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"bcms/internal/models"
)

var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// postFrontMatter is the YAML front matter accepted by create --file.
type postFrontMatter struct {
	Title     string `yaml:"title"`
	Published bool   `yaml:"published"`
}

// parseMarkdownPost splits an optional YAML front matter from a markdown
// body and converts the body into a block document: headings become header
// blocks, everything else paragraph blocks separated by blank lines.
func parseMarkdownPost(input string) (postFrontMatter, *models.Document, error) {
	var front postFrontMatter
	content := input

	lines := strings.Split(input, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[0]) == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			return front, nil, fmt.Errorf("front matter not closed")
		}
		frontText := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(frontText), &front); err != nil {
			return front, nil, err
		}
		content = strings.Join(lines[end+1:], "\n")
	}

	doc, err := markdownToDocument(content)
	if err != nil {
		return front, nil, err
	}
	return front, doc, nil
}

func markdownToDocument(content string) (*models.Document, error) {
	var blocks []models.Block
	var paragraph []string

	flush := func() error {
		if len(paragraph) == 0 {
			return nil
		}
		block, err := textBlock("paragraph", strings.Join(paragraph, " "), 0)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
		paragraph = nil
		return nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if match := headingRegex.FindStringSubmatch(trimmed); len(match) == 3 {
			if err := flush(); err != nil {
				return nil, err
			}
			block, err := textBlock("header", strings.TrimSpace(match[2]), len(match[1]))
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
			continue
		}
		paragraph = append(paragraph, trimmed)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		return nil, nil
	}
	return &models.Document{Blocks: blocks}, nil
}

func textBlock(blockType, text string, level int) (models.Block, error) {
	payload := map[string]any{"text": text}
	if level > 0 {
		payload["level"] = level
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.Block{}, err
	}
	return models.Block{Type: blockType, Data: raw}, nil
}
